package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	branchReferencePrefixConstant           = "refs/heads/"
	shellScriptFlagPosixConstant            = "-c"
	shellScriptFlagWindowsConstant          = "/C"
)

const (
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitShowToplevelFlagConstant       = "--show-toplevel"
	gitShowRefSubcommandNameConstant  = "show-ref"
	gitWorktreeSubcommandNameConstant = "worktree"
	gitWorktreeAddActionConstant      = "add"
	gitWorktreeListActionConstant     = "list"
	gitNewBranchFlagConstant          = "-b"
)

const (
	gitToplevelStartTemplateConstant                = "Resolving repository root from %s"
	gitToplevelSuccessTemplateConstant              = "Repository root for %s is %s"
	gitToplevelFailureTemplateConstant              = "%s is not inside a Git repository (exit code %d%s)"
	gitToplevelExecutionFailureTemplateConstant     = "Unable to resolve repository root from %s: %s"
	gitShowRefStartTemplateConstant                 = "Checking whether branch %s exists in %s"
	gitShowRefSuccessTemplateConstant               = "Branch %s exists in %s"
	gitShowRefFailureTemplateConstant               = "Branch %s not found in %s (exit code %d%s)"
	gitShowRefExecutionFailureTemplateConstant      = "Unable to check branch %s in %s: %s"
	gitWorktreeAddStartTemplateConstant             = "Creating worktree %s on new branch %s"
	gitWorktreeAddSuccessTemplateConstant           = "Created worktree %s on new branch %s"
	gitWorktreeAddFailureTemplateConstant           = "Failed to create worktree %s on new branch %s (exit code %d%s)"
	gitWorktreeAddExecutionFailureTemplateConstant  = "Unable to create worktree %s on new branch %s: %s"
	gitWorktreeListStartTemplateConstant            = "Listing worktrees of %s"
	gitWorktreeListSuccessTemplateConstant          = "Listed worktrees of %s"
	gitWorktreeListFailureTemplateConstant          = "Failed to list worktrees of %s (exit code %d%s)"
	gitWorktreeListExecutionFailureTemplateConstant = "Unable to list worktrees of %s: %s"
	shellScriptStartTemplateConstant                = "Running shell command %q%s"
	shellScriptSuccessTemplateConstant              = "Completed shell command %q%s"
	shellScriptFailureTemplateConstant              = "Shell command %q%s failed with exit code %d%s"
	shellScriptExecutionFailureTemplateConstant     = "Shell command %q%s failed: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandPosixShell, CommandWindowsShell:
		return formatter.describeShellScriptMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(arguments[0]) {
	case gitRevParseSubcommandNameConstant:
		if containsArgument(arguments, gitShowToplevelFlagConstant) {
			return formatter.describeGitToplevelMessage(command, result, failure, stage)
		}
	case gitShowRefSubcommandNameConstant:
		return formatter.describeGitShowRefMessage(command, result, failure, stage)
	case gitWorktreeSubcommandNameConstant:
		return formatter.describeGitWorktreeMessage(command, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitToplevelMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitToplevelStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitToplevelSuccessTemplateConstant, workingDirectory, formatter.ensureValue(result.StandardOutput))
	case messageStageFailure:
		return fmt.Sprintf(gitToplevelFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitToplevelExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitShowRefMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	branchName := formatter.ensureValue(strings.TrimPrefix(formatter.lastNonFlagArgument(command.Details.Arguments[1:]), branchReferencePrefixConstant))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitShowRefStartTemplateConstant, branchName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitShowRefSuccessTemplateConstant, branchName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitShowRefFailureTemplateConstant, branchName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitShowRefExecutionFailureTemplateConstant, branchName, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitWorktreeMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(arguments[1]) {
	case gitWorktreeAddActionConstant:
		branchName := formatter.ensureValue(findFlagValue(arguments, gitNewBranchFlagConstant))
		worktreePath := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[2:]))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitWorktreeAddStartTemplateConstant, worktreePath, branchName)
		case messageStageSuccess:
			return fmt.Sprintf(gitWorktreeAddSuccessTemplateConstant, worktreePath, branchName)
		case messageStageFailure:
			return fmt.Sprintf(gitWorktreeAddFailureTemplateConstant, worktreePath, branchName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitWorktreeAddExecutionFailureTemplateConstant, worktreePath, branchName, formatter.describeFailure(failure))
		}
	case gitWorktreeListActionConstant:
		workingDirectory := formatter.describeWorkingDirectory(command)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitWorktreeListStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitWorktreeListSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitWorktreeListFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitWorktreeListExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeShellScriptMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	script := findFlagValue(command.Details.Arguments, shellScriptFlagPosixConstant)
	if len(script) == 0 {
		script = findFlagValue(command.Details.Arguments, shellScriptFlagWindowsConstant)
	}
	if len(script) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(shellScriptStartTemplateConstant, script, workingDirectorySuffix)
	case messageStageSuccess:
		return fmt.Sprintf(shellScriptSuccessTemplateConstant, script, workingDirectorySuffix)
	case messageStageFailure:
		return fmt.Sprintf(shellScriptFailureTemplateConstant, script, workingDirectorySuffix, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(shellScriptExecutionFailureTemplateConstant, script, workingDirectorySuffix, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		argument := strings.TrimSpace(arguments[index])
		if len(argument) == 0 || strings.HasPrefix(argument, "-") {
			continue
		}
		return argument
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, expected string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == expected {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return emptyStringConstant
}
