package execshell

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	commandFailedErrorTemplateConstant    = "%s exited with code %d"
	commandFailedStandardErrorTemplate    = "%s: %s"
	commandExecutionErrorTemplateConstant = "%s could not be executed: %v"
)

// CommandName identifies an executable resolved through PATH.
type CommandName string

// Known executables.
const (
	CommandGit          CommandName = "git"
	CommandPosixShell   CommandName = "sh"
	CommandWindowsShell CommandName = "cmd"
)

// CommandDetails describes how a single invocation is performed.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
	// StandardInputReader is connected to the process when StandardInput is empty, e.g. the terminal for interactive commands.
	StandardInputReader io.Reader
	// StandardOutputWriter receives stdout as it is produced, in addition to the captured copy.
	StandardOutputWriter io.Writer
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes a ShellCommand and reports its result.
// A non-zero exit code is reported through ExecutionResult, not as an error.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error implements error.
func (failure CommandFailedError) Error() string {
	message := fmt.Sprintf(commandFailedErrorTemplateConstant, describeCommand(failure.Command), failure.Result.ExitCode)
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return message
	}
	return fmt.Sprintf(commandFailedStandardErrorTemplate, message, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be started or waited on.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error implements error.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, describeCommand(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying cause, which is often a context cancellation.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

func describeCommand(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	commandParts = append(commandParts, command.Details.Arguments...)
	return strings.Join(commandParts, " ")
}
