package worktree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anmitsu/go-shlex"
	"go.uber.org/zap"

	"github.com/temirov/vaihde/internal/configuration"
	"github.com/temirov/vaihde/internal/execshell"
)

const (
	runningCommandTemplateConstant        = "Running: %s"
	commandFailedTemplateConstant         = "Command failed with exit code %d: %s"
	commandNotStartedTemplateConstant     = "Command could not be started: %s: %v"
	commandUnparsableTemplateConstant     = "Skipping unparsable command %q: %v"
	commandEmptyMessageConstant           = "Skipping empty post command"
	commandExecutorMissingMessageConstant = "post command executor not configured"
	commandLogFieldConstant               = "command"
	exitCodeLogFieldConstant              = "exit_code"
	standardErrorLogFieldConstant         = "stderr"
	shellLogFieldConstant                 = "shell"
)

// ErrCommandExecutorNotConfigured indicates the post-command executor dependency was missing.
var ErrCommandExecutorNotConfigured = errors.New(commandExecutorMissingMessageConstant)

// PostCommandExecutor runs shell scripts and argument vectors.
type PostCommandExecutor interface {
	ExecuteShellScript(executionContext context.Context, script string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteArguments(executionContext context.Context, argumentVector []string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PostCommandRunner executes configured post commands one after another inside a worktree.
type PostCommandRunner struct {
	logger        *zap.Logger
	executor      PostCommandExecutor
	standardInput io.Reader
}

// NewPostCommandRunner constructs a PostCommandRunner.
func NewPostCommandRunner(logger *zap.Logger, executor PostCommandExecutor) (*PostCommandRunner, error) {
	if executor == nil {
		return nil, ErrCommandExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostCommandRunner{logger: logger, executor: executor}, nil
}

// SetStandardInput connects input to every post command, letting interactive setup steps read from the terminal.
func (runner *PostCommandRunner) SetStandardInput(input io.Reader) {
	runner.standardInput = input
}

// Run executes commands in workingDirectory and returns the command lines that did not succeed.
// Failures are logged and do not stop the sequence; only context cancellation does.
func (runner *PostCommandRunner) Run(executionContext context.Context, workingDirectory string, commands []configuration.PostCommand) ([]string, error) {
	failedCommands := make([]string, 0)
	details := execshell.CommandDetails{WorkingDirectory: workingDirectory, StandardInputReader: runner.standardInput}

	for _, postCommand := range commands {
		if contextError := executionContext.Err(); contextError != nil {
			return failedCommands, contextError
		}

		if len(strings.TrimSpace(postCommand.Run)) == 0 {
			runner.logger.Warn(commandEmptyMessageConstant)
			failedCommands = append(failedCommands, postCommand.Run)
			continue
		}

		runner.logger.Debug(fmt.Sprintf(runningCommandTemplateConstant, postCommand.Run), zap.Bool(shellLogFieldConstant, postCommand.Shell))

		var executionError error
		if postCommand.Shell {
			_, executionError = runner.executor.ExecuteShellScript(executionContext, postCommand.Run, details)
		} else {
			argumentVector, splitError := shlex.Split(postCommand.Run, true)
			if splitError != nil {
				runner.logger.Warn(fmt.Sprintf(commandUnparsableTemplateConstant, postCommand.Run, splitError))
				failedCommands = append(failedCommands, postCommand.Run)
				continue
			}
			if len(argumentVector) == 0 {
				runner.logger.Warn(commandEmptyMessageConstant)
				failedCommands = append(failedCommands, postCommand.Run)
				continue
			}
			_, executionError = runner.executor.ExecuteArguments(executionContext, argumentVector, details)
		}

		if executionError == nil {
			continue
		}
		if contextError := executionContext.Err(); contextError != nil {
			return failedCommands, contextError
		}

		failedCommands = append(failedCommands, postCommand.Run)
		runner.reportFailure(postCommand, executionError)
	}

	return failedCommands, nil
}

func (runner *PostCommandRunner) reportFailure(postCommand configuration.PostCommand, executionError error) {
	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		runner.logger.Warn(fmt.Sprintf(commandFailedTemplateConstant, commandFailure.Result.ExitCode, postCommand.Run),
			zap.String(commandLogFieldConstant, postCommand.Run),
			zap.Int(exitCodeLogFieldConstant, commandFailure.Result.ExitCode),
			zap.String(standardErrorLogFieldConstant, strings.TrimSpace(commandFailure.Result.StandardError)),
		)
		return
	}

	runner.logger.Warn(fmt.Sprintf(commandNotStartedTemplateConstant, postCommand.Run, executionError),
		zap.String(commandLogFieldConstant, postCommand.Run),
	)
}
