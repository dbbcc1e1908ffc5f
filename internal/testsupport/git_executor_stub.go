package testsupport

import (
	"context"
	"strings"

	"github.com/temirov/vaihde/internal/execshell"
)

// GitResponse configures the outcome of a single stubbed git invocation.
type GitResponse struct {
	Result execshell.ExecutionResult
	Error  error
}

// GitExecutorStub records git invocations and replays responses keyed by the joined argument list.
type GitExecutorStub struct {
	Responses        map[string]GitResponse
	ExecutedCommands []execshell.CommandDetails
}

// ExecuteGit records the invocation and returns the configured response, or an empty success.
func (executor *GitExecutorStub) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.ExecutedCommands = append(executor.ExecutedCommands, details)
	response, exists := executor.Responses[strings.Join(details.Arguments, " ")]
	if !exists {
		return execshell.ExecutionResult{}, nil
	}
	if response.Error != nil {
		return execshell.ExecutionResult{}, response.Error
	}
	if details.StandardOutputWriter != nil && len(response.Result.StandardOutput) > 0 {
		_, _ = details.StandardOutputWriter.Write([]byte(response.Result.StandardOutput))
	}
	return response.Result, nil
}

// ExecutedArguments returns the argument lists of every recorded invocation.
func (executor *GitExecutorStub) ExecutedArguments() [][]string {
	arguments := make([][]string, 0, len(executor.ExecutedCommands))
	for _, details := range executor.ExecutedCommands {
		arguments = append(arguments, append([]string{}, details.Arguments...))
	}
	return arguments
}

// FailedGitResponse builds the response of a git command exiting with the given code and stderr.
func FailedGitResponse(arguments []string, exitCode int, standardError string) GitResponse {
	return GitResponse{Error: execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: arguments}},
		Result:  execshell.ExecutionResult{ExitCode: exitCode, StandardError: standardError},
	}}
}
