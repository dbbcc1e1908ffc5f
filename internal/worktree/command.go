package worktree

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/vaihde/internal/configuration"
	"github.com/temirov/vaihde/internal/execshell"
	"github.com/temirov/vaihde/internal/gitrepo"
	"github.com/temirov/vaihde/internal/ui"
	"github.com/temirov/vaihde/internal/utils"
)

const (
	newCommandUseConstant              = "new <name>"
	newCommandShortDescriptionConstant = "Create a new worktree"
	newCommandLongDescriptionConstant  = "new creates a branch and worktree called <name> under the configured worktree_root, copies the configured files into it, and runs the configured post commands there."
	newCommandExampleConstant          = "vaihde new feature-login"
	createdWorktreeTemplateConstant    = "Created worktree: %s\n"
)

// CommandBuilder assembles the new command.
type CommandBuilder struct {
	LoggerProvider  utils.LoggerProvider
	GitExecutor     gitrepo.GitExecutor
	CommandExecutor PostCommandExecutor
	FileSystem      afero.Fs
	PathResolver    configuration.PathResolver
}

// Build constructs the new command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     newCommandUseConstant,
		Short:   newCommandShortDescriptionConstant,
		Long:    newCommandLongDescriptionConstant,
		Example: newCommandExampleConstant,
		Args:    cobra.ExactArgs(1),
		RunE:    builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	startDirectory, directoryError := utils.NewCommandContextAccessor().StartDirectory(command.Context())
	if directoryError != nil {
		return directoryError
	}

	logger := utils.ResolveLogger(builder.LoggerProvider)
	gitExecutor, gitExecutorError := builder.resolveGitExecutor(logger)
	if gitExecutorError != nil {
		return gitExecutorError
	}
	commandExecutor, commandExecutorError := builder.resolveCommandExecutor(logger)
	if commandExecutorError != nil {
		return commandExecutorError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:          logger,
		GitExecutor:     gitExecutor,
		CommandExecutor: commandExecutor,
		FileSystem:      builder.FileSystem,
		PathResolver:    builder.PathResolver,
		StandardInput:   command.InOrStdin(),
	})
	if serviceError != nil {
		return serviceError
	}

	result, createError := service.Create(command.Context(), Options{StartDirectory: startDirectory, Name: arguments[0]})
	if len(result.WorktreePath) > 0 {
		fmt.Fprintf(command.OutOrStdout(), createdWorktreeTemplateConstant, result.WorktreePath)
	}
	return createError
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (gitrepo.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
}

// resolveCommandExecutor attaches console reporting so post command progress is visible at info level.
func (builder *CommandBuilder) resolveCommandExecutor(logger *zap.Logger) (PostCommandExecutor, error) {
	if builder.CommandExecutor != nil {
		return builder.CommandExecutor, nil
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), ui.NewConsoleCommandEventLogger(logger))
}
