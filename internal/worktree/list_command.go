package worktree

import (
	"github.com/spf13/cobra"

	"github.com/temirov/vaihde/internal/execshell"
	"github.com/temirov/vaihde/internal/gitrepo"
	"github.com/temirov/vaihde/internal/utils"
)

const (
	listCommandUseConstant              = "list"
	listCommandShortDescriptionConstant = "List worktrees"
	listCommandLongDescriptionConstant  = "list shows every worktree of the current repository as reported by git worktree list."
)

// ListCommandBuilder assembles the list command.
type ListCommandBuilder struct {
	LoggerProvider utils.LoggerProvider
	GitExecutor    gitrepo.GitExecutor
}

// Build constructs the list command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortDescriptionConstant,
		Long:  listCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, _ []string) error {
	startDirectory, directoryError := utils.NewCommandContextAccessor().StartDirectory(command.Context())
	if directoryError != nil {
		return directoryError
	}

	gitExecutor := builder.GitExecutor
	if gitExecutor == nil {
		shellExecutor, executorError := execshell.NewShellExecutor(utils.ResolveLogger(builder.LoggerProvider), execshell.NewOSCommandRunner())
		if executorError != nil {
			return executorError
		}
		gitExecutor = shellExecutor
	}

	accessor, accessorError := gitrepo.NewAccessor(gitExecutor, nil)
	if accessorError != nil {
		return accessorError
	}

	repositoryRoot, rootError := accessor.Root(command.Context(), startDirectory)
	if rootError != nil {
		return rootError
	}

	return accessor.ListWorktrees(command.Context(), repositoryRoot, utils.NewFlushingWriter(command.OutOrStdout()))
}
