package configuration

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/vaihde/internal/execshell"
	"github.com/temirov/vaihde/internal/gitrepo"
	"github.com/temirov/vaihde/internal/utils"
	"github.com/temirov/vaihde/internal/utils/flags"
)

const (
	initCommandUseConstant              = "init"
	initCommandShortDescriptionConstant = "Create a new config file interactively"
	initCommandLongDescriptionConstant  = "init writes a commented vaihde.toml starter, either in the repository root or under the user configuration directory. It refuses to overwrite a configuration that is already discoverable."
	pathCommandUseConstant              = "config-path"
	pathCommandShortDescriptionConstant = "Show the global config path for this repository"
	pathCommandLongDescriptionConstant  = "config-path prints where the global configuration file for the current repository is expected."
	flagLocationNameConstant            = "location"
	flagLocationDescriptionConstant     = "Where to create the config (local or global); prompts when omitted"
	flagWorktreeRootNameConstant        = "worktree-root"
	flagWorktreeRootDescriptionConstant = "Root directory for new worktrees; prompts when omitted"
	printPathTemplateConstant           = "%s\n"
)

// InitCommandBuilder assembles the init command.
type InitCommandBuilder struct {
	LoggerProvider utils.LoggerProvider
	GitExecutor    gitrepo.GitExecutor
	FileSystem     afero.Fs
	PathResolver   PathResolver
}

// Build constructs the init command.
func (builder *InitCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   initCommandUseConstant,
		Short: initCommandShortDescriptionConstant,
		Long:  initCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	var location string
	flags.AddChoiceFlag(command.Flags(), &location, flagLocationNameConstant, "", []string{LocationLocal, LocationGlobal}, flagLocationDescriptionConstant)
	command.Flags().String(flagWorktreeRootNameConstant, "", flagWorktreeRootDescriptionConstant)

	return command, nil
}

func (builder *InitCommandBuilder) run(command *cobra.Command, _ []string) error {
	startDirectory, directoryError := utils.NewCommandContextAccessor().StartDirectory(command.Context())
	if directoryError != nil {
		return directoryError
	}

	logger := utils.ResolveLogger(builder.LoggerProvider)
	accessor, accessorError := resolveAccessor(logger, builder.GitExecutor, builder.FileSystem)
	if accessorError != nil {
		return accessorError
	}

	initializer, initializerError := NewInitializer(InitializerDependencies{
		Logger:       logger,
		RootResolver: accessor,
		FileSystem:   builder.FileSystem,
		PathResolver: builder.PathResolver,
		Prompter:     NewIOPrompter(command.InOrStdin(), command.OutOrStdout()),
		Output:       command.OutOrStdout(),
	})
	if initializerError != nil {
		return initializerError
	}

	locationValue := command.Flags().Lookup(flagLocationNameConstant).Value.String()
	worktreeRootValue, _ := command.Flags().GetString(flagWorktreeRootNameConstant)

	_, initializeError := initializer.Initialize(command.Context(), InitOptions{
		StartDirectory: startDirectory,
		Location:       locationValue,
		WorktreeRoot:   worktreeRootValue,
	})
	return initializeError
}

// PathCommandBuilder assembles the config-path command.
type PathCommandBuilder struct {
	LoggerProvider utils.LoggerProvider
	GitExecutor    gitrepo.GitExecutor
	PathResolver   PathResolver
}

// Build constructs the config-path command.
func (builder *PathCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pathCommandUseConstant,
		Short: pathCommandShortDescriptionConstant,
		Long:  pathCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *PathCommandBuilder) run(command *cobra.Command, _ []string) error {
	startDirectory, directoryError := utils.NewCommandContextAccessor().StartDirectory(command.Context())
	if directoryError != nil {
		return directoryError
	}

	accessor, accessorError := resolveAccessor(utils.ResolveLogger(builder.LoggerProvider), builder.GitExecutor, nil)
	if accessorError != nil {
		return accessorError
	}

	repositoryRoot, rootError := accessor.Root(command.Context(), startDirectory)
	if rootError != nil {
		return rootError
	}

	globalPath, pathError := builder.PathResolver.withDefaults().GlobalConfigurationPath(repositoryRoot)
	if pathError != nil {
		return pathError
	}

	fmt.Fprintf(command.OutOrStdout(), printPathTemplateConstant, globalPath)
	return nil
}

func resolveAccessor(logger *zap.Logger, executor gitrepo.GitExecutor, fileSystem afero.Fs) (*gitrepo.Accessor, error) {
	if executor == nil {
		shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
		if creationError != nil {
			return nil, creationError
		}
		executor = shellExecutor
	}
	return gitrepo.NewAccessor(executor, fileSystem)
}
