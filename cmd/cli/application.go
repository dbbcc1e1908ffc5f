package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/vaihde/internal/configuration"
	"github.com/temirov/vaihde/internal/utils"
	"github.com/temirov/vaihde/internal/utils/flags"
	"github.com/temirov/vaihde/internal/worktree"
)

const (
	applicationNameConstant                 = "vaihde"
	applicationShortDescriptionConstant     = "Create git worktrees with per-repository setup automation"
	applicationLongDescriptionConstant      = "vaihde creates a branch and worktree for parallel feature work, copies untracked local files such as secrets into it, and runs setup commands there, as described by the repository's vaihde.toml."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	verboseFlagNameConstant                 = "verbose"
	verboseFlagShorthandConstant            = "v"
	verboseFlagUsageConstant                = "Verbose output; shorthand for --log-level debug."
	logLevelConfigKeyConstant               = "log_level"
	logFormatConfigKeyConstant              = "log_format"
	environmentPrefixConstant               = "VAIHDE"
	configurationNameConstant               = "settings"
	configurationTypeConstant               = "toml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	workingDirectoryFieldConstant           = "working_directory"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"

	// ExitCodeSuccess is returned when the command completed.
	ExitCodeSuccess = 0
	// ExitCodeFailure is returned for any fatal error.
	ExitCodeFailure = 1
	// ExitCodeInterrupted is returned when the run was cancelled by an interrupt.
	ExitCodeInterrupted = 130
)

var (
	supportedLogLevels  = []string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)}
	supportedLogFormats = []string{string(utils.LogFormatConsole), string(utils.LogFormatStructured)}
)

// ApplicationConfiguration describes the settings that shape the CLI itself.
type ApplicationConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, settings loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	logLevelFlagValue      string
	logFormatFlagValue     string
	verboseFlagValue       bool
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		nil,
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	flags.AddChoiceFlag(cobraCommand.PersistentFlags(), &application.logLevelFlagValue, logLevelFlagNameConstant, "", supportedLogLevels, logLevelFlagUsageConstant)
	flags.AddChoiceFlag(cobraCommand.PersistentFlags(), &application.logFormatFlagValue, logFormatFlagNameConstant, "", supportedLogFormats, logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().BoolVarP(&application.verboseFlagValue, verboseFlagNameConstant, verboseFlagShorthandConstant, false, verboseFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}

	newBuilder := worktree.CommandBuilder{LoggerProvider: loggerProvider}
	if newCommand, newBuildError := newBuilder.Build(); newBuildError == nil {
		cobraCommand.AddCommand(newCommand)
	}

	listBuilder := worktree.ListCommandBuilder{LoggerProvider: loggerProvider}
	if listCommand, listBuildError := listBuilder.Build(); listBuildError == nil {
		cobraCommand.AddCommand(listCommand)
	}

	pathBuilder := configuration.PathCommandBuilder{LoggerProvider: loggerProvider}
	if pathCommand, pathBuildError := pathBuilder.Build(); pathBuildError == nil {
		cobraCommand.AddCommand(pathCommand)
	}

	initBuilder := configuration.InitCommandBuilder{LoggerProvider: loggerProvider}
	if initCommand, initBuildError := initBuilder.Build(); initBuildError == nil {
		cobraCommand.AddCommand(initCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// RootCommand exposes the Cobra root command, primarily for argument and output redirection.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Execute runs the command hierarchy under executionContext and flushes the logger.
func (application *Application) Execute(executionContext context.Context) error {
	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute(executionContext context.Context) error {
	return NewApplication().Execute(executionContext)
}

// ExitCode maps the outcome of Execute to a process exit status.
func ExitCode(executionError error) int {
	switch {
	case executionError == nil:
		return ExitCodeSuccess
	case errors.Is(executionError, context.Canceled):
		return ExitCodeInterrupted
	default:
		return ExitCodeFailure
	}
}

// ProcessExitCode maps the outcome of Execute to a process exit status, reporting
// ExitCodeInterrupted whenever the execution context was cancelled, even if the
// command itself returned without an error.
func ProcessExitCode(executionContext context.Context, executionError error) int {
	if executionContext.Err() != nil {
		return ExitCodeInterrupted
	}
	return ExitCode(executionError)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		logLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		logFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}

	if _, loadError := application.configurationLoader.LoadConfiguration("", defaultValues, &application.configuration); loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.LogFormat = application.logFormatFlagValue
	}
	if application.verboseFlagValue {
		application.configuration.LogLevel = string(utils.LogLevelDebug)
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.LogLevel),
		utils.LogFormat(application.configuration.LogFormat),
		command.ErrOrStderr(),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	executionContext := command.Context()
	workingDirectory, workingDirectoryKnown := application.commandContextAccessor.WorkingDirectory(executionContext)
	if !workingDirectoryKnown {
		if currentDirectory, currentDirectoryError := os.Getwd(); currentDirectoryError == nil {
			workingDirectory = currentDirectory
			executionContext = application.commandContextAccessor.WithWorkingDirectory(executionContext, workingDirectory)
			command.SetContext(executionContext)
		}
	}

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.LogFormat),
		zap.String(workingDirectoryFieldConstant, workingDirectory),
	)

	return nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
