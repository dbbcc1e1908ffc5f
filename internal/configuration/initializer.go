package configuration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// LocationLocal selects <repository root>/vaihde.toml.
	LocationLocal = "local"
	// LocationGlobal selects the mangled file under the user configuration directory.
	LocationGlobal = "global"

	localChoiceConstant                       = "1"
	globalChoiceConstant                      = "2"
	locationQuestionConstant                  = "Where should the config be created?\n"
	localChoiceTemplateConstant               = "  [1] Local:  %s\n"
	globalChoiceTemplateConstant              = "  [2] Global: %s\n"
	choicePromptConstant                      = "Choice [1]: "
	worktreeRootPromptTemplateConstant        = "Worktree root [%s]: "
	createdConfigurationTemplateConstant      = "Created: %s\n"
	defaultWorktreeRootTemplateConstant       = "~/worktrees/%s"
	configurationDirectoryPermissionsConstant = 0o755
	configurationFilePermissionsConstant      = 0o644
	unsupportedLocationTemplateConstant       = "%w: %s"
	unsupportedLocationMessageConstant        = "unsupported configuration location"
	initializerPrompterMissingMessageConstant = "prompter not configured"
	writeConfigurationTemplateConstant        = "unable to write %s: %w"
	initializedLogMessageConstant             = "configuration created"
	configurationPathLogFieldConstant         = "config_path"
	worktreeRootLogFieldConstant              = "worktree_root"
)

// ErrUnsupportedLocation indicates a location other than local or global was requested.
var ErrUnsupportedLocation = errors.New(unsupportedLocationMessageConstant)

// ErrPrompterNotConfigured indicates interactive input was needed without a prompter.
var ErrPrompterNotConfigured = errors.New(initializerPrompterMissingMessageConstant)

// Prompter asks the user a question and returns the answer or the default.
type Prompter interface {
	Ask(executionContext context.Context, prompt string, defaultAnswer string) (string, error)
}

// InitOptions controls configuration scaffolding. Empty fields are asked for interactively.
type InitOptions struct {
	StartDirectory string
	Location       string
	WorktreeRoot   string
}

// InitializerDependencies wires collaborators for Initializer.
type InitializerDependencies struct {
	Logger       *zap.Logger
	RootResolver RepositoryRootResolver
	FileSystem   afero.Fs
	PathResolver PathResolver
	Prompter     Prompter
	Output       io.Writer
}

// Initializer writes a starter configuration for a repository.
type Initializer struct {
	logger     *zap.Logger
	locator    *Locator
	fileSystem afero.Fs
	prompter   Prompter
	output     io.Writer
}

// NewInitializer validates dependencies and constructs an Initializer.
func NewInitializer(dependencies InitializerDependencies) (*Initializer, error) {
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = afero.NewOsFs()
	}

	locator, locatorError := NewLocator(dependencies.RootResolver, dependencies.FileSystem, dependencies.PathResolver)
	if locatorError != nil {
		return nil, locatorError
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	return &Initializer{
		logger:     logger,
		locator:    locator,
		fileSystem: dependencies.FileSystem,
		prompter:   dependencies.Prompter,
		output:     output,
	}, nil
}

// Initialize writes the starter configuration and returns its path.
// It refuses to proceed when a configuration is already discoverable for the repository.
func (initializer *Initializer) Initialize(executionContext context.Context, options InitOptions) (string, error) {
	repositoryRoot, rootError := initializer.locator.rootResolver.Root(executionContext, options.StartDirectory)
	if rootError != nil {
		return "", rootError
	}

	location, locateError := initializer.locator.LocateForRoot(repositoryRoot)
	if locateError != nil {
		return "", locateError
	}
	if location.Found() {
		return "", location.ExistsError()
	}

	configurationPath, locationError := initializer.selectPath(executionContext, location, options.Location)
	if locationError != nil {
		return "", locationError
	}

	worktreeRoot := strings.TrimSpace(options.WorktreeRoot)
	if len(worktreeRoot) == 0 {
		defaultRoot := fmt.Sprintf(defaultWorktreeRootTemplateConstant, filepath.Base(repositoryRoot))
		answer, askError := initializer.ask(executionContext, fmt.Sprintf(worktreeRootPromptTemplateConstant, defaultRoot), defaultRoot)
		if askError != nil {
			return "", askError
		}
		worktreeRoot = answer
	}

	if contextError := executionContext.Err(); contextError != nil {
		return "", contextError
	}

	renderedTemplate, renderError := RenderTemplate(worktreeRoot)
	if renderError != nil {
		return "", renderError
	}

	if mkdirError := initializer.fileSystem.MkdirAll(filepath.Dir(configurationPath), configurationDirectoryPermissionsConstant); mkdirError != nil {
		return "", fmt.Errorf(writeConfigurationTemplateConstant, configurationPath, mkdirError)
	}
	if writeError := afero.WriteFile(initializer.fileSystem, configurationPath, []byte(renderedTemplate), configurationFilePermissionsConstant); writeError != nil {
		return "", fmt.Errorf(writeConfigurationTemplateConstant, configurationPath, writeError)
	}

	initializer.logger.Debug(initializedLogMessageConstant,
		zap.String(configurationPathLogFieldConstant, configurationPath),
		zap.String(worktreeRootLogFieldConstant, worktreeRoot),
	)
	fmt.Fprintf(initializer.output, createdConfigurationTemplateConstant, configurationPath)

	return configurationPath, nil
}

func (initializer *Initializer) selectPath(executionContext context.Context, location Location, requestedLocation string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(requestedLocation)) {
	case LocationLocal:
		return location.LocalPath, nil
	case LocationGlobal:
		return location.GlobalPath, nil
	case "":
	default:
		return "", fmt.Errorf(unsupportedLocationTemplateConstant, ErrUnsupportedLocation, requestedLocation)
	}

	fmt.Fprint(initializer.output, locationQuestionConstant)
	fmt.Fprintf(initializer.output, localChoiceTemplateConstant, location.LocalPath)
	fmt.Fprintf(initializer.output, globalChoiceTemplateConstant, location.GlobalPath)

	choice, askError := initializer.ask(executionContext, choicePromptConstant, localChoiceConstant)
	if askError != nil {
		return "", askError
	}
	if choice == globalChoiceConstant {
		return location.GlobalPath, nil
	}
	return location.LocalPath, nil
}

func (initializer *Initializer) ask(executionContext context.Context, prompt string, defaultAnswer string) (string, error) {
	if initializer.prompter == nil {
		return "", ErrPrompterNotConfigured
	}
	return initializer.prompter.Ask(executionContext, prompt, defaultAnswer)
}
