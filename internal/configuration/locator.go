package configuration

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/temirov/vaihde/internal/gitrepo"
)

const (
	rootResolverMissingMessageConstant          = "repository root resolver not configured"
	configurationNotFoundMessageConstant        = "no vaihde.toml config found"
	configurationExistsMessageConstant          = "config already exists"
	configurationNotFoundDetailTemplateConstant = "%w: create %s in your git repo, or %s"
	configurationExistsDetailTemplateConstant   = "%w: %s"
	configurationInspectionTemplateConstant     = "unable to inspect %s: %w"
)

// ErrRootResolverNotConfigured indicates the Locator was built without a repository root resolver.
var ErrRootResolverNotConfigured = errors.New(rootResolverMissingMessageConstant)

// ErrConfigurationNotFound indicates neither the global nor the local configuration file exists.
var ErrConfigurationNotFound = errors.New(configurationNotFoundMessageConstant)

// ErrConfigurationExists indicates init found an already discoverable configuration file.
var ErrConfigurationExists = errors.New(configurationExistsMessageConstant)

// RepositoryRootResolver resolves the top-level directory of the repository containing a path.
type RepositoryRootResolver interface {
	Root(executionContext context.Context, startPath string) (string, error)
}

// Location describes where configuration for a repository may live and which file, if any, was found.
type Location struct {
	RepositoryRoot string
	GlobalPath     string
	LocalPath      string
	Path           string
}

// Found reports whether a configuration file was discovered.
func (location Location) Found() bool {
	return len(location.Path) > 0
}

// NotFoundError returns ErrConfigurationNotFound annotated with both candidate paths.
func (location Location) NotFoundError() error {
	return fmt.Errorf(configurationNotFoundDetailTemplateConstant, ErrConfigurationNotFound, location.LocalPath, location.GlobalPath)
}

// Locator discovers the configuration file governing a repository.
type Locator struct {
	rootResolver RepositoryRootResolver
	fileSystem   afero.Fs
	pathResolver PathResolver
}

// NewLocator constructs a Locator. A nil fileSystem selects the operating system.
func NewLocator(rootResolver RepositoryRootResolver, fileSystem afero.Fs, pathResolver PathResolver) (*Locator, error) {
	if rootResolver == nil {
		return nil, ErrRootResolverNotConfigured
	}
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &Locator{rootResolver: rootResolver, fileSystem: fileSystem, pathResolver: pathResolver.withDefaults()}, nil
}

// Locate finds the configuration for the repository containing startDirectory.
// A start directory outside any repository yields an empty Location and no error.
func (locator *Locator) Locate(executionContext context.Context, startDirectory string) (Location, error) {
	repositoryRoot, rootError := locator.rootResolver.Root(executionContext, startDirectory)
	if rootError != nil {
		if errors.Is(rootError, gitrepo.ErrNotGitRepository) {
			return Location{}, nil
		}
		return Location{}, rootError
	}
	return locator.LocateForRoot(repositoryRoot)
}

// LocateForRoot finds the configuration for an already resolved repository root. The global file wins.
func (locator *Locator) LocateForRoot(repositoryRoot string) (Location, error) {
	globalPath, globalPathError := locator.pathResolver.GlobalConfigurationPath(repositoryRoot)
	if globalPathError != nil {
		return Location{}, globalPathError
	}

	location := Location{
		RepositoryRoot: repositoryRoot,
		GlobalPath:     globalPath,
		LocalPath:      LocalConfigurationPath(repositoryRoot),
	}

	for _, candidatePath := range []string{location.GlobalPath, location.LocalPath} {
		candidateExists, existsError := afero.Exists(locator.fileSystem, candidatePath)
		if existsError != nil {
			return Location{}, fmt.Errorf(configurationInspectionTemplateConstant, candidatePath, existsError)
		}
		if candidateExists {
			location.Path = candidatePath
			return location, nil
		}
	}

	return location, nil
}

// ExistsError returns ErrConfigurationExists naming the discovered file.
func (location Location) ExistsError() error {
	return fmt.Errorf(configurationExistsDetailTemplateConstant, ErrConfigurationExists, location.Path)
}
