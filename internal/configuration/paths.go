package configuration

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	pathutils "github.com/temirov/vaihde/internal/utils/path"
)

const (
	// LocalConfigurationFileName is the file vaihde looks for in the repository root.
	LocalConfigurationFileName = "vaihde.toml"

	applicationDirectoryNameConstant            = "vaihde"
	configurationFileExtensionConstant          = ".toml"
	mangledSeparatorConstant                    = "__"
	forwardSlashConstant                        = "/"
	volumeSuffixConstant                        = ":"
	defaultConfigurationDirectoryConstant       = ".config"
	xdgConfigurationHomeVariableConstant        = "XDG_CONFIG_HOME"
	configurationHomeUnavailableMessageConstant = "unable to determine user configuration directory"
)

// ErrConfigurationHomeUnavailable indicates neither XDG_CONFIG_HOME nor a home directory could be resolved.
var ErrConfigurationHomeUnavailable = errors.New(configurationHomeUnavailableMessageConstant)

// EnvironmentLookup reads an environment variable.
type EnvironmentLookup func(name string) (string, bool)

// PathResolver computes configuration file locations for a repository root.
type PathResolver struct {
	homeExpander      *pathutils.HomeExpander
	environmentLookup EnvironmentLookup
}

// NewPathResolver constructs a PathResolver. Nil arguments select the operating system defaults.
func NewPathResolver(homeExpander *pathutils.HomeExpander, environmentLookup EnvironmentLookup) PathResolver {
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return PathResolver{homeExpander: homeExpander, environmentLookup: environmentLookup}
}

func (resolver PathResolver) withDefaults() PathResolver {
	if resolver.homeExpander == nil || resolver.environmentLookup == nil {
		return NewPathResolver(resolver.homeExpander, resolver.environmentLookup)
	}
	return resolver
}

// ConfigurationHome returns $XDG_CONFIG_HOME when it holds an absolute path, otherwise ~/.config.
func (resolver PathResolver) ConfigurationHome() (string, error) {
	if resolver.environmentLookup != nil {
		if configuredHome, found := resolver.environmentLookup(xdgConfigurationHomeVariableConstant); found && filepath.IsAbs(configuredHome) {
			return filepath.Clean(configuredHome), nil
		}
	}

	homeDirectory := resolver.homeExpander.HomeDirectory()
	if len(homeDirectory) == 0 {
		return "", ErrConfigurationHomeUnavailable
	}
	return filepath.Join(homeDirectory, defaultConfigurationDirectoryConstant), nil
}

// GlobalConfigurationPath returns <configuration home>/vaihde/<mangled repository root>.
func (resolver PathResolver) GlobalConfigurationPath(repositoryRoot string) (string, error) {
	configurationHome, homeError := resolver.ConfigurationHome()
	if homeError != nil {
		return "", homeError
	}
	return filepath.Join(configurationHome, applicationDirectoryNameConstant, MangleRepositoryPath(repositoryRoot)), nil
}

// GlobalConfigurationPath resolves the global configuration path using the operating system environment.
func GlobalConfigurationPath(repositoryRoot string) (string, error) {
	return NewPathResolver(nil, nil).GlobalConfigurationPath(repositoryRoot)
}

// LocalConfigurationPath returns <repositoryRoot>/vaihde.toml.
func LocalConfigurationPath(repositoryRoot string) string {
	return filepath.Join(repositoryRoot, LocalConfigurationFileName)
}

// MangleRepositoryPath flattens an absolute path into a single file name:
// /Users/akx/build/foo becomes Users__akx__build__foo.toml.
func MangleRepositoryPath(repositoryPath string) string {
	cleanedPath := filepath.ToSlash(filepath.Clean(repositoryPath))

	volumeName := filepath.VolumeName(repositoryPath)
	if len(volumeName) > 0 {
		cleanedPath = strings.TrimPrefix(cleanedPath, filepath.ToSlash(volumeName))
	}

	relativePath := strings.TrimLeft(cleanedPath, forwardSlashConstant)
	segments := make([]string, 0, 2)
	if trimmedVolume := strings.Trim(filepath.ToSlash(volumeName), forwardSlashConstant+volumeSuffixConstant); len(trimmedVolume) > 0 {
		segments = append(segments, strings.ReplaceAll(trimmedVolume, forwardSlashConstant, mangledSeparatorConstant))
	}
	if len(relativePath) > 0 {
		segments = append(segments, strings.ReplaceAll(relativePath, forwardSlashConstant, mangledSeparatorConstant))
	}

	return strings.Join(segments, mangledSeparatorConstant) + configurationFileExtensionConstant
}
