package configuration_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/vaihde/internal/configuration"
	pathutils "github.com/temirov/vaihde/internal/utils/path"
)

const (
	testConfigurationPathConstant = "/repo/vaihde.toml"
	fullConfigurationConstant     = `worktree_root = "~/worktrees/repo"
unknown_key = "ignored"

[copy]
files = [".env", "config/local.json"]

[[post_commands]]
run = "uv sync"

[[post_commands]]
run = "npm install && npm run build"
shell = true
`
)

func newTestLoader(t *testing.T, content string) (*configuration.Loader, string) {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	configurationPath := filepath.FromSlash(testConfigurationPathConstant)
	require.NoError(t, afero.WriteFile(fileSystem, configurationPath, []byte(content), 0o644))
	return newFileSystemLoader(fileSystem), configurationPath
}

func newFileSystemLoader(fileSystem afero.Fs) *configuration.Loader {
	homeExpander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})
	return configuration.NewLoader(fileSystem, homeExpander)
}

func TestLoaderLoadsFullConfiguration(t *testing.T) {
	loader, configurationPath := newTestLoader(t, fullConfigurationConstant)

	loadedConfiguration, loadError := loader.Load(configurationPath)
	require.NoError(t, loadError)
	require.Equal(t, filepath.Join(testHomeDirectoryConstant, "worktrees", "repo"), loadedConfiguration.WorktreeRoot)
	require.Equal(t, []string{".env", "config/local.json"}, loadedConfiguration.CopyFiles)
	require.Equal(t, []configuration.PostCommand{
		{Run: "uv sync", Shell: false},
		{Run: "npm install && npm run build", Shell: true},
	}, loadedConfiguration.PostCommands)
}

func TestLoaderDefaultsOptionalSections(t *testing.T) {
	loader, configurationPath := newTestLoader(t, "worktree_root = \"/srv/worktrees\"\n")

	loadedConfiguration, loadError := loader.Load(configurationPath)
	require.NoError(t, loadError)
	require.Equal(t, filepath.FromSlash("/srv/worktrees"), loadedConfiguration.WorktreeRoot)
	require.Empty(t, loadedConfiguration.CopyFiles)
	require.Empty(t, loadedConfiguration.PostCommands)
}

func TestLoaderResolvesRelativeWorktreeRoot(t *testing.T) {
	loader, configurationPath := newTestLoader(t, "worktree_root = \"worktrees\"\n")

	expectedRoot, absoluteError := filepath.Abs("worktrees")
	require.NoError(t, absoluteError)

	loadedConfiguration, loadError := loader.Load(configurationPath)
	require.NoError(t, loadError)
	require.Equal(t, expectedRoot, loadedConfiguration.WorktreeRoot)
}

func TestLoaderRejectsInvalidConfiguration(t *testing.T) {
	testCases := []struct {
		name            string
		content         string
		expectedMessage string
	}{
		{name: "missing_worktree_root", content: "[copy]\nfiles = [\".env\"]\n", expectedMessage: "worktree_root"},
		{name: "blank_worktree_root", content: "worktree_root = \"  \"\n", expectedMessage: "worktree_root"},
		{name: "post_command_without_run", content: "worktree_root = \"/w\"\n[[post_commands]]\nshell = true\n", expectedMessage: "\"run\""},
		{name: "malformed_toml", content: "worktree_root = \n", expectedMessage: testConfigurationPathConstant},
		{name: "wrong_type", content: "worktree_root = 5\n", expectedMessage: testConfigurationPathConstant},
		{name: "upper_case_worktree_root", content: "WORKTREE_ROOT = \"/w\"\n", expectedMessage: "worktree_root"},
		{name: "upper_case_run", content: "worktree_root = \"/w\"\n[[post_commands]]\nRUN = \"make\"\n", expectedMessage: "\"run\""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			loader, configurationPath := newTestLoader(t, testCase.content)

			_, loadError := loader.Load(configurationPath)
			require.ErrorIs(t, loadError, configuration.ErrInvalidConfiguration)
			require.Contains(t, loadError.Error(), filepath.FromSlash(testCase.expectedMessage))
		})
	}
}

func TestLoaderTreatsKeysCaseSensitively(t *testing.T) {
	loader, configurationPath := newTestLoader(t, `worktree_root = "/w"

[COPY]
files = [".env"]

[[post_commands]]
run = "make setup"
SHELL = true
`)

	loadedConfiguration, loadError := loader.Load(configurationPath)
	require.NoError(t, loadError)
	require.Empty(t, loadedConfiguration.CopyFiles)
	require.Equal(t, []configuration.PostCommand{{Run: "make setup", Shell: false}}, loadedConfiguration.PostCommands)
}

func TestLoaderRejectsMissingFile(t *testing.T) {
	loader, _ := newTestLoader(t, minimalConfigurationBodyConstant)

	_, loadError := loader.Load(filepath.FromSlash("/repo/absent.toml"))
	require.ErrorIs(t, loadError, configuration.ErrInvalidConfiguration)
}
