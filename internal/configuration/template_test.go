package configuration_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/vaihde/internal/configuration"
)

func TestRenderTemplateRoundTripsThroughLoader(t *testing.T) {
	testCases := []struct {
		name         string
		worktreeRoot string
	}{
		{name: "plain", worktreeRoot: "/srv/worktrees"},
		{name: "quotes", worktreeRoot: `/srv/it's "quoted"`},
		{name: "backslashes", worktreeRoot: `/srv/back\slash`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			renderedTemplate, renderError := configuration.RenderTemplate(testCase.worktreeRoot)
			require.NoError(t, renderError)
			require.Contains(t, renderedTemplate, "# [[post_commands]]")

			loader, configurationPath := newTestLoader(t, renderedTemplate)
			loadedConfiguration, loadError := loader.Load(configurationPath)
			require.NoError(t, loadError)
			require.Equal(t, testCase.worktreeRoot, loadedConfiguration.WorktreeRoot)
			require.Empty(t, loadedConfiguration.CopyFiles)
			require.Empty(t, loadedConfiguration.PostCommands)
		})
	}
}
