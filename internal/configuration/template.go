package configuration

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	templateRenderErrorTemplateConstant = "unable to render configuration template: %w"
	configurationTemplateConstant       = `# Vaihde configuration

# Root directory for new worktrees (required)
%s
# Files to copy from the main worktree (optional)
# [copy]
# files = [".env", ".env.local"]

# Commands to run after creating a worktree (optional)
# [[post_commands]]
# run = "uv sync"
#
# [[post_commands]]
# run = "npm install"
# shell = true
`
)

type worktreeRootDocument struct {
	WorktreeRoot string `toml:"worktree_root"`
}

// RenderTemplate produces a commented starter configuration with worktree_root set to worktreeRoot.
func RenderTemplate(worktreeRoot string) (string, error) {
	encodedRoot, encodeError := toml.Marshal(worktreeRootDocument{WorktreeRoot: worktreeRoot})
	if encodeError != nil {
		return "", fmt.Errorf(templateRenderErrorTemplateConstant, encodeError)
	}

	encodedLine := strings.TrimRight(string(encodedRoot), "\n") + "\n"
	return fmt.Sprintf(configurationTemplateConstant, encodedLine), nil
}
