// Package worktree creates git worktrees for a repository and prepares them using the
// repository's vaihde.toml: selected untracked files are copied over and post-setup
// commands run inside the new worktree.
package worktree
