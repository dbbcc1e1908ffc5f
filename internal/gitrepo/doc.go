// Package gitrepo wraps the git subcommands vaihde depends on.
//
// Accessor resolves repository roots, checks branch existence, creates
// worktrees on new branches, and streams the worktree listing. Failures are
// reported through the sentinel errors declared in this package so the CLI
// can render them uniformly.
package gitrepo
