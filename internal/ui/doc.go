// Package ui renders command lifecycle events as concise console messages.
//
// Post-setup commands run inside a fresh worktree can take a while; the
// ConsoleCommandEventLogger keeps the user informed about which one is
// running while the structured executor logs stay at debug level.
package ui
