// Package execshell runs external programs for vaihde.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle
// observers, classifies non-zero exits as CommandFailedError, and offers
// helpers for git invocations, shell scripts, and pre-split argument
// vectors. OSCommandRunner is the os/exec backed runner used outside tests.
package execshell
