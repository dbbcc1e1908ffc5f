// Package cli constructs the vaihde command-line interface, wiring the Cobra
// command hierarchy, application settings, and structured logging. It maps
// command failures to process exit codes.
package cli
