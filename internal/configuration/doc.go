// Package configuration locates, loads, and scaffolds the per-repository vaihde.toml file.
//
// A repository is configured either by vaihde.toml in its top-level directory or by a
// global file under the user configuration directory whose name is derived from the
// repository path. The global file takes precedence.
package configuration
