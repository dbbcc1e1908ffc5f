// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses ConfigurationLoader, which integrates Viper for both the
// application settings and the per-repository vaihde.toml, LoggerFactory for
// zap loggers, FlushingWriter for streamed command output, and
// CommandContextAccessor for values carried on command contexts.
package utils
