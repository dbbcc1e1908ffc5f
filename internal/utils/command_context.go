package utils

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

const (
	workingDirectoryContextKeyConstant = commandContextKey("workingDirectory")
)

type commandContextKey string

const workingDirectoryErrorTemplateConstant = "unable to determine working directory: %w"

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ResolveLogger returns the provider's logger, or a no-op logger when none is available.
func ResolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithWorkingDirectory records the directory commands should treat as their starting point.
func (accessor CommandContextAccessor) WithWorkingDirectory(parentContext context.Context, workingDirectory string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, workingDirectoryContextKeyConstant, workingDirectory)
}

// WorkingDirectory extracts the starting directory from the provided context.
func (accessor CommandContextAccessor) WorkingDirectory(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	workingDirectory, workingDirectoryAvailable := executionContext.Value(workingDirectoryContextKeyConstant).(string)
	if !workingDirectoryAvailable || len(workingDirectory) == 0 {
		return "", false
	}
	return workingDirectory, true
}

// StartDirectory returns the recorded working directory, falling back to the process working directory.
func (accessor CommandContextAccessor) StartDirectory(executionContext context.Context) (string, error) {
	if workingDirectory, available := accessor.WorkingDirectory(executionContext); available {
		return workingDirectory, nil
	}
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}
	return workingDirectory, nil
}
