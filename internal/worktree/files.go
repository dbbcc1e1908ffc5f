package worktree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	copyDirectoryPermissionsConstant = 0o755
	skippedMissingTemplateConstant   = "Skipping %s (not found in source)"
	copyFailedTemplateConstant       = "Failed to copy %s: %v"
	copiedTemplateConstant           = "Copied %s"
	notRegularFileMessageConstant    = "not a regular file"
	sourceLogFieldConstant           = "source"
	destinationLogFieldConstant      = "destination"
)

var errNotRegularFile = errors.New(notRegularFileMessageConstant)

// FileCopier copies files between worktrees, keeping permission bits and timestamps.
type FileCopier struct {
	logger     *zap.Logger
	fileSystem afero.Fs
}

// NewFileCopier constructs a FileCopier. Nil arguments select a no-op logger and the operating system.
func NewFileCopier(logger *zap.Logger, fileSystem afero.Fs) *FileCopier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &FileCopier{logger: logger, fileSystem: fileSystem}
}

// Copy copies each relative path from sourceRoot to the same relative path under destinationRoot
// and returns the paths that were copied. Missing sources and failures are logged and skipped.
// Cancellation stops the loop before the next file and returns the context error.
func (copier *FileCopier) Copy(executionContext context.Context, sourceRoot string, destinationRoot string, relativePaths []string) ([]string, error) {
	copiedPaths := make([]string, 0, len(relativePaths))
	for _, relativePath := range relativePaths {
		if contextError := executionContext.Err(); contextError != nil {
			return copiedPaths, contextError
		}

		sourcePath := filepath.Join(sourceRoot, relativePath)
		destinationPath := filepath.Join(destinationRoot, relativePath)

		sourceExists, existsError := afero.Exists(copier.fileSystem, sourcePath)
		if existsError != nil {
			copier.logger.Warn(fmt.Sprintf(copyFailedTemplateConstant, relativePath, existsError))
			continue
		}
		if !sourceExists {
			copier.logger.Info(fmt.Sprintf(skippedMissingTemplateConstant, relativePath))
			continue
		}

		if copyError := copier.copyFile(sourcePath, destinationPath); copyError != nil {
			copier.logger.Warn(fmt.Sprintf(copyFailedTemplateConstant, relativePath, copyError))
			continue
		}

		copier.logger.Debug(fmt.Sprintf(copiedTemplateConstant, relativePath),
			zap.String(sourceLogFieldConstant, sourcePath),
			zap.String(destinationLogFieldConstant, destinationPath),
		)
		copiedPaths = append(copiedPaths, relativePath)
	}
	return copiedPaths, nil
}

func (copier *FileCopier) copyFile(sourcePath string, destinationPath string) error {
	sourceInfo, statError := copier.fileSystem.Stat(sourcePath)
	if statError != nil {
		return statError
	}
	if !sourceInfo.Mode().IsRegular() {
		return errNotRegularFile
	}

	if mkdirError := copier.fileSystem.MkdirAll(filepath.Dir(destinationPath), copyDirectoryPermissionsConstant); mkdirError != nil {
		return mkdirError
	}

	sourceFile, openError := copier.fileSystem.Open(sourcePath)
	if openError != nil {
		return openError
	}
	defer sourceFile.Close()

	destinationFile, createError := copier.fileSystem.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, sourceInfo.Mode().Perm())
	if createError != nil {
		return createError
	}

	if _, writeError := io.Copy(destinationFile, sourceFile); writeError != nil {
		destinationFile.Close()
		return writeError
	}
	if closeError := destinationFile.Close(); closeError != nil {
		return closeError
	}

	if chmodError := copier.fileSystem.Chmod(destinationPath, sourceInfo.Mode().Perm()); chmodError != nil {
		return chmodError
	}

	modificationTime := sourceInfo.ModTime()
	return copier.fileSystem.Chtimes(destinationPath, accessTime(sourceInfo), modificationTime)
}
