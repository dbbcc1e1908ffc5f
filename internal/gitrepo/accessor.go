package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/vaihde/internal/execshell"
)

const (
	gitRevParseSubcommandConstant        = "rev-parse"
	gitShowToplevelFlagConstant          = "--show-toplevel"
	gitShowRefSubcommandConstant         = "show-ref"
	gitVerifyFlagConstant                = "--verify"
	gitQuietFlagConstant                 = "--quiet"
	gitBranchReferencePrefixConstant     = "refs/heads/"
	gitWorktreeSubcommandConstant        = "worktree"
	gitWorktreeAddActionConstant         = "add"
	gitWorktreeListActionConstant        = "list"
	gitNewBranchFlagConstant             = "-b"
	worktreeRootPermissionsConstant      = 0o755
	gitExecutorMissingMessageConstant    = "git executor not configured"
	notGitRepositoryMessageConstant      = "not a git repository"
	worktreeExistsMessageConstant        = "worktree directory already exists"
	branchExistsMessageConstant          = "branch already exists"
	worktreeCreationMessageConstant      = "failed to create worktree"
	listFailedMessageConstant            = "failed to list worktrees"
	worktreeNameRequiredMessageConstant  = "worktree name must be provided"
	rootResolutionErrorTemplateConstant  = "unable to resolve repository root from %s: %w"
	sentinelDetailTemplateConstant       = "%w: %s"
	sentinelCauseTemplateConstant        = "%w: %w"
	existenceCheckErrorTemplateConstant  = "unable to inspect %s: %w"
	worktreeRootCreationTemplateConstant = "unable to create worktree root %s: %w"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrNotGitRepository indicates the start directory is not inside a git work tree.
var ErrNotGitRepository = errors.New(notGitRepositoryMessageConstant)

// ErrWorktreeExists indicates the worktree directory is already present on disk.
var ErrWorktreeExists = errors.New(worktreeExistsMessageConstant)

// ErrBranchExists indicates a local branch with the worktree name already exists.
var ErrBranchExists = errors.New(branchExistsMessageConstant)

// ErrWorktreeCreationFailed wraps a failing `git worktree add`.
var ErrWorktreeCreationFailed = errors.New(worktreeCreationMessageConstant)

// ErrListFailed wraps a failing `git worktree list`.
var ErrListFailed = errors.New(listFailedMessageConstant)

// ErrWorktreeNameRequired indicates an empty worktree name.
var ErrWorktreeNameRequired = errors.New(worktreeNameRequiredMessageConstant)

// GitExecutor exposes the subset of shell execution used by the accessor.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Accessor performs repository-level git operations.
type Accessor struct {
	executor   GitExecutor
	fileSystem afero.Fs
}

// NewAccessor constructs an Accessor. A nil fileSystem selects the operating system.
func NewAccessor(executor GitExecutor, fileSystem afero.Fs) (*Accessor, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	return &Accessor{executor: executor, fileSystem: fileSystem}, nil
}

// Root returns the absolute top-level directory of the repository containing startPath.
func (accessor *Accessor) Root(executionContext context.Context, startPath string) (string, error) {
	executionResult, executionError := accessor.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitShowToplevelFlagConstant},
		WorkingDirectory: startPath,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return "", fmt.Errorf(sentinelDetailTemplateConstant, ErrNotGitRepository, startPath)
		}
		return "", fmt.Errorf(rootResolutionErrorTemplateConstant, startPath, executionError)
	}

	repositoryRoot := strings.TrimSpace(executionResult.StandardOutput)
	if len(repositoryRoot) == 0 {
		return "", fmt.Errorf(sentinelDetailTemplateConstant, ErrNotGitRepository, startPath)
	}
	return filepath.Clean(filepath.FromSlash(repositoryRoot)), nil
}

// BranchExists reports whether refs/heads/<branchName> resolves. Any git failure counts as absent.
func (accessor *Accessor) BranchExists(executionContext context.Context, repositoryRoot string, branchName string) bool {
	_, executionError := accessor.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitShowRefSubcommandConstant, gitVerifyFlagConstant, gitQuietFlagConstant, gitBranchReferencePrefixConstant + branchName},
		WorkingDirectory: repositoryRoot,
	})
	return executionError == nil
}

// CreateWorktree adds a worktree at targetDirectory/name on a new branch called name and returns its path.
func (accessor *Accessor) CreateWorktree(executionContext context.Context, repositoryRoot string, targetDirectory string, name string) (string, error) {
	if len(strings.TrimSpace(name)) == 0 {
		return "", ErrWorktreeNameRequired
	}

	worktreePath := filepath.Join(targetDirectory, name)

	worktreeExists, existsError := afero.Exists(accessor.fileSystem, worktreePath)
	if existsError != nil {
		return "", fmt.Errorf(existenceCheckErrorTemplateConstant, worktreePath, existsError)
	}
	if worktreeExists {
		return "", fmt.Errorf(sentinelDetailTemplateConstant, ErrWorktreeExists, worktreePath)
	}

	if accessor.BranchExists(executionContext, repositoryRoot, name) {
		return "", fmt.Errorf(sentinelDetailTemplateConstant, ErrBranchExists, name)
	}

	if mkdirError := accessor.fileSystem.MkdirAll(targetDirectory, worktreeRootPermissionsConstant); mkdirError != nil {
		return "", fmt.Errorf(worktreeRootCreationTemplateConstant, targetDirectory, mkdirError)
	}

	_, executionError := accessor.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitWorktreeSubcommandConstant, gitWorktreeAddActionConstant, gitNewBranchFlagConstant, name, worktreePath},
		WorkingDirectory: repositoryRoot,
	})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return "", fmt.Errorf(sentinelDetailTemplateConstant, ErrWorktreeCreationFailed, strings.TrimSpace(commandFailure.Result.StandardError))
		}
		return "", fmt.Errorf(sentinelCauseTemplateConstant, ErrWorktreeCreationFailed, executionError)
	}

	return worktreePath, nil
}

// ListWorktrees streams `git worktree list` to output.
func (accessor *Accessor) ListWorktrees(executionContext context.Context, repositoryRoot string, output io.Writer) error {
	_, executionError := accessor.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitWorktreeSubcommandConstant, gitWorktreeListActionConstant},
		WorkingDirectory:     repositoryRoot,
		StandardOutputWriter: output,
	})
	if executionError == nil {
		return nil
	}

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		standardError := strings.TrimSpace(commandFailure.Result.StandardError)
		if len(standardError) > 0 {
			return fmt.Errorf(sentinelDetailTemplateConstant, ErrListFailed, standardError)
		}
		return ErrListFailed
	}
	return fmt.Errorf(sentinelCauseTemplateConstant, ErrListFailed, executionError)
}
