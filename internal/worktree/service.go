package worktree

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/vaihde/internal/configuration"
	"github.com/temirov/vaihde/internal/gitrepo"
	pathutils "github.com/temirov/vaihde/internal/utils/path"
)

const (
	gitRootLogMessageConstant         = "resolved git root"
	configurationLogMessageConstant   = "using config"
	creatingLogMessageConstant        = "creating worktree"
	copyingLogMessageConstant         = "copying files"
	postCommandsLogMessageConstant    = "running post commands"
	repositoryRootLogFieldConstant    = "repository_root"
	configurationPathLogFieldConstant = "config_path"
	worktreeNameLogFieldConstant      = "name"
	worktreeRootLogFieldConstant      = "worktree_root"
	fileCountLogFieldConstant         = "files"
	postCommandCountLogFieldConstant  = "commands"
)

// Options identifies the worktree to create.
type Options struct {
	StartDirectory string
	Name           string
}

// Result summarizes a successful worktree creation.
type Result struct {
	RepositoryRoot    string
	WorktreePath      string
	ConfigurationPath string
	CopiedFiles       []string
	FailedCommands    []string
}

// ServiceDependencies wires collaborators for Service.
type ServiceDependencies struct {
	Logger          *zap.Logger
	GitExecutor     gitrepo.GitExecutor
	CommandExecutor PostCommandExecutor
	FileSystem      afero.Fs
	PathResolver    configuration.PathResolver
	HomeExpander    *pathutils.HomeExpander
	// StandardInput is connected to post commands; nil leaves them without input.
	StandardInput io.Reader
}

// Service orchestrates worktree creation.
type Service struct {
	logger   *zap.Logger
	accessor *gitrepo.Accessor
	locator  *configuration.Locator
	loader   *configuration.Loader
	copier   *FileCopier
	runner   *PostCommandRunner
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fileSystem := dependencies.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}

	accessor, accessorError := gitrepo.NewAccessor(dependencies.GitExecutor, fileSystem)
	if accessorError != nil {
		return nil, accessorError
	}

	locator, locatorError := configuration.NewLocator(accessor, fileSystem, dependencies.PathResolver)
	if locatorError != nil {
		return nil, locatorError
	}

	runner, runnerError := NewPostCommandRunner(logger, dependencies.CommandExecutor)
	if runnerError != nil {
		return nil, runnerError
	}
	runner.SetStandardInput(dependencies.StandardInput)

	return &Service{
		logger:   logger,
		accessor: accessor,
		locator:  locator,
		loader:   configuration.NewLoader(fileSystem, dependencies.HomeExpander),
		copier:   NewFileCopier(logger, fileSystem),
		runner:   runner,
	}, nil
}

// Create resolves the repository, loads its configuration, creates the worktree, copies the
// configured files, and runs the post commands. Copy and post-command failures are not fatal
// and nothing is rolled back.
func (service *Service) Create(executionContext context.Context, options Options) (Result, error) {
	worktreeName := options.Name
	if len(strings.TrimSpace(worktreeName)) == 0 {
		return Result{}, gitrepo.ErrWorktreeNameRequired
	}

	repositoryRoot, rootError := service.accessor.Root(executionContext, options.StartDirectory)
	if rootError != nil {
		return Result{}, rootError
	}
	service.logger.Debug(gitRootLogMessageConstant, zap.String(repositoryRootLogFieldConstant, repositoryRoot))

	location, locateError := service.locator.LocateForRoot(repositoryRoot)
	if locateError != nil {
		return Result{}, locateError
	}
	if !location.Found() {
		return Result{}, location.NotFoundError()
	}
	service.logger.Debug(configurationLogMessageConstant, zap.String(configurationPathLogFieldConstant, location.Path))

	loadedConfiguration, loadError := service.loader.Load(location.Path)
	if loadError != nil {
		return Result{}, loadError
	}

	service.logger.Debug(creatingLogMessageConstant,
		zap.String(worktreeNameLogFieldConstant, worktreeName),
		zap.String(worktreeRootLogFieldConstant, loadedConfiguration.WorktreeRoot),
	)
	worktreePath, createError := service.accessor.CreateWorktree(executionContext, repositoryRoot, loadedConfiguration.WorktreeRoot, worktreeName)
	if createError != nil {
		return Result{}, createError
	}

	result := Result{
		RepositoryRoot:    repositoryRoot,
		WorktreePath:      worktreePath,
		ConfigurationPath: location.Path,
		CopiedFiles:       []string{},
		FailedCommands:    []string{},
	}

	if len(loadedConfiguration.CopyFiles) > 0 {
		service.logger.Debug(copyingLogMessageConstant, zap.Int(fileCountLogFieldConstant, len(loadedConfiguration.CopyFiles)))
		copiedFiles, copyError := service.copier.Copy(executionContext, repositoryRoot, worktreePath, loadedConfiguration.CopyFiles)
		result.CopiedFiles = copiedFiles
		if copyError != nil {
			return result, copyError
		}
	}

	if len(loadedConfiguration.PostCommands) > 0 {
		service.logger.Debug(postCommandsLogMessageConstant, zap.Int(postCommandCountLogFieldConstant, len(loadedConfiguration.PostCommands)))
		failedCommands, runError := service.runner.Run(executionContext, worktreePath, loadedConfiguration.PostCommands)
		result.FailedCommands = failedCommands
		if runError != nil {
			return result, runError
		}
	}

	if contextError := executionContext.Err(); contextError != nil {
		return result, contextError
	}
	return result, nil
}
