package gitrepo_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/vaihde/internal/execshell"
	"github.com/temirov/vaihde/internal/gitrepo"
	"github.com/temirov/vaihde/internal/testsupport"
)

const (
	testRepositoryRootConstant    = "/workspace/repo"
	testWorktreeRootConstant      = "/worktrees"
	testWorktreeNameConstant      = "feature"
	testShowRefArgumentsConstant  = "show-ref --verify --quiet refs/heads/feature"
	testToplevelArgumentsConstant = "rev-parse --show-toplevel"
	testWorktreeAddArgsConstant   = "worktree add -b feature /worktrees/feature"
)

func newAccessor(t *testing.T, executor gitrepo.GitExecutor, fileSystem afero.Fs) *gitrepo.Accessor {
	t.Helper()
	accessor, err := gitrepo.NewAccessor(executor, fileSystem)
	require.NoError(t, err)
	return accessor
}

func TestNewAccessorRequiresExecutor(t *testing.T) {
	_, err := gitrepo.NewAccessor(nil, afero.NewMemMapFs())
	require.ErrorIs(t, err, gitrepo.ErrGitExecutorNotConfigured)
}

func TestRootTrimsGitOutput(t *testing.T) {
	executor := &testsupport.GitExecutorStub{Responses: map[string]testsupport.GitResponse{
		testToplevelArgumentsConstant: {Result: execshell.ExecutionResult{StandardOutput: testRepositoryRootConstant + "\n"}},
	}}
	accessor := newAccessor(t, executor, afero.NewMemMapFs())

	root, err := accessor.Root(context.Background(), "/workspace/repo/internal")
	require.NoError(t, err)
	require.Equal(t, filepath.Clean(testRepositoryRootConstant), root)
	require.Equal(t, "/workspace/repo/internal", executor.ExecutedCommands[0].WorkingDirectory)
}

func TestRootReportsNotGitRepository(t *testing.T) {
	executor := &testsupport.GitExecutorStub{Responses: map[string]testsupport.GitResponse{
		testToplevelArgumentsConstant: testsupport.FailedGitResponse([]string{"rev-parse", "--show-toplevel"}, 128, "fatal: not a git repository"),
	}}
	accessor := newAccessor(t, executor, afero.NewMemMapFs())

	_, err := accessor.Root(context.Background(), "/tmp")
	require.ErrorIs(t, err, gitrepo.ErrNotGitRepository)
	require.ErrorContains(t, err, "/tmp")
}

func TestBranchExistsTreatsAnyFailureAsMissing(t *testing.T) {
	executor := &testsupport.GitExecutorStub{Responses: map[string]testsupport.GitResponse{
		testShowRefArgumentsConstant: testsupport.FailedGitResponse([]string{"show-ref"}, 128, "fatal: bad object"),
	}}
	accessor := newAccessor(t, executor, afero.NewMemMapFs())

	require.False(t, accessor.BranchExists(context.Background(), testRepositoryRootConstant, testWorktreeNameConstant))
	require.True(t, accessor.BranchExists(context.Background(), testRepositoryRootConstant, "main"))
}

func TestCreateWorktreeSequence(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	executor := &testsupport.GitExecutorStub{Responses: map[string]testsupport.GitResponse{
		testShowRefArgumentsConstant: testsupport.FailedGitResponse([]string{"show-ref"}, 1, ""),
	}}
	accessor := newAccessor(t, executor, fileSystem)

	worktreePath, err := accessor.CreateWorktree(context.Background(), testRepositoryRootConstant, testWorktreeRootConstant, testWorktreeNameConstant)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(testWorktreeRootConstant, testWorktreeNameConstant), worktreePath)

	rootExists, existsError := afero.DirExists(fileSystem, testWorktreeRootConstant)
	require.NoError(t, existsError)
	require.True(t, rootExists)

	require.Equal(t, [][]string{
		{"show-ref", "--verify", "--quiet", "refs/heads/feature"},
		{"worktree", "add", "-b", "feature", filepath.Join(testWorktreeRootConstant, testWorktreeNameConstant)},
	}, executor.ExecutedArguments())
	require.Equal(t, testRepositoryRootConstant, executor.ExecutedCommands[1].WorkingDirectory)
}

func TestCreateWorktreeKeepsNameVerbatim(t *testing.T) {
	executor := &testsupport.GitExecutorStub{Responses: map[string]testsupport.GitResponse{
		"show-ref --verify --quiet refs/heads/feature ": testsupport.FailedGitResponse([]string{"show-ref"}, 1, ""),
	}}
	accessor := newAccessor(t, executor, afero.NewMemMapFs())

	worktreePath, err := accessor.CreateWorktree(context.Background(), testRepositoryRootConstant, testWorktreeRootConstant, "feature ")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(testWorktreeRootConstant, "feature "), worktreePath)
	require.Equal(t, []string{"worktree", "add", "-b", "feature ", worktreePath}, executor.ExecutedArguments()[1])
}

func TestCreateWorktreeRejections(t *testing.T) {
	testCases := []struct {
		name          string
		prepare       func(fileSystem afero.Fs)
		responses     map[string]testsupport.GitResponse
		worktreeName  string
		expectedError error
		expectedCalls int
	}{
		{
			name: "directory_exists",
			prepare: func(fileSystem afero.Fs) {
				require.NoError(t, fileSystem.MkdirAll(filepath.Join(testWorktreeRootConstant, testWorktreeNameConstant), 0o755))
			},
			worktreeName:  testWorktreeNameConstant,
			expectedError: gitrepo.ErrWorktreeExists,
			expectedCalls: 0,
		},
		{
			name:          "branch_exists",
			worktreeName:  testWorktreeNameConstant,
			expectedError: gitrepo.ErrBranchExists,
			expectedCalls: 1,
		},
		{
			name:          "empty_name",
			worktreeName:  "  ",
			expectedError: gitrepo.ErrWorktreeNameRequired,
			expectedCalls: 0,
		},
		{
			name: "git_failure",
			responses: map[string]testsupport.GitResponse{
				testShowRefArgumentsConstant: testsupport.FailedGitResponse([]string{"show-ref"}, 1, ""),
				testWorktreeAddArgsConstant:  testsupport.FailedGitResponse([]string{"worktree", "add"}, 128, "fatal: invalid reference: HEAD\n"),
			},
			worktreeName:  testWorktreeNameConstant,
			expectedError: gitrepo.ErrWorktreeCreationFailed,
			expectedCalls: 2,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fileSystem := afero.NewMemMapFs()
			if testCase.prepare != nil {
				testCase.prepare(fileSystem)
			}
			executor := &testsupport.GitExecutorStub{Responses: testCase.responses}
			accessor := newAccessor(t, executor, fileSystem)

			_, err := accessor.CreateWorktree(context.Background(), testRepositoryRootConstant, testWorktreeRootConstant, testCase.worktreeName)
			require.ErrorIs(t, err, testCase.expectedError)
			require.Len(t, executor.ExecutedCommands, testCase.expectedCalls)
		})
	}
}

func TestCreateWorktreeFailureCarriesGitStandardError(t *testing.T) {
	executor := &testsupport.GitExecutorStub{Responses: map[string]testsupport.GitResponse{
		testShowRefArgumentsConstant: testsupport.FailedGitResponse([]string{"show-ref"}, 1, ""),
		testWorktreeAddArgsConstant:  testsupport.FailedGitResponse([]string{"worktree", "add"}, 128, "fatal: invalid reference: HEAD\n"),
	}}
	accessor := newAccessor(t, executor, afero.NewMemMapFs())

	_, err := accessor.CreateWorktree(context.Background(), testRepositoryRootConstant, testWorktreeRootConstant, testWorktreeNameConstant)
	require.EqualError(t, err, "failed to create worktree: fatal: invalid reference: HEAD")
}

func TestListWorktreesStreamsOutput(t *testing.T) {
	executor := &testsupport.GitExecutorStub{Responses: map[string]testsupport.GitResponse{
		"worktree list": {Result: execshell.ExecutionResult{StandardOutput: "/workspace/repo  abc123 [main]\n"}},
	}}
	accessor := newAccessor(t, executor, afero.NewMemMapFs())

	output := &bytes.Buffer{}
	require.NoError(t, accessor.ListWorktrees(context.Background(), testRepositoryRootConstant, output))
	require.Equal(t, "/workspace/repo  abc123 [main]\n", output.String())
}

func TestListWorktreesReportsFailure(t *testing.T) {
	executor := &testsupport.GitExecutorStub{Responses: map[string]testsupport.GitResponse{
		"worktree list": testsupport.FailedGitResponse([]string{"worktree", "list"}, 128, "fatal: not a git repository"),
	}}
	accessor := newAccessor(t, executor, afero.NewMemMapFs())

	err := accessor.ListWorktrees(context.Background(), testRepositoryRootConstant, &bytes.Buffer{})
	require.ErrorIs(t, err, gitrepo.ErrListFailed)
}
