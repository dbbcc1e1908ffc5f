package testsupport

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

const (
	gitExecutableNameConstant  = "git"
	initialFileNameConstant    = "README.md"
	initialFileContentConstant = "# Test\n"
)

// RequireGit skips the test when no git executable is available.
func RequireGit(testInstance testing.TB) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(gitExecutableNameConstant); lookupError != nil {
		testInstance.Skip("git executable not available")
	}
}

// InitializeRepository creates a repository with one commit under a temporary directory
// and returns its symlink-resolved path.
func InitializeRepository(testInstance testing.TB) string {
	testInstance.Helper()
	RequireGit(testInstance)

	repositoryPath := filepath.Join(ResolvedTempDir(testInstance), "repo")
	if mkdirError := os.MkdirAll(repositoryPath, 0o755); mkdirError != nil {
		testInstance.Fatalf("create repository directory: %v", mkdirError)
	}

	RunGit(testInstance, repositoryPath, "init")
	if writeError := os.WriteFile(filepath.Join(repositoryPath, initialFileNameConstant), []byte(initialFileContentConstant), 0o644); writeError != nil {
		testInstance.Fatalf("write initial file: %v", writeError)
	}
	RunGit(testInstance, repositoryPath, "add", ".")
	RunGit(testInstance, repositoryPath, "-c", "user.name=Test", "-c", "user.email=test@test.com", "-c", "commit.gpgsign=false", "commit", "-m", "Initial commit")

	return repositoryPath
}

// RunGit executes git in the directory and fails the test on error.
func RunGit(testInstance testing.TB, workingDirectory string, arguments ...string) string {
	testInstance.Helper()
	command := exec.Command(gitExecutableNameConstant, arguments...)
	command.Dir = workingDirectory
	output, runError := command.CombinedOutput()
	if runError != nil {
		testInstance.Fatalf("git %v failed: %v\n%s", arguments, runError, output)
	}
	return string(output)
}

// ResolvedTempDir returns t.TempDir() with symlinks resolved, matching what git reports.
func ResolvedTempDir(testInstance testing.TB) string {
	testInstance.Helper()
	resolvedPath, resolveError := filepath.EvalSymlinks(testInstance.TempDir())
	if resolveError != nil {
		testInstance.Fatalf("resolve temporary directory: %v", resolveError)
	}
	return resolvedPath
}
