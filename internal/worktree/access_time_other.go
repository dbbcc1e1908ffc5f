//go:build !linux

package worktree

import (
	"os"
	"time"
)

// accessTime falls back to the modification time where the access time is not exposed portably.
func accessTime(fileInfo os.FileInfo) time.Time {
	return fileInfo.ModTime()
}
