//go:build linux

package worktree

import (
	"os"
	"syscall"
	"time"
)

func accessTime(fileInfo os.FileInfo) time.Time {
	statResult, available := fileInfo.Sys().(*syscall.Stat_t)
	if !available || statResult == nil {
		return fileInfo.ModTime()
	}
	return time.Unix(int64(statResult.Atim.Sec), int64(statResult.Atim.Nsec))
}
