package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/vaihde/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriter(t *testing.T) {
	destination := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriterSize(destination, 4096)

	writer := utils.NewFlushingWriter(bufferedWriter)
	written, err := writer.Write([]byte("/worktrees/feature  abc123 [feature]\n"))
	require.NoError(t, err)
	require.Equal(t, 37, written)
	require.Equal(t, "/worktrees/feature  abc123 [feature]\n", destination.String())

	require.Same(t, writer, utils.NewFlushingWriter(writer))
	require.Nil(t, utils.NewFlushingWriter(nil))
}
