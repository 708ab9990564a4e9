package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesTrimmedOutput(t *testing.T) {
	out, err := New().Run(context.Background(), "sh", "-c", "echo '  hello  '")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRunMissingProgram(t *testing.T) {
	_, err := New().Run(context.Background(), "definitely-not-a-real-program-xyz")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "definitely-not-a-real-program-xyz", notFound.Program)
}

func TestRunNonZeroExit(t *testing.T) {
	out, err := New().Run(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, exitErr.Output, "broken")
	assert.Equal(t, "broken", out)
}

func TestTruncateRespectsUTF8Boundaries(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 200))

	long := ""
	for i := 0; i < 100; i++ {
		long += "héé"
	}
	got := truncate(long, 200)
	assert.LessOrEqual(t, len(got), 203)
	assert.True(t, len(got) > 0)
	assert.Contains(t, got, "...")
}
