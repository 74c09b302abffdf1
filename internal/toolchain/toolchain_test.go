package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"python setup.py sdist bdist_wheel", []string{"python", "setup.py", "sdist", "bdist_wheel"}},
		{"twine upload --disable-progress-bar --skip-existing", []string{"twine", "upload", "--disable-progress-bar", "--skip-existing"}},
		{`sh -c "echo 'a b'"`, []string{"sh", "-c", "echo 'a b'"}},
	}
	for _, tc := range cases {
		got, err := ParseCommand(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseCommand_Empty(t *testing.T) {
	_, err := ParseCommand("   ")
	require.ErrorIs(t, err, ErrEmptyCommand)
}

func TestParseCommand_Unterminated(t *testing.T) {
	_, err := ParseCommand(`python "setup.py`)
	require.Error(t, err)
}

func TestExecRunner_RunsInDir(t *testing.T) {
	dir := t.TempDir()
	r := NewExecRunner()

	err := r.Run(context.Background(), dir, []string{"sh", "-c", "echo noisy; echo built > out.txt"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "built\n", string(data))
}

func TestExecRunner_FailureCarriesExitCodeAndOutput(t *testing.T) {
	dir := t.TempDir()
	r := NewExecRunner()

	err := r.Run(context.Background(), dir, []string{"sh", "-c", "echo stdout-line; echo stderr-line >&2; exit 3"})
	require.Error(t, err)

	re, ok := rerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, rerrors.CategoryCommand, re.Category)
	assert.Equal(t, 3, re.Context["exit_code"])
	assert.Equal(t, dir, re.Context["dir"])
	output, _ := re.Context["output"].(string)
	assert.Contains(t, output, "stdout-line")
	assert.Contains(t, output, "stderr-line")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	err := NewExecRunner().Run(context.Background(), t.TempDir(), []string{"alacarte-no-such-binary"})
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryCommand))
}

func TestExecRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewExecRunner().Run(ctx, t.TempDir(), []string{"sh", "-c", "sleep 5"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunnerFunc(t *testing.T) {
	var got []string
	r := RunnerFunc(func(_ context.Context, dir string, argv []string) error {
		got = append([]string{dir}, argv...)
		return nil
	})
	require.NoError(t, r.Run(context.Background(), "/tmp", []string{"a", "b"}))
	assert.Equal(t, []string{"/tmp", "a", "b"}, got)
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("short\n", 100))

	long := strings.Repeat("x", 50) + "\n" + strings.Repeat("y", 10) + "\n"
	assert.Equal(t, strings.Repeat("y", 10), tail(long, 20))
}
