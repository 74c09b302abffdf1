package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

func TestListServices_SortedDirectoriesOnly(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"s3", "ec2", "dynamodb", "acm"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d, "2015-01-01"), 0o750))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "endpoints.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "_retry.json"), []byte("{}"), 0o600))

	services, err := ListServices(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"acm", "dynamodb", "ec2", "s3"}, services)
}

func TestListServices_Empty(t *testing.T) {
	services, err := ListServices(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestListServices_Missing(t *testing.T) {
	_, err := ListServices(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryFileSystem))
}

func TestListServices_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := ListServices(file)
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryFileSystem))
}
