package setupcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

const botocoreCfg = `[bdist_wheel]
universal = 0

[metadata]
requires_dist =
	jmespath>=0.7.1,<2.0.0
	python-dateutil>=2.1,<3.0.0
	urllib3>=1.25.4,<1.27

[options.extras_require]
crt = awscrt==0.16.9

[flake8]
ignore = E203,E226,E501,E731,W503,W504
`

func TestParse_MultilineValues(t *testing.T) {
	f, err := Parse([]byte(botocoreCfg))
	require.NoError(t, err)

	v, ok := f.Get("metadata", "requires_dist")
	require.True(t, ok)
	assert.Equal(t, "jmespath>=0.7.1,<2.0.0\npython-dateutil>=2.1,<3.0.0\nurllib3>=1.25.4,<1.27", v)

	v, ok = f.Get("bdist_wheel", "universal")
	require.True(t, ok)
	assert.Equal(t, "0", v)

	_, ok = f.Get("metadata", "missing")
	assert.False(t, ok)
	_, ok = f.Get("missing", "key")
	assert.False(t, ok)
}

func TestRoundTrip_Unchanged(t *testing.T) {
	f, err := Parse([]byte(botocoreCfg))
	require.NoError(t, err)
	assert.Equal(t, botocoreCfg+"\n", string(f.Bytes()))
}

func TestRoundTrip_NormalizesLayout(t *testing.T) {
	in := "[metadata]\nrequires_dist = first\n    second\n  third\nname: pkg\n[other]\nk=v ; not a comment\n"
	f, err := Parse([]byte(in))
	require.NoError(t, err)

	assert.Equal(t, "[metadata]\nrequires_dist = first\n\tsecond\n\tthird\nname = pkg\n\n[other]\nk = v ; not a comment\n\n", string(f.Bytes()))

	again, err := Parse(f.Bytes())
	require.NoError(t, err)
	assert.Equal(t, f.Bytes(), again.Bytes())
}

func TestRoundTrip_KeepsComments(t *testing.T) {
	in := "# generated\n[flake8]\n# long lines are fine\nignore = E501\n"
	f, err := Parse([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, "# generated\n[flake8]\n# long lines are fine\nignore = E501\n\n", string(f.Bytes()))
}

func TestSet(t *testing.T) {
	f, err := Parse([]byte(botocoreCfg))
	require.NoError(t, err)

	require.NoError(t, f.Set("options.extras_require", "ec2", "botocore-a-la-carte-ec2==1.29.0"))
	require.NoError(t, f.Set("options.extras_require", "crt", "awscrt==0.17.0"))
	require.NoError(t, f.Set("options.extras_require", "s3", "botocore-a-la-carte-s3==1.29.0"))

	assert.Equal(t, []string{"crt", "ec2", "s3"}, f.Keys("options.extras_require"))
	assert.Contains(t, string(f.Bytes()),
		"[options.extras_require]\ncrt = awscrt==0.17.0\nec2 = botocore-a-la-carte-ec2==1.29.0\ns3 = botocore-a-la-carte-s3==1.29.0\n\n[flake8]")
}

func TestSet_MissingSection(t *testing.T) {
	f, err := Parse([]byte("[metadata]\nname = x\n"))
	require.NoError(t, err)

	err = f.Set("options.extras_require", "ec2", "x==1")
	require.ErrorIs(t, err, ErrSectionNotFound)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryConfig))
	assert.False(t, f.HasSection("options.extras_require"))
}

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.cfg")
	require.NoError(t, os.WriteFile(path, []byte(botocoreCfg), 0o640))

	f, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("options.extras_require", "sqs", "x-sqs==2"))
	require.NoError(t, f.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	reloaded, err := Load(path)
	require.NoError(t, err)
	v, ok := reloaded.Get("options.extras_require", "sqs")
	require.True(t, ok)
	assert.Equal(t, "x-sqs==2", v)
	v, _ = reloaded.Get("metadata", "requires_dist")
	assert.Contains(t, v, "python-dateutil")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "setup.cfg"))
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryConfig))

	path := filepath.Join(t.TempDir(), "setup.cfg")
	require.NoError(t, os.WriteFile(path, []byte("[unclosed\nkey = v\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryConfig))
}
