package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "botocore", cfg.Base.Name)
	assert.Equal(t, "botocore-a-la-carte", cfg.Base.DistName)
	assert.Equal(t, "botocore/data", cfg.Base.DataDir)
	assert.Equal(t, "options.extras_require", cfg.Base.ExtrasSection)
	assert.Equal(t, "python setup.py sdist bdist_wheel", cfg.Build.Command)
	assert.Equal(t, "twine upload --disable-progress-bar --skip-existing", cfg.Publish.Command)
	assert.Equal(t, "*/*.json", cfg.Metadata.DataGlob)
	assert.Len(t, cfg.Metadata.Classifiers, 12)

	require.Len(t, cfg.Base.Replacements, 3)
	assert.Equal(t, Replacement{Find: "name='botocore'", Replace: "name='botocore-a-la-carte'"}, cfg.Base.Replacements[0])
	assert.Equal(t, Replacement{
		Find:    "url='https://github.com/boto/botocore'",
		Replace: "url='https://github.com/thejcannon/botocore-a-la-carte'",
	}, cfg.Base.Replacements[1])
	assert.Equal(t, Replacement{
		Find:    "description='Low-level, data-driven core of boto 3.'",
		Replace: "description='botocore re-uploaded with a-la-carte data packages.'",
	}, cfg.Base.Replacements[2])

	require.NoError(t, cfg.Validate())
}

func TestParse_DerivesNamesFromBase(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
base:
  name: base
  data_dir: base/data
`))
	require.NoError(t, err)

	assert.Equal(t, "base-a-la-carte", cfg.Base.DistName)
	// Non-botocore upstreams have no known url/description to rewrite.
	require.Len(t, cfg.Base.Replacements, 1)
	assert.Equal(t, "name='base'", cfg.Base.Replacements[0].Find)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("base:\n  nmae: typo\n"))
	require.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_NotFound(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("missing.yaml")
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryConfig))
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ALACARTE_TEST_ROOT", "/srv/botocore")

	path := filepath.Join(dir, "alacarte.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base:\n  root: ${ALACARTE_TEST_ROOT}\nbuild:\n  jobs: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/botocore", cfg.Base.Root)
	assert.Equal(t, 3, cfg.Build.Jobs)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ALACARTE_TEST_SET", "from-process")
	t.Cleanup(func() { _ = os.Unsetenv("ALACARTE_TEST_UNSET") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("ALACARTE_TEST_SET=from-file\nALACARTE_TEST_UNSET=from-file\n"), 0o600))

	_, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "from-process", os.Getenv("ALACARTE_TEST_SET"))
	assert.Equal(t, "from-file", os.Getenv("ALACARTE_TEST_UNSET"))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"absolute data dir", func(c *Config) { c.Base.DataDir = "/abs/data" }, "base.data_dir"},
		{"escaping data dir", func(c *Config) { c.Base.DataDir = "../data" }, "base.data_dir"},
		{"single segment data dir", func(c *Config) { c.Base.DataDir = "data" }, "base.data_dir"},
		{"negative jobs", func(c *Config) { c.Build.Jobs = -1 }, "build.jobs"},
		{"empty build command", func(c *Config) { c.Build.Command = " " }, "build.command"},
		{"empty publish command", func(c *Config) { c.Publish.Command = "" }, "publish.command"},
		{"empty find", func(c *Config) { c.Base.Replacements = []Replacement{{Find: ""}} }, "base.replacements"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			re, ok := rerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, re.Context["field"])
		})
	}

	t.Run("skip publish allows empty command", func(t *testing.T) {
		cfg := Default()
		cfg.Publish.Skip = true
		cfg.Publish.Command = ""
		require.NoError(t, cfg.Validate())
	})
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Base.Root = root

	p, err := cfg.Resolve()
	require.NoError(t, err)

	assert.Equal(t, root, p.Root)
	assert.Equal(t, filepath.Join(root, "botocore", "data"), p.DataRoot)
	assert.Equal(t, filepath.Join(root, "LICENSE.txt"), p.License)
	assert.Equal(t, filepath.Join(root, "setup.cfg"), p.SetupConfig)
	assert.Equal(t, filepath.Join(root, "dist"), p.OutputDir)
	assert.Equal(t, root, p.WorkDir)
	assert.Equal(t, "botocore", p.Package)
	assert.Equal(t, "data", p.DataPrefix)
	assert.Equal(t, filepath.Join("botocore", "data"), p.DataRel)
	assert.Equal(t, "dist", p.ArtifactsDir)

	out := t.TempDir()
	cfg.Build.OutputDir = out
	cfg.Build.WorkDir = "work"
	p, err = cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, out, p.OutputDir)
	assert.Equal(t, filepath.Join(root, "work"), p.WorkDir)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, DefaultConfigFile)

	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err)
	assert.True(t, rerrors.IsCategory(err, rerrors.CategoryValidation))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
