package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

// DefaultConfigFile is the config file picked up from the working directory
// when --config is not given.
const DefaultConfigFile = "alacarte.yaml"

// Config represents the application configuration
type Config struct {
	Base     BaseConfig     `yaml:"base"`
	Metadata MetadataConfig `yaml:"metadata"`
	Build    BuildConfig    `yaml:"build"`
	Publish  PublishConfig  `yaml:"publish"`
}

// BaseConfig describes the base package working tree. Relative paths are
// resolved against Root.
type BaseConfig struct {
	Root          string        `yaml:"root"`
	Name          string        `yaml:"name"`                // upstream package name, e.g. botocore
	DistName      string        `yaml:"dist_name,omitempty"` // defaults to <name>-a-la-carte
	DataDir       string        `yaml:"data_dir"`            // data root holding one directory per service
	License       string        `yaml:"license"`
	Descriptor    string        `yaml:"descriptor"`
	SetupConfig   string        `yaml:"setup_config"`
	Readme        string        `yaml:"readme"`
	ExtrasSection string        `yaml:"extras_section"`
	RequireClean  bool          `yaml:"require_clean"`
	Replacements  []Replacement `yaml:"replacements,omitempty"`
}

// Replacement is one literal find/replace rule applied to the base descriptor.
type Replacement struct {
	Find    string `yaml:"find"`
	Replace string `yaml:"replace"`
}

// MetadataConfig holds the values rendered into every subset package and
// the rewritten base package metadata.
type MetadataConfig struct {
	URL                 string   `yaml:"url"`
	Description         string   `yaml:"description"`
	UpstreamURL         string   `yaml:"upstream_url"`
	UpstreamDescription string   `yaml:"upstream_description"`
	Author              string   `yaml:"author"`
	License             string   `yaml:"license"`
	PythonRequires      string   `yaml:"python_requires"`
	Classifiers         []string `yaml:"classifiers"`
	DataGlob            string   `yaml:"data_glob"`
	TemplateFile        string   `yaml:"template_file,omitempty"`
}

// BuildConfig configures the external packaging toolchain and the fan-out.
type BuildConfig struct {
	Command      string `yaml:"command"`
	ArtifactsDir string `yaml:"artifacts_dir"` // where Command leaves artifacts, relative to the package root
	OutputDir    string `yaml:"output_dir"`
	WorkDir      string `yaml:"work_dir,omitempty"` // parent of temporary package trees, defaults to base root
	Jobs         int    `yaml:"jobs,omitempty"`     // 0 means one worker per CPU
}

// PublishConfig configures the upload step.
type PublishConfig struct {
	Command string `yaml:"command"`
	Skip    bool   `yaml:"skip"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, rerrors.ConfigNotFound(configPath)
		}
		return nil, rerrors.FileSystem("read config", configPath, err)
	}

	cfg, err := Parse(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	if err != nil {
		return nil, rerrors.ConfigInvalid(configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault returns the default configuration after loading .env files.
func LoadDefault() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Init creates a new configuration file with the default content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return rerrors.ValidationFailed("config", fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}

	cfg := Default()
	// Replacements are derived at load time; keeping them out of the file
	// lets edits to name/url/description take effect.
	cfg.Base.Replacements = nil

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return rerrors.InternalError("failed to marshal config", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return rerrors.FileSystem("write config", configPath, err)
	}

	return nil
}
