package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	GeneratorConfig struct {
		Important                  bool `yaml:"important"`
		IncludeAdditionalSelectors bool `yaml:"include_additional_selectors"`
		Verify                     bool `yaml:"verify"`
	}

	PersistenceConfig struct {
		QueryParam string        `yaml:"query_param" validate:"required,alphanum"`
		Debounce   time.Duration `yaml:"debounce" validate:"gte=0"`
		BaseURL    string        `yaml:"base_url" validate:"required,url"`
	}

	BrandingConfig struct {
		Endpoint     string        `yaml:"endpoint" validate:"required,url"`
		UserAgent    string        `yaml:"user_agent" validate:"required"`
		Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
		MaxAssetSize int64         `yaml:"max_asset_size" validate:"min=1024"`
		Username     SecretString  `yaml:"username,omitempty" validate:"omitempty,email"`
	}

	StoreConfig struct {
		Path string `yaml:"path" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
	}

	Config struct {
		Version     int               `yaml:"version" validate:"eq=1"`
		Generator   GeneratorConfig   `yaml:"generator"`
		Persistence PersistenceConfig `yaml:"persistence"`
		Branding    BrandingConfig    `yaml:"branding"`
		Store       StoreConfig       `yaml:"store"`
		Logging     LoggingConfig     `yaml:"logging"`
		Reporting   ReporterConfig    `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
