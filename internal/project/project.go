// Package project loads the per-project deploy.yaml settings.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nathanbeddoewebdev/deployctl/internal/deploy/domain"
	"nathanbeddoewebdev/deployctl/internal/util"

	"github.com/a8m/envsubst"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the project settings file looked up in the project root.
const FileName = "deploy.yaml"

var validate = validator.New()

// Config holds the settings read from deploy.yaml.
type Config struct {
	Name    string            `yaml:"name" validate:"omitempty,max=100"`
	Target  string            `yaml:"target" default:"preview" validate:"oneof=preview production"`
	Alias   []string          `yaml:"alias" validate:"dive,hostname_rfc1123"`
	Regions []string          `yaml:"regions" validate:"dive,alphanum,max=8"`
	Public  bool              `yaml:"public"`
	Env     map[string]string `yaml:"env"`
	Build   struct {
		Env map[string]string `yaml:"env"`
	} `yaml:"build"`
}

// Load reads the settings for the project rooted at dir. file overrides
// the default location; relative paths are resolved against dir. A
// missing default file is not an error. The name falls back to the
// slugified directory name.
func Load(dir, file string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("project: failed to apply defaults: %w", err)
	}

	explicit := file != ""
	if !explicit {
		file = FileName
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("project: %s: %w", file, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("project: failed to read %s: %w", file, err)
	}

	if cfg.Name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("project: failed to resolve %s: %w", dir, err)
		}
		cfg.Name = util.SlugifyName(filepath.Base(abs))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	expanded, err := envsubst.Bytes(data)
	if err != nil {
		return fmt.Errorf("failed to expand variables: %w", err)
	}
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	// An explicit "target:" with no value clears the default.
	if cfg.Target == "" {
		cfg.Target = domain.TargetPreview
	}
	return nil
}

// Validate checks field constraints and the project name rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("project: %w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("project: %w", err)
	}
	if err := util.ValidateProjectName(c.Name); err != nil {
		return fmt.Errorf("project: %w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// Overrides carries command-line values that take precedence over the file.
type Overrides struct {
	Name       string
	Production bool
	Force      bool
	Alias      []string
	Env        map[string]string
	BuildEnv   map[string]string
}

// CreateOpts merges the file settings with o. Map entries from o win over
// the file; aliases from o replace the file's list.
func (c *Config) CreateOpts(o Overrides) domain.CreateOpts {
	opts := domain.CreateOpts{
		Name:     c.Name,
		Target:   c.Target,
		Alias:    c.Alias,
		Regions:  c.Regions,
		Public:   c.Public,
		Env:      merge(c.Env, o.Env),
		BuildEnv: merge(c.Build.Env, o.BuildEnv),
		Force:    o.Force,
	}
	if o.Name != "" {
		opts.Name = o.Name
	}
	if o.Production {
		opts.Target = domain.TargetProduction
	}
	if len(o.Alias) > 0 {
		opts.Alias = o.Alias
	}
	return opts
}

func merge(base, over map[string]string) map[string]string {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
