// Package config loads the evalbox CLI configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evalbox/evalbox/pkg/logger"
	"github.com/evalbox/evalbox/pkg/request"
	"github.com/evalbox/evalbox/runner"
)

// Profile is the budget used for one language
type Profile struct {
	Timeout time.Duration `yaml:"timeout"`
	NProc   int64         `yaml:"nproc"`
	Memory  runner.Size   `yaml:"memory"`
	Output  runner.Size   `yaml:"output"`
}

// Limit returns the part of the profile enforced by the launcher
func (p Profile) Limit() runner.Limit {
	return runner.Limit{TimeLimit: p.Timeout, OutputLimit: p.Output}
}

func (p Profile) String() string {
	return fmt.Sprintf("Profile[Timeout=%v, NProc=%d, Memory=%v, Output=%v]", p.Timeout, p.NProc, p.Memory, p.Output)
}

// Config is the evalbox configuration file
type Config struct {
	Log logger.Config `yaml:"log"`
	// InitPath is the sandbox binary, the CLI re-executes itself if empty
	InitPath string                       `yaml:"init_path"`
	Profiles map[request.Language]Profile `yaml:"profiles"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Log: logger.Config{Level: "info", Format: "console", OutputPath: "stderr"},
		Profiles: map[request.Language]Profile{
			request.JavaScript: defaultProfile(),
			request.Lua:        defaultProfile(),
		},
	}
}

// a Go process already reserves around 1 GiB of address space before it
// evaluates anything, so the memory ceiling starts well above that
func defaultProfile() Profile {
	return Profile{
		Timeout: 10 * time.Second,
		NProc:   128,
		Memory:  4 << 30,
		Output:  1024,
	}
}

// Load reads path over the defaults. Profiles in the file replace only the
// fields they set.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := Parse(b, &c); err != nil {
		return c, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML into c, keeping the values already in c for missing keys
func Parse(b []byte, c *Config) error {
	var f struct {
		Log      *logger.Config       `yaml:"log"`
		InitPath string               `yaml:"init_path"`
		Profiles map[string]yaml.Node `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return err
	}
	if f.Log != nil {
		if f.Log.Level != "" {
			c.Log.Level = f.Log.Level
		}
		if f.Log.Format != "" {
			c.Log.Format = f.Log.Format
		}
		if f.Log.OutputPath != "" {
			c.Log.OutputPath = f.Log.OutputPath
		}
	}
	if f.InitPath != "" {
		c.InitPath = f.InitPath
	}
	if c.Profiles == nil {
		c.Profiles = make(map[request.Language]Profile)
	}
	for name, node := range f.Profiles {
		lang, err := request.ParseLanguage(name)
		if err != nil {
			return err
		}
		p, ok := c.Profiles[lang]
		if !ok {
			p = defaultProfile()
		}
		if err := node.Decode(&p); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
		c.Profiles[lang] = p
	}
	return nil
}

// Profile returns the budget for lang
func (c Config) Profile(lang request.Language) Profile {
	if p, ok := c.Profiles[lang]; ok {
		return p
	}
	return defaultProfile()
}
