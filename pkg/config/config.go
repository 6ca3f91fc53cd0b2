package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	yaml "gopkg.in/yaml.v3"
)

type Proto struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
	Type    string   `yaml:"type,omitempty"`
}

// Profile is a named set of defaults for the encode and decode commands.
type Profile struct {
	Name        string `yaml:"name"`
	InputMode   string `yaml:"input-mode,omitempty"`
	Output      string `yaml:"output,omitempty"`
	Compression string `yaml:"compression,omitempty"`
	MsgPack     bool   `yaml:"msgpack,omitempty"`
	Proto       *Proto `yaml:"proto,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

type Config struct {
	CurrentProfile  string     `yaml:"current-profile"`
	ProfileOverride string     `yaml:"-"`
	Profiles        []*Profile `yaml:"profiles"`
	// configPath is the file path used for reading and writing this config.
	configPath string `yaml:"-"`
}

func (c *Config) HasProfile(name string) bool {
	for _, profile := range c.Profiles {
		if profile.Name == name {
			return true
		}
	}
	return false
}

func (c *Config) SetCurrentProfile(name string) error {
	if !c.HasProfile(name) {
		return fmt.Errorf("could not find profile with name %v", name)
	}

	oldProfile := c.CurrentProfile
	c.CurrentProfile = name
	if err := c.Write(); err != nil {
		// Either everything is successful or nothing.
		c.CurrentProfile = oldProfile
		return err
	}
	return nil
}

// RemoveProfile deletes the named profile. If it was the current profile,
// no profile is current afterwards.
func (c *Config) RemoveProfile(name string) error {
	pos := -1
	for i, profile := range c.Profiles {
		if profile.Name == name {
			pos = i
			break
		}
	}
	if pos == -1 {
		return fmt.Errorf("could not delete profile: profile with name '%v' does not exist", name)
	}

	c.Profiles = append(c.Profiles[:pos], c.Profiles[pos+1:]...)
	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}
	return nil
}

// ActiveProfile returns a copy of the override profile if set, else of
// the current profile. It returns nil if neither names a known profile.
func (c *Config) ActiveProfile() *Profile {
	if c == nil {
		return nil
	}

	toSearch := c.ProfileOverride
	if c.ProfileOverride == "" {
		toSearch = c.CurrentProfile
	}

	if toSearch == "" {
		return nil
	}

	for _, profile := range c.Profiles {
		if profile.Name == toSearch {
			// Copy so flag overrides are never written back into the config.
			p := *profile
			if profile.Proto != nil {
				proto := *profile.Proto
				p.Proto = &proto
			}
			return &p
		}
	}
	return nil
}

// Path returns the file this config is read from and written to.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) Write() error {
	configPath := c.configPath
	if configPath == "" {
		var err error
		configPath, err = getDefaultConfigPath()
		if err != nil {
			return err
		}
	}
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, "config.*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()

	encoder := yaml.NewEncoder(tmpFile)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}
	c.configPath = configPath
	return nil
}

// ReadConfig reads the config at cfgPath, or at $HOME/.a85/config when
// cfgPath is empty. An explicit path must exist; a missing default file
// yields an empty config.
func ReadConfig(cfgPath string) (c Config, err error) {
	resolvedPath, err := resolveConfigPath(cfgPath)
	if err != nil {
		return Config{}, err
	}

	file, err := os.OpenFile(resolvedPath, os.O_RDONLY, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{configPath: resolvedPath}, nil
		}
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	err = decoder.Decode(&c)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.configPath = resolvedPath
	return c, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func resolveConfigPath(cfgPath string) (string, error) {
	if cfgPath == "" {
		return getDefaultConfigPath()
	}
	if !fileExists(cfgPath) {
		return "", fmt.Errorf("config file %q does not exist", cfgPath)
	}
	return cfgPath, nil
}

func getDefaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	return filepath.Join(home, ".a85", "config"), nil
}
