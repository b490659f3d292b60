package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config is the application configuration loaded from config.yml.
type Config struct {
	Logger  Logger  `yaml:"logger"`
	Results Results `yaml:"results"`
	Policy  string  `yaml:"policy"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// Results holds defaults for locating analysis output.
type Results struct {
	Dir      string `yaml:"dir"`
	LintFile string `yaml:"lint_file"`
}

// ValidateConfigPath checks the path points at a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes a YAML file into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the application configuration. A missing file yields
// an empty config rather than an error so the tool can run on flags alone.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}
