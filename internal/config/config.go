package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level dkbparse.yaml configuration.
type Config struct {
	CategoriesFile  string    `yaml:"categories_file"`
	AssignmentsFile string    `yaml:"assignments_file"`
	TemplateFile    string    `yaml:"template_file,omitempty"`
	OutputFormat    string    `yaml:"output_format"`
	CategoryOrder   []string  `yaml:"category_order,omitempty"`
	RunLogFile      string    `yaml:"run_log_file"`
	CSV             CSVConfig `yaml:"csv"`
}

// CSVConfig describes the shape of the bank's CSV exports.
type CSVConfig struct {
	Delimiter string `yaml:"delimiter"`
	SkipRows  int    `yaml:"skip_rows"`
	Encoding  string `yaml:"encoding"`
}

// OutputFormats lists the renderers the parse command accepts, plus "all".
var OutputFormats = []string{"excel", "summary", "household", "all"}

// Load reads a dkbparse.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		CategoriesFile:  "categories.json",
		AssignmentsFile: "manual-assignments.json",
		OutputFormat:    "excel",
		RunLogFile:      "logs/runs.csv",
		CSV: CSVConfig{
			Delimiter: ";",
			SkipRows:  4,
			Encoding:  "utf-8",
		},
	}
}

// ValidFormat reports whether format names a known output format.
func ValidFormat(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
