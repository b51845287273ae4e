package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/carmsdata/carms-etl/utils"
)

// DefaultPath is the pipeline config file looked up in the working directory.
const DefaultPath = "etl.yaml"

// Files names the raw export files inside the data directory.
type Files struct {
	Disciplines  string `yaml:"disciplines"`
	Programs     string `yaml:"programs"`
	Descriptions string `yaml:"descriptions"`
}

// Config is the pipeline configuration. Everything has a default; an
// etl.yaml overrides fields it sets, the RAW_DATA_DIR environment variable
// overrides the default data directory.
type Config struct {
	DataDir string `yaml:"data_dir"`
	Files   Files  `yaml:"files"`
}

// Default returns the stock configuration for the 1503 export set.
func Default() *Config {
	utils.LoadEnv()
	return &Config{
		DataDir: utils.GetEnv("RAW_DATA_DIR", "data/raw"),
		Files: Files{
			Disciplines:  "1503_discipline.xlsx",
			Programs:     "1503_program_master.xlsx",
			Descriptions: "1503_markdown_program_descriptions.json",
		},
	}
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	if fileCfg.DataDir != "" {
		cfg.DataDir = fileCfg.DataDir
	}
	if fileCfg.Files.Disciplines != "" {
		cfg.Files.Disciplines = fileCfg.Files.Disciplines
	}
	if fileCfg.Files.Programs != "" {
		cfg.Files.Programs = fileCfg.Files.Programs
	}
	if fileCfg.Files.Descriptions != "" {
		cfg.Files.Descriptions = fileCfg.Files.Descriptions
	}
	return cfg, nil
}
