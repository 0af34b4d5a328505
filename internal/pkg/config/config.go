package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DB        DBCfg        `yaml:"db"`
	HTTP      HTTPCfg      `yaml:"http"`
	Documents DocumentsCfg `yaml:"documents"`
}

type DBCfg struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	Username string `yaml:"username" env:"DB_USERNAME"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Database string `yaml:"database" env:"DB_DATABASE"`
}

func (c DBCfg) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.Username, c.Password, c.Host, c.Port, c.Database)
}

type HTTPCfg struct {
	Addr string `yaml:"addr" env:"HTTP_ADDR"`
}

type DocumentsCfg struct {
	DirPath string `yaml:"dir_path" env:"DOCUMENTS_DIR"`
}

// Load reads the yaml config file, then overlays environment variables.
// A .env file is honoured when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DB:   DBCfg{Host: "localhost", Port: 5432},
		HTTP: HTTPCfg{Addr: ":8080"},
		Documents: DocumentsCfg{
			DirPath: "documents",
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
