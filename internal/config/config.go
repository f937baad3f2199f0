package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "./config.yaml"

type Config struct {
	ControlAddr string `yaml:"control_addr" json:"control_addr"`
	TempDir     string `yaml:"temp_dir" json:"temp_dir"`
	MaxFiles    int64  `yaml:"max_temp_files" json:"max_temp_files"`
	MaxBytes    int64  `yaml:"max_temp_bytes" json:"max_temp_bytes"`
	ChunkSize   int64  `yaml:"chunk_size" json:"chunk_size"`
	MaxRead     int64  `yaml:"max_read" json:"max_read"`
	LogLevel    string `yaml:"log_level" json:"log_level"`
	LogFormat   string `yaml:"log_format" json:"log_format"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	return Config{
		ControlAddr: "127.0.0.1:8090",
		TempDir:     filepath.Join(os.TempDir(), "fileaccess"),
		MaxFiles:    1024,
		MaxBytes:    512 << 20,
		ChunkSize:   2 << 20,
		MaxRead:     2 << 20,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load читает YAML-конфигурацию поверх значений по умолчанию, применяет ENV-переопределения
// и проверяет результат. Пустой path означает CONFIG_PATH или ./config.yaml;
// отсутствие файла по умолчанию не считается ошибкой.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = defaultConfigPath
	}

	c := Default()
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	// ENV override
	if v := os.Getenv("CONTROL_ADDR"); v != "" {
		c.ControlAddr = v
	}
	if v := os.Getenv("TEMP_DIR"); v != "" {
		c.TempDir = v
	}
	if err := envInt64("MAX_TEMP_FILES", &c.MaxFiles); err != nil {
		return nil, err
	}
	if err := envInt64("MAX_TEMP_BYTES", &c.MaxBytes); err != nil {
		return nil, err
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate проверяет обязательные поля и лимиты.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.TempDir) == "" {
		errs = append(errs, errors.New("temp_dir is not configured"))
	}
	if strings.TrimSpace(c.ControlAddr) == "" {
		errs = append(errs, errors.New("control_addr is not configured"))
	}
	if c.MaxFiles <= 0 {
		errs = append(errs, fmt.Errorf("max_temp_files must be positive, got %d", c.MaxFiles))
	}
	if c.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_temp_bytes must be positive, got %d", c.MaxBytes))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.MaxRead <= 0 {
		errs = append(errs, fmt.Errorf("max_read must be positive, got %d", c.MaxRead))
	}
	return errors.Join(errs...)
}

func envInt64(key string, dst *int64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
