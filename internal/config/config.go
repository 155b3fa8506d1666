// Package config загружает конфигурацию сборщика базы брендов.
// Порядок применения: значения по умолчанию, затем YAML-файл (если
// передан), затем переменные окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"branddb/classification"
	"branddb/normalization"
	"branddb/sources"
)

// SourceConfig настройка одного источника.
type SourceConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
	Trusted bool   `yaml:"trusted"`
}

// Config конфигурация сборщика и сервера.
type Config struct {
	// Сервер
	Port string `yaml:"port"`

	// Пути
	SnapshotDBPath string `yaml:"snapshot_db_path"`
	OutputPath     string `yaml:"output_path"`

	// Сборка
	BuildWorkers    int `yaml:"build_workers"`
	FetchTimeoutSec int `yaml:"fetch_timeout_sec"`

	// Пороги классификации
	MinNameLength    int `yaml:"min_name_length"`
	MaxAcronymLength int `yaml:"max_acronym_length"`

	// Таблицы. Пустые списки означают стандартные значения.
	Suffixes     []string `yaml:"suffixes"`
	IgnoredTerms []string `yaml:"ignored_terms"`

	// Источники в порядке вывода в метаданных
	Sources []SourceConfig `yaml:"sources"`
}

// Default возвращает конфигурацию по умолчанию: все встроенные источники
// включены, доверенный — Simple Icons.
func Default() *Config {
	return &Config{
		Port:             "8099",
		SnapshotDBPath:   "./data/brands.db",
		OutputPath:       "./data/brands.json",
		BuildWorkers:     4,
		FetchTimeoutSec:  90,
		MinNameLength:    classification.DefaultThresholds().MinNameLength,
		MaxAcronymLength: classification.DefaultThresholds().MaxAcronymLength,
		Suffixes:         normalization.DefaultSuffixes(),
		IgnoredTerms:     classification.DefaultIgnoredTerms(),
		Sources: []SourceConfig{
			{Name: sources.NameSimpleIcons, Enabled: true, Trusted: true},
			{Name: sources.NameWikidata, Enabled: true},
			{Name: sources.NameSP500, Enabled: true},
		},
	}
}

// Load строит конфигурацию: умолчания, YAML-файл (опционально),
// переменные окружения, затем валидация.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		if err := config.applyFile(path); err != nil {
			return nil, err
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyFile накладывает YAML-файл поверх текущих значений.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// applyEnv накладывает переменные окружения поверх текущих значений.
func (c *Config) applyEnv() {
	c.Port = getEnv("BRANDDB_PORT", c.Port)
	c.SnapshotDBPath = getEnv("BRANDDB_SNAPSHOT_DB", c.SnapshotDBPath)
	c.OutputPath = getEnv("BRANDDB_OUTPUT", c.OutputPath)
	c.BuildWorkers = getEnvInt("BRANDDB_BUILD_WORKERS", c.BuildWorkers)
	c.FetchTimeoutSec = getEnvInt("BRANDDB_FETCH_TIMEOUT_SEC", c.FetchTimeoutSec)
	c.MinNameLength = getEnvInt("BRANDDB_MIN_NAME_LENGTH", c.MinNameLength)
	c.MaxAcronymLength = getEnvInt("BRANDDB_MAX_ACRONYM_LENGTH", c.MaxAcronymLength)
}

// FetchTimeout возвращает таймаут запроса к источнику.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// TrustedSource возвращает имя доверенного источника среди включенных,
// либо пустую строку.
func (c *Config) TrustedSource() string {
	for _, source := range c.Sources {
		if source.Enabled && source.Trusted {
			return source.Name
		}
	}
	return ""
}

// EnabledSources возвращает включенные источники в порядке конфигурации.
func (c *Config) EnabledSources() []SourceConfig {
	var enabled []SourceConfig
	for _, source := range c.Sources {
		if source.Enabled {
			enabled = append(enabled, source)
		}
	}
	return enabled
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
