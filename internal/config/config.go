// Package config loads wordtile-ocr settings from the environment.
//
// Variables may also come from a .env file loaded with LoadDotEnv. Values
// already present in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Environment variable names.
const (
	EnvLogLevel = "WORDTILE_OCR_LOG_LEVEL"
	EnvLetters  = "WORDTILE_OCR_LETTERS"
	EnvBonus    = "WORDTILE_OCR_BONUS"
	EnvBinarize = "WORDTILE_OCR_BINARIZE"
)

// Config holds the runtime settings.
type Config struct {
	// LogLevel is a logrus level name.
	LogLevel string

	// LettersDir and BonusDir hold the letter and bonus template images.
	LettersDir string
	BonusDir   string

	// Binarize tile crops before matching letters.
	Binarize bool
}

// LoadConfig reads the configuration from environment variables and
// validates it.
func LoadConfig() (*Config, error) {
	binarize, err := getEnvAsBoolOrDefault(EnvBinarize, true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:   getEnvOrDefault(EnvLogLevel, "info"),
		LettersDir: getEnvOrDefault(EnvLetters, "templates/letters"),
		BonusDir:   getEnvOrDefault(EnvBonus, "templates/bonus"),
		Binarize:   binarize,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks if configuration is valid.
func (c *Config) Validate() error {
	if c.LettersDir == "" {
		return fmt.Errorf("%s must not be empty", EnvLetters)
	}
	if c.BonusDir == "" {
		return fmt.Errorf("%s must not be empty", EnvBonus)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// LoadDotEnv loads variables from path into the environment. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, valueStr)
	}
	return value, nil
}
