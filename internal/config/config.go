package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures what the console needs to reach the platform API and to
// run the image pipeline.
type Config struct {
	APIBaseURL    string
	TokenFile     string
	PageSize      int
	ImageMaxWidth int
	ImageQuality  float64
}

const (
	defaultConfigPath = "~/.config/maitre/config.toml"
	defaultTokenFile  = "~/.config/maitre/token"
	defaultBaseURL    = "http://127.0.0.1:4000"
	defaultPageSize   = 10
	defaultMaxWidth   = 720
	defaultQuality    = 0.65
)

// Load locates and parses the console config, falling back to defaults when
// missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL    string  `toml:"api_base_url"`
		TokenFile     string  `toml:"token_file"`
		PageSize      int     `toml:"page_size"`
		ImageMaxWidth int     `toml:"image_max_width"`
		ImageQuality  float64 `toml:"image_quality"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(raw.TokenFile); v != "" {
		cfg.TokenFile = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.ImageMaxWidth > 0 {
		cfg.ImageMaxWidth = raw.ImageMaxWidth
	}
	if raw.ImageQuality > 0 && raw.ImageQuality <= 1 {
		cfg.ImageQuality = raw.ImageQuality
	}

	cfg.TokenFile = mustExpand(cfg.TokenFile)
	return cfg, nil
}

func defaults() Config {
	return Config{
		APIBaseURL:    defaultBaseURL,
		TokenFile:     mustExpand(defaultTokenFile),
		PageSize:      defaultPageSize,
		ImageMaxWidth: defaultMaxWidth,
		ImageQuality:  defaultQuality,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
