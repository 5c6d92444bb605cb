// Package config loads process-wide configuration once at startup. Values
// come from the environment with a fallback to KEY=VALUE lines in a local
// env file; the resulting credential is injected into constructors instead
// of being re-read later.
package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// DefaultEnvFile is the conventional local env file next to the binary.
const DefaultEnvFile = ".env"

// Config carries everything the client binary needs at startup.
type Config struct {
	AnthropicAPIKey  string
	AnthropicBaseURL string
	Model            string
	LogLevel         string
}

// Load reads configuration from the environment, falling back to the given
// env file for keys the environment does not set. A missing env file is
// fine; a missing API key is a fatal startup error.
func Load(envFile string) (*Config, error) {
	fileVals, err := parseEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return fileVals[key]
	}

	cfg := &Config{
		AnthropicAPIKey:  lookup("ANTHROPIC_API_KEY"),
		AnthropicBaseURL: lookup("ANTHROPIC_BASE_URL"),
		Model:            lookup("WEATHERCHAT_MODEL"),
		LogLevel:         lookup("WEATHERCHAT_LOG_LEVEL"),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AnthropicAPIKey == "" {
		return nil, errors.Newf("ANTHROPIC_API_KEY not found in environment or %s", envFile)
	}
	return cfg, nil
}

// ZerologLevel maps the configured level name onto a zerolog level,
// defaulting to info for anything unrecognized.
func (c *Config) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// parseEnvFile reads KEY=VALUE lines. Blank lines and #-comments are
// skipped, surrounding quotes on values are stripped, and nothing is ever
// interpreted by a shell.
func parseEnvFile(path string) (map[string]string, error) {
	vals := map[string]string{}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return vals, nil
		}
		return nil, errors.Wrapf(err, "config: open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		if key != "" {
			vals[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}
	return vals, nil
}
