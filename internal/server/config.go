package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/zus-calculator/internal/config"
	"github.com/iwvelando/zus-calculator/pkg/constants"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address       string               `yaml:"address"`
	MaxFormSize   string               `yaml:"maxFormSize"`
	SessionTTL    string               `yaml:"sessionTTL"`
	SweepSchedule string               `yaml:"sweepSchedule"`
	Logging       config.LoggingConfig `yaml:"logging"`
	formSizeBytes int64
	sessionTTL    time.Duration
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxFormSize:   fmt.Sprintf("%d", constants.DefaultMaxFormSizeBytes),
		SessionTTL:    constants.DefaultSessionTTL.String(),
		SweepSchedule: constants.DefaultSweepSchedule,
		Logging:       config.LoggingConfig{},
		formSizeBytes: constants.DefaultMaxFormSizeBytes,
		sessionTTL:    constants.DefaultSessionTTL,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FormSizeBytes returns the configured request body limit in bytes.
func (c *Config) FormSizeBytes() int64 {
	return c.formSizeBytes
}

// SessionTTLDuration returns how long an idle session is kept.
func (c *Config) SessionTTLDuration() time.Duration {
	return c.sessionTTL
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	sizeStr := strings.TrimSpace(c.MaxFormSize)
	if sizeStr == "" {
		c.formSizeBytes = constants.DefaultMaxFormSizeBytes
		c.MaxFormSize = fmt.Sprintf("%d", constants.DefaultMaxFormSizeBytes)
	} else {
		bytes, err := ParseSize(sizeStr)
		if err != nil {
			return err
		}
		if bytes <= 0 {
			bytes = constants.DefaultMaxFormSizeBytes
		}
		c.formSizeBytes = bytes
	}

	ttlStr := strings.TrimSpace(c.SessionTTL)
	if ttlStr == "" {
		c.sessionTTL = constants.DefaultSessionTTL
		c.SessionTTL = constants.DefaultSessionTTL.String()
	} else {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return fmt.Errorf("invalid session TTL %q: %w", c.SessionTTL, err)
		}
		if ttl <= 0 {
			return fmt.Errorf("session TTL must be positive, got %s", c.SessionTTL)
		}
		c.sessionTTL = ttl
	}

	if strings.TrimSpace(c.SweepSchedule) == "" {
		c.SweepSchedule = constants.DefaultSweepSchedule
	}
	if _, err := cron.ParseStandard(c.SweepSchedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", c.SweepSchedule, err)
	}
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxFormSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
