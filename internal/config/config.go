// Package config loads the hololoop YAML configuration.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	SessionID     string        `yaml:"session_id"`
	LogLevel      string        `yaml:"log_level"`
	FrameRate     int           `yaml:"frame_rate"`
	FixedTimeStep time.Duration `yaml:"fixed_timestep"`
	Store         StoreConfig   `yaml:"store"`
	Content       ContentConfig `yaml:"content"`
	Speech        SpeechConfig  `yaml:"speech"`
	Sim           SimConfig     `yaml:"sim"`
	HTTP          HTTPConfig    `yaml:"http"`
}

type StoreConfig struct {
	Backend       string      `yaml:"backend"`
	Dir           string      `yaml:"dir"`
	Redis         RedisConfig `yaml:"redis"`
	EncryptionKey string      `yaml:"encryption_key"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

type ContentConfig struct {
	Distance         float64 `yaml:"distance"`
	DegreesPerSecond float64 `yaml:"degrees_per_second"`
}

type SpeechConfig struct {
	Commands      map[string]string `yaml:"commands"`
	MinConfidence string            `yaml:"min_confidence"`
}

type SimConfig struct {
	Cameras      []string `yaml:"cameras"`
	Locatability string   `yaml:"locatability"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SessionID: "app-state",
		LogLevel:  "info",
		FrameRate: 60,
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     ".hololoop/state",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "hololoop:state:",
			},
		},
		Content: ContentConfig{
			Distance:         2.0,
			DegreesPerSecond: 45,
		},
		Speech: SpeechConfig{
			Commands: map[string]string{
				"move molecule":  string(domain.CommandReposition),
				"reposition":     string(domain.CommandReposition),
				"bring it here":  string(domain.CommandReposition),
				"place molecule": string(domain.CommandPlace),
				"reset molecule": string(domain.CommandReset),
			},
			MinConfidence: "medium",
		},
		Sim: SimConfig{
			Cameras:      []string{"primary"},
			Locatability: "positional_tracking_active",
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8088",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	var errs []error

	if c.SessionID == "" {
		errs = append(errs, errors.New("session_id must not be empty"))
	}
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate))
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}
	if _, err := c.EncryptionKey(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SpeechCommands(); err != nil {
		errs = append(errs, err)
	}
	if _, err := domain.ParseConfidence(c.Speech.MinConfidence); err != nil {
		errs = append(errs, err)
	}
	if _, err := domain.ParseLocatability(c.Sim.Locatability); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// FrameInterval is the wall-clock period of one frame.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

// EncryptionKey decodes the hex key. It returns nil when encryption is disabled.
func (c *Config) EncryptionKey() ([]byte, error) {
	if c.Store.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.Store.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption_key must be hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// SpeechCommands returns the phrase table with normalized phrases.
func (c *Config) SpeechCommands() (map[string]domain.Command, error) {
	out := make(map[string]domain.Command, len(c.Speech.Commands))
	for phrase, name := range c.Speech.Commands {
		cmd := domain.Command(name)
		switch cmd {
		case domain.CommandReposition, domain.CommandPlace, domain.CommandReset:
		default:
			return nil, fmt.Errorf("phrase %q maps to unknown command %q", phrase, name)
		}
		norm := domain.NormalizePhrase(phrase)
		if norm == "" {
			return nil, errors.New("speech command phrase must not be empty")
		}
		out[norm] = cmd
	}
	return out, nil
}
