package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/naoina/toml"
	"gopkg.in/yaml.v2"

	"github.com/dapwire/dapwire/pkg/transport"
)

type unmarshal func([]byte, interface{}) error

const defaultListenAddr = "127.0.0.1:4711"

type config struct {
	ListenAddr     string `json:"listen_addr" yaml:"listen_addr" toml:"listen_addr"`
	ChunkSize      int    `json:"chunk_size" yaml:"chunk_size" toml:"chunk_size"`
	MaxHeaderBytes int    `json:"max_header_bytes" yaml:"max_header_bytes" toml:"max_header_bytes"`
	LogFile        string `json:"log_file" yaml:"log_file" toml:"log_file"`
}

func (c *config) init() error {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must not be negative, got %d", c.ChunkSize)
	}
	if c.MaxHeaderBytes < 0 {
		return fmt.Errorf("max_header_bytes must not be negative, got %d", c.MaxHeaderBytes)
	}
	if c.LogFile == "" {
		c.LogFile = os.Getenv("DAPWIRE_LOG")
	}
	return nil
}

// sessionOptions maps config values onto per-session codec options.
func (c *config) sessionOptions() []transport.Option {
	var opts []transport.Option
	if c.ChunkSize > 0 {
		opts = append(opts, transport.ChunkSize(c.ChunkSize))
	}
	if c.MaxHeaderBytes > 0 {
		opts = append(opts, transport.MaxHeaderBytes(c.MaxHeaderBytes))
	}
	return opts
}

// findAndLoadConfig looks for ~/.dapwire/config.{toml,yaml,yml,json} and
// falls back to built-in defaults when none exists.
func findAndLoadConfig() (*config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error looking for user home (maybe specify config file): %w", err)
	}
	configDir := filepath.Join(home, ".dapwire")
	for _, ext := range []string{"toml", "yaml", "yml", "json"} {
		maybe := filepath.Join(configDir, fmt.Sprintf("config.%s", ext))
		_, err := os.Stat(maybe)
		if err != nil {
			continue
		}
		slog.Info("using config file", "path", maybe)
		return loadConfigFile(maybe)
	}

	c := &config{}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadConfigFile(path string) (*config, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	ext := filepath.Ext(path)
	switch ext {
	case ".yaml":
		return parse(yaml.Unmarshal, body)
	case ".yml":
		return parse(yaml.Unmarshal, body)
	case ".toml":
		return parse(toml.Unmarshal, body)
	case ".json":
		return parse(json.Unmarshal, body)
	default:
		return nil, fmt.Errorf("unknown config file type '%s'", ext)
	}
}

func parse(un unmarshal, body []byte) (*config, error) {
	c := &config{}
	if err := un(body, c); err != nil {
		return nil, err
	}
	err := c.init()
	if err != nil {
		return nil, err
	}

	return c, nil
}
