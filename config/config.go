// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/pebble"
	"github.com/ava-labs/kittyvm/pubsub"
	"github.com/ava-labs/kittyvm/server"
	"github.com/ava-labs/kittyvm/trace"
)

var (
	ErrInvalidBlockInterval = errors.New("block interval must be positive")
	ErrInvalidMempoolSize   = errors.New("mempool size must be positive")
)

type LogConfig struct {
	Level      string `json:"level"      yaml:"level"`
	Directory  string `json:"directory"  yaml:"directory"` // empty disables the file log
	Display    bool   `json:"display"    yaml:"display"`
	MaxSize    int    `json:"maxSize"    yaml:"maxSize"` // megabytes
	MaxAge     int    `json:"maxAge"     yaml:"maxAge"`  // days
	MaxFiles   int    `json:"maxFiles"   yaml:"maxFiles"`
	Compress   bool   `json:"compress"   yaml:"compress"`
	JSONFormat bool   `json:"jsonFormat" yaml:"jsonFormat"`
}

type Config struct {
	DataDir     string `json:"dataDir"     yaml:"dataDir"`
	GenesisFile string `json:"genesisFile" yaml:"genesisFile"`

	HTTPHost        string            `json:"httpHost"        yaml:"httpHost"`
	HTTPPort        uint16            `json:"httpPort"        yaml:"httpPort"`
	AllowedOrigins  []string          `json:"allowedOrigins"  yaml:"allowedOrigins"`
	AllowedHosts    []string          `json:"allowedHosts"    yaml:"allowedHosts"`
	ShutdownTimeout time.Duration     `json:"shutdownTimeout" yaml:"shutdownTimeout"`
	HTTPConfig      server.HTTPConfig `json:"httpConfig"      yaml:"httpConfig"`

	BlockInterval         time.Duration `json:"blockInterval"         yaml:"blockInterval"`
	MempoolSize           int           `json:"mempoolSize"           yaml:"mempoolSize"`
	MempoolSponsorSize    int           `json:"mempoolSponsorSize"    yaml:"mempoolSponsorSize"`
	AuthVerificationCores int           `json:"authVerificationCores" yaml:"authVerificationCores"`
	ResultCacheSize       int           `json:"resultCacheSize"       yaml:"resultCacheSize"`
	StreamingBacklogSize  int           `json:"streamingBacklogSize"  yaml:"streamingBacklogSize"`

	Log             LogConfig            `json:"log"             yaml:"log"`
	TraceConfig     trace.Config         `json:"traceConfig"     yaml:"traceConfig"`
	PebbleConfig    pebble.Config        `json:"pebbleConfig"    yaml:"pebbleConfig"`
	WebSocketConfig *pubsub.ServerConfig `json:"webSocketConfig" yaml:"webSocketConfig"`
}

func New() Config {
	return Config{
		DataDir: ".kittyvm",

		HTTPHost:        "127.0.0.1",
		HTTPPort:        9650,
		AllowedOrigins:  []string{"*"},
		AllowedHosts:    []string{"localhost"},
		ShutdownTimeout: 10 * time.Second,
		HTTPConfig:      server.NewDefaultHTTPConfig(),

		BlockInterval:         time.Second,
		MempoolSize:           2_048,
		MempoolSponsorSize:    32,
		AuthVerificationCores: runtime.NumCPU(),
		ResultCacheSize:       4_096,
		StreamingBacklogSize:  1_024,

		Log: LogConfig{
			Level:    logging.Info.String(),
			Display:  true,
			MaxSize:  8,
			MaxAge:   7,
			MaxFiles: 4,
			Compress: true,
		},
		TraceConfig: trace.Config{
			Enabled:         false,
			TraceSampleRate: 1,
			AppName:         consts.Name,
			Agent:           consts.Name,
			Version:         consts.Version,
		},
		PebbleConfig:    pebble.NewDefaultConfig(),
		WebSocketConfig: pubsub.NewDefaultServerConfig(),
	}
}

// Load reads the YAML file at [path] on top of [New]. A JSON file is valid
// YAML.
func Load(path string) (Config, error) {
	c := New()
	if len(path) == 0 {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	c := New()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("unable to parse config: %w", err)
	}
	if err := c.Verify(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) Verify() error {
	if c.BlockInterval <= 0 {
		return ErrInvalidBlockInterval
	}
	if c.MempoolSize <= 0 || c.MempoolSponsorSize <= 0 {
		return ErrInvalidMempoolSize
	}
	if _, err := logging.ToLevel(c.Log.Level); err != nil {
		return err
	}
	if c.AuthVerificationCores <= 0 {
		c.AuthVerificationCores = 1
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}
