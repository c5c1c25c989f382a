package host

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is a YAML configuration of the Host.
type Config struct {
	// Storage configures the database. In-memory storage is used if the
	// type is not set.
	Storage dbconfig.DBConfiguration `yaml:"Storage"`

	// Owner is the Neo address of the account allowed to deploy the ledger.
	Owner string `yaml:"Owner"`

	// LogLevel is one of zap levels, 'info' by default.
	LogLevel string `yaml:"LogLevel"`
}

// LoadConfig reads Config from the YAML file.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	err = yaml.Unmarshal(b, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("decode YAML config: %w", err)
	}

	if cfg.Storage.Type == "" {
		cfg.Storage.Type = dbconfig.InMemoryDB
	}

	return cfg, nil
}

// OwnerHash decodes deploy owner address.
func (c Config) OwnerHash() (util.Uint160, error) {
	if c.Owner == "" {
		return util.Uint160{}, fmt.Errorf("missing owner address")
	}

	h, err := address.StringToUint160(c.Owner)
	if err != nil {
		return h, fmt.Errorf("decode owner address '%s': %w", c.Owner, err)
	}

	return h, nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	lvl := zapcore.InfoLevel
	if c.LogLevel == "" {
		return lvl, nil
	}

	err := lvl.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return lvl, fmt.Errorf("invalid log level '%s': %w", c.LogLevel, err)
	}

	return lvl, nil
}
