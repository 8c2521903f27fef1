package credstore

import (
	"github.com/kbukum/authclient/encryption"
	"github.com/kbukum/authclient/validation"
)

// Drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverBadger = "badger"
)

// Config selects and configures the credential store.
type Config struct {
	// Driver is memory, redis or badger. Defaults to memory.
	Driver string `yaml:"driver" mapstructure:"driver" validate:"required,oneof=memory redis badger"`

	// KeyPrefix namespaces credential ids in shared backends.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`

	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Badger     BadgerConfig     `yaml:"badger" mapstructure:"badger"`
	Encryption EncryptionConfig `yaml:"encryption" mapstructure:"encryption"`
}

// EncryptionConfig enables sealing records at rest.
type EncryptionConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Key       string `yaml:"key" mapstructure:"key" validate:"required_if=Enabled true"`
	Algorithm string `yaml:"algorithm" mapstructure:"algorithm" validate:"omitempty,oneof=aes-256-gcm chacha20-poly1305"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "authclient"
	}
	if c.Encryption.Enabled && c.Encryption.Algorithm == "" {
		c.Encryption.Algorithm = string(encryption.AlgorithmAESGCM)
	}
	switch c.Driver {
	case DriverRedis:
		c.Redis.ApplyDefaults()
	case DriverBadger:
		c.Badger.ApplyDefaults()
	}
}

// Validate checks the configuration of the selected driver.
func (c *Config) Validate() error {
	v := validation.New().Merge("", validation.Struct(c))
	switch c.Driver {
	case DriverRedis:
		v.Merge("redis", c.Redis.Validate())
	case DriverBadger:
		v.Merge("badger", c.Badger.Validate())
	}
	return v.Err()
}
