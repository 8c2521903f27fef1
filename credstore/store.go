package credstore

import (
	"context"
	"fmt"

	"github.com/kbukum/authclient/encryption"
	"github.com/kbukum/authclient/logger"
	"github.com/kbukum/authclient/session"
)

// Store is a CredentialStore backend with a connection lifecycle.
type Store interface {
	session.CredentialStore
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend. It is safe to call more than once.
	Close() error
}

// New opens the store selected by cfg.Driver, wrapped in an Encrypted
// store when encryption is enabled.
func New(cfg Config, log *logger.Logger) (Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("credstore config: %w", err)
	}
	log = logger.OrNop(log).WithComponent("credstore")

	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case DriverMemory:
		store = NewMemory()
	case DriverRedis:
		store, err = NewRedis(cfg.Redis, cfg.KeyPrefix, log)
	case DriverBadger:
		store, err = NewBadger(cfg.Badger, cfg.KeyPrefix, log)
	default:
		err = fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("credstore %s: %w", cfg.Driver, err)
	}

	if cfg.Encryption.Enabled {
		enc, err := encryption.New(cfg.Encryption.Key, encryption.WithAlgorithm(encryption.Algorithm(cfg.Encryption.Algorithm)))
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("credstore encryption: %w", err)
		}
		store = NewEncrypted(store, enc)
	}

	log.Info("credential store opened", logger.Fields(
		"driver", cfg.Driver,
		"encrypted", cfg.Encryption.Enabled,
	))
	return store, nil
}

func fullKey(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + ":" + id
}
