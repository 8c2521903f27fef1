package credstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/kbukum/authclient/logger"
)

// BadgerConfig configures the embedded on-disk store.
type BadgerConfig struct {
	// Dir is the database directory. Defaults to <user config dir>/authclient/credentials.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// InMemory keeps the database in memory. Dir is ignored.
	InMemory bool `yaml:"in_memory" mapstructure:"in_memory"`

	// SyncWrites fsyncs every write.
	SyncWrites bool `yaml:"sync_writes" mapstructure:"sync_writes"`

	// TTL expires records after the given duration. Zero keeps them forever.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills in the default directory.
func (c *BadgerConfig) ApplyDefaults() {
	if c.Dir == "" && !c.InMemory {
		if base, err := os.UserConfigDir(); err == nil {
			c.Dir = filepath.Join(base, "authclient", "credentials")
		}
	}
}

// Validate checks that a directory is set for on-disk databases.
func (c *BadgerConfig) Validate() error {
	if c.Dir == "" && !c.InMemory {
		return errors.New("badger: dir is required")
	}
	if c.TTL < 0 {
		return errors.New("badger: ttl must not be negative")
	}
	return nil
}

// Badger stores records in an embedded Badger database so a session
// survives process restarts.
type Badger struct {
	db     *badger.DB
	prefix string
	ttl    time.Duration
	log    *logger.Logger
	once   sync.Once
}

var _ Store = (*Badger)(nil)

// NewBadger opens or creates the database.
func NewBadger(cfg BadgerConfig, prefix string, log *logger.Logger) (*Badger, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = logger.OrNop(log)

	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(&badgerLogger{log: log.WithComponent("badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}
	log.Debug("badger store opened", logger.Fields("dir", cfg.Dir, "in_memory", cfg.InMemory))
	return &Badger{db: db, prefix: prefix, ttl: cfg.TTL, log: log}, nil
}

// Save stores record under id.
func (b *Badger) Save(_ context.Context, id string, record []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(fullKey(b.prefix, id)), record)
		if b.ttl > 0 {
			e = e.WithTTL(b.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("badger save %q: %w", id, err)
	}
	return nil
}

// Retrieve returns the record under id, or nil when the key is missing.
func (b *Badger) Retrieve(_ context.Context, id string) ([]byte, error) {
	var rec []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(fullKey(b.prefix, id)))
		if err != nil {
			return err
		}
		rec, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger retrieve %q: %w", id, err)
	}
	return rec, nil
}

// Clear deletes the record under id.
func (b *Badger) Clear(_ context.Context, id string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(fullKey(b.prefix, id)))
	})
	if err != nil {
		return fmt.Errorf("badger clear %q: %w", id, err)
	}
	return nil
}

// Ping reports an error once the database is closed.
func (b *Badger) Ping(context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

// Close closes the database. Safe to call multiple times.
func (b *Badger) Close() error {
	var err error
	b.once.Do(func() { err = b.db.Close() })
	return err
}

// badgerLogger adapts the zerolog wrapper to Badger's Logger interface.
// Badger is chatty at info level, so info lines are logged as debug.
type badgerLogger struct {
	log *logger.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
