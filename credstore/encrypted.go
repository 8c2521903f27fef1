package credstore

import (
	"context"
	"fmt"

	"github.com/kbukum/authclient/encryption"
)

// Encrypted seals records before they reach the wrapped store. The
// credential id is bound to each record as additional data.
type Encrypted struct {
	Store
	enc encryption.Encryptor
}

// NewEncrypted wraps store with enc.
func NewEncrypted(store Store, enc encryption.Encryptor) *Encrypted {
	return &Encrypted{Store: store, enc: enc}
}

// Save seals record and stores it under id.
func (e *Encrypted) Save(ctx context.Context, id string, record []byte) error {
	sealed, err := e.enc.Seal(record, []byte(id))
	if err != nil {
		return fmt.Errorf("seal %q: %w", id, err)
	}
	return e.Store.Save(ctx, id, sealed)
}

// Retrieve loads and opens the record under id.
func (e *Encrypted) Retrieve(ctx context.Context, id string) ([]byte, error) {
	sealed, err := e.Store.Retrieve(ctx, id)
	if err != nil || sealed == nil {
		return nil, err
	}
	rec, err := e.enc.Open(sealed, []byte(id))
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", id, err)
	}
	return rec, nil
}
