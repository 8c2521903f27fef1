package session

import "context"

// CredentialStore persists credential records by identifier. Implementations
// provide their own mutual exclusion.
type CredentialStore interface {
	// Save writes record under id, replacing any previous record.
	Save(ctx context.Context, id string, record []byte) error
	// Retrieve returns the record stored under id, or (nil, nil) when
	// there is none.
	Retrieve(ctx context.Context, id string) ([]byte, error)
	// Clear removes the record stored under id. Clearing a missing record
	// is not an error.
	Clear(ctx context.Context, id string) error
}
