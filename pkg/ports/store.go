package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// RecordStore defines the interface of the application record store.
// The wizard owns no state of its own: the store is the sole owner of
// persisted records and is consulted on every interaction.
type RecordStore interface {
	// Create allocates a record in its initial state and returns its id.
	Create(ctx context.Context) (string, error)

	// Get retrieves the full record.
	// Returns domain.ErrRecordNotFound if the id is unknown, and
	// domain.ErrCorruptRecord if the stored record cannot be interpreted.
	Get(ctx context.Context, id string) (domain.Record, error)

	// Patch merges the fields set in patch into the stored record.
	// Returns domain.ErrRecordNotFound if the id is unknown.
	Patch(ctx context.Context, id string, patch domain.Patch) error

	// List returns a summary of every record, in creation order.
	List(ctx context.Context) ([]domain.Summary, error)
}
