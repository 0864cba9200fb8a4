package registrations

import (
	"context"

	"github.com/jornageo/registration/internal/models"
)

// Store is the durable key-value store of registrations, keyed by email.
// There are no secondary indexes and no range queries.
type Store interface {
	// Put writes reg, overwriting any record with the same email.
	Put(ctx context.Context, reg *models.Registration) error
	// PutIfAbsent writes reg only if no record has its email; otherwise it returns ErrDuplicate.
	PutIfAbsent(ctx context.Context, reg *models.Registration) error
	// Get returns the record for email, or nil if there is none.
	Get(ctx context.Context, email string) (*models.Registration, error)
	// Scan returns every record, unordered. Paging is drained internally.
	Scan(ctx context.Context) ([]models.Registration, error)
}
