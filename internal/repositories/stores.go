package repositories

import (
	"context"

	"vibespace/internal/models"
)

// TenantStore is the per-PIN record store. Schema saves must preserve
// the document-tree side of the record and vice versa; both engines
// persist into the same record, so implementations do a read-merge-write
// at the storage boundary.
type TenantStore interface {
	LoadState(ctx context.Context, pin string) (*models.TenantState, error)
	LoadSchemas(ctx context.Context, pin string) (map[string]*models.Database, error)
	SaveSchemas(ctx context.Context, pin string, dbs map[string]*models.Database) error
	LoadDocs(ctx context.Context, pin string) (map[string]*models.DocFolder, map[string]*models.Document, error)
	SaveDocs(ctx context.Context, pin string, folders map[string]*models.DocFolder, documents map[string]*models.Document) error
}

// ShareStore is the global token-to-capability mapping, independent of
// any single tenant record. Missing and malformed entries both read as
// not found.
type ShareStore interface {
	Put(ctx context.Context, share *models.DocShare) error
	Get(ctx context.Context, token string) (*models.DocShare, error)
}
