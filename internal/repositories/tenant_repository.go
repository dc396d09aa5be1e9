package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vibespace/internal/models"
)

// TenantRepository keeps one jsonb record per PIN. An unparseable record
// is read as an empty state rather than failing the request.
type TenantRepository struct {
	pool *pgxpool.Pool
}

func NewTenantRepository(pool *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{pool: pool}
}

var _ TenantStore = (*TenantRepository)(nil)

const workspacesDDL = `
	CREATE TABLE IF NOT EXISTS workspaces (
		pin        TEXT PRIMARY KEY,
		state      JSONB NOT NULL DEFAULT '{}'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// EnsureSchema creates the workspaces table when missing. Called once at
// startup.
func (r *TenantRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, workspacesDDL); err != nil {
		return fmt.Errorf("failed to ensure workspaces table: %w", err)
	}
	return nil
}

func (r *TenantRepository) LoadState(ctx context.Context, pin string) (*models.TenantState, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT state FROM workspaces WHERE pin = $1`, pin).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewTenantState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace %s: %w", pin, err)
	}
	return decodeState(raw), nil
}

func (r *TenantRepository) LoadSchemas(ctx context.Context, pin string) (map[string]*models.Database, error) {
	state, err := r.LoadState(ctx, pin)
	if err != nil {
		return nil, err
	}
	return state.Databases, nil
}

func (r *TenantRepository) SaveSchemas(ctx context.Context, pin string, dbs map[string]*models.Database) error {
	return r.mergeSave(ctx, pin, func(state *models.TenantState) {
		state.Databases = dbs
	})
}

func (r *TenantRepository) LoadDocs(ctx context.Context, pin string) (map[string]*models.DocFolder, map[string]*models.Document, error) {
	state, err := r.LoadState(ctx, pin)
	if err != nil {
		return nil, nil, err
	}
	return state.Folders, state.Documents, nil
}

func (r *TenantRepository) SaveDocs(ctx context.Context, pin string, folders map[string]*models.DocFolder, documents map[string]*models.Document) error {
	return r.mergeSave(ctx, pin, func(state *models.TenantState) {
		state.Folders = folders
		state.Documents = documents
	})
}

// mergeSave re-reads the record under a row lock, applies the mutation
// to the freshly decoded state, and writes the whole record back. This
// is what keeps the schema side and the document side from clobbering
// each other: each save replaces only its own keys.
func (r *TenantRepository) mergeSave(ctx context.Context, pin string, apply func(*models.TenantState)) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin workspace tx: %w", err)
	}
	defer tx.Rollback(ctx)

	state := models.NewTenantState()
	var raw []byte
	err = tx.QueryRow(ctx, `SELECT state FROM workspaces WHERE pin = $1 FOR UPDATE`, pin).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// first write for this PIN creates the record
	case err != nil:
		return fmt.Errorf("failed to read workspace %s: %w", pin, err)
	default:
		state = decodeState(raw)
	}

	apply(state)

	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode workspace %s: %w", pin, err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO workspaces (pin, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (pin) DO UPDATE SET state = EXCLUDED.state, updated_at = now()
	`, pin, encoded)
	if err != nil {
		return fmt.Errorf("failed to write workspace %s: %w", pin, err)
	}
	return tx.Commit(ctx)
}

// decodeState degrades silently: a record that does not parse at all is
// an empty state, never an error.
func decodeState(raw []byte) *models.TenantState {
	state := models.NewTenantState()
	if err := json.Unmarshal(raw, state); err != nil {
		return models.NewTenantState()
	}
	return state
}
