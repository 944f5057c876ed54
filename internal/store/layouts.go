package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/playpool/aimline/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// LayoutStore keeps profiles and their named layouts in PostgreSQL.
type LayoutStore struct {
	db *sqlx.DB
}

func NewLayoutStore(db *sqlx.DB) *LayoutStore {
	return &LayoutStore{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateProfile registers a new profile with a bcrypt-hashed PIN.
func (s *LayoutStore) CreateProfile(ctx context.Context, name, pin string) (*models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	var p models.Profile
	err = s.db.GetContext(ctx, &p, `
		INSERT INTO profiles (name, pin_hash, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, name, pin_hash, created_at, updated_at
	`, strings.TrimSpace(name), string(hash))
	if isUniqueViolation(err) {
		return nil, ErrProfileExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	log.Printf("[STORE] created profile %d (%s)", p.ID, p.Name)
	return &p, nil
}

// UpsertProfile creates the profile or resets its PIN. Used for seeding.
func (s *LayoutStore) UpsertProfile(ctx context.Context, name, pin string) (*models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	var p models.Profile
	err = s.db.GetContext(ctx, &p, `
		INSERT INTO profiles (name, pin_hash, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET
			pin_hash = EXCLUDED.pin_hash,
			updated_at = NOW()
		RETURNING id, name, pin_hash, created_at, updated_at
	`, strings.TrimSpace(name), string(hash))
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &p, nil
}

// Authenticate checks a name and PIN. Unknown names and wrong PINs both
// return ErrInvalidCredentials.
func (s *LayoutStore) Authenticate(ctx context.Context, name, pin string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.GetContext(ctx, &p, `SELECT id, name, pin_hash, created_at, updated_at FROM profiles WHERE name=$1`, strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PINHash), []byte(pin)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &p, nil
}

// ListLayouts returns a profile's layouts, most recently updated first.
func (s *LayoutStore) ListLayouts(ctx context.Context, profileID int) ([]models.Layout, error) {
	layouts := []models.Layout{}
	err := s.db.SelectContext(ctx, &layouts, `
		SELECT id, profile_id, name, snapshot, created_at, updated_at
		FROM layouts WHERE profile_id=$1
		ORDER BY updated_at DESC, name
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	return layouts, nil
}

// GetLayout returns the stored snapshot of one layout.
func (s *LayoutStore) GetLayout(ctx context.Context, profileID int, name string) (*models.Layout, error) {
	var l models.Layout
	err := s.db.GetContext(ctx, &l, `
		SELECT id, profile_id, name, snapshot, created_at, updated_at
		FROM layouts WHERE profile_id=$1 AND name=$2
	`, profileID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get layout: %w", err)
	}
	return &l, nil
}

// SaveLayout inserts or replaces a named layout.
func (s *LayoutStore) SaveLayout(ctx context.Context, profileID int, name string, snapshot []byte) (*models.Layout, error) {
	var l models.Layout
	// jsonb takes the snapshot as text; a []byte would be sent as bytea.
	err := s.db.GetContext(ctx, &l, `
		INSERT INTO layouts (profile_id, name, snapshot, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (profile_id, name) DO UPDATE SET
			snapshot = EXCLUDED.snapshot,
			updated_at = NOW()
		RETURNING id, profile_id, name, snapshot, created_at, updated_at
	`, profileID, name, string(snapshot))
	if err != nil {
		return nil, fmt.Errorf("save layout: %w", err)
	}
	log.Printf("[STORE] saved layout %q for profile %d", name, profileID)
	return &l, nil
}

// DeleteLayout removes a layout. Deleting a missing layout is ErrNotFound.
func (s *LayoutStore) DeleteLayout(ctx context.Context, profileID int, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE profile_id=$1 AND name=$2`, profileID, name)
	if err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
