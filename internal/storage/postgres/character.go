package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/steelkilt/internal/game/character"
	"github.com/cory-johannsen/steelkilt/internal/game/wound"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when a character name is already stored.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRepository stores character snapshots as JSONB rows.
//
// The wound counters are also kept in their own columns so that queries over
// combat state do not have to unpack the snapshot.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts c. A nil ID is replaced with a fresh one.
//
// Precondition: c must be non-nil with a non-empty Name.
// Postcondition: Returns the stored character, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	snapshot, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding character %q: %w", c.Name, err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(id, name, wounds_light, wounds_severe, wounds_critical, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING snapshot`,
		c.ID, c.Name, c.Wounds.Light, c.Wounds.Severe, c.Wounds.Critical, snapshot,
	)
	out, err := scanSnapshot(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByID returns the character with the given ID.
//
// Postcondition: Returns the character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `SELECT snapshot FROM characters WHERE id = $1`, id)
	out, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character %s: %w", id, err)
	}
	return out, nil
}

// GetByName returns the character with the given name.
//
// Postcondition: Returns the character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (*character.Character, error) {
	row := r.db.QueryRow(ctx, `SELECT snapshot FROM characters WHERE name = $1`, name)
	out, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character %q: %w", name, err)
	}
	return out, nil
}

// List returns every stored character ordered by name.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `SELECT snapshot FROM characters ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	var chars []*character.Character
	for rows.Next() {
		c, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		chars = append(chars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating characters: %w", err)
	}
	return chars, nil
}

// Update replaces the stored snapshot for c.ID.
//
// Precondition: c must be non-nil.
// Postcondition: Returns ErrCharacterNotFound if no row matches, or
// ErrCharacterNameTaken if the new name collides.
func (r *CharacterRepository) Update(ctx context.Context, c *character.Character) error {
	snapshot, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding character %q: %w", c.Name, err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE characters
		SET name = $2, wounds_light = $3, wounds_severe = $4, wounds_critical = $5,
		    snapshot = $6, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Wounds.Light, c.Wounds.Severe, c.Wounds.Critical, snapshot,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrCharacterNameTaken
		}
		return fmt.Errorf("updating character %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// SaveWounds persists only the wound state of the character with the given ID.
// The wound columns and the snapshot's wounds field change together.
//
// Postcondition: Returns ErrCharacterNotFound if no row matches.
func (r *CharacterRepository) SaveWounds(ctx context.Context, id uuid.UUID, w wound.Tracker) error {
	encoded, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding wounds: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE characters
		SET wounds_light = $2, wounds_severe = $3, wounds_critical = $4,
		    snapshot = jsonb_set(snapshot, '{wounds}', $5::jsonb),
		    updated_at = NOW()
		WHERE id = $1`,
		id, w.Light, w.Severe, w.Critical, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("saving wounds for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// Delete removes the character with the given ID.
//
// Postcondition: Returns ErrCharacterNotFound if no row matches.
func (r *CharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

func scanSnapshot(row pgx.Row) (*character.Character, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	var c character.Character
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &c, nil
}

// isDuplicateKeyError reports whether err is a PostgreSQL unique_violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
