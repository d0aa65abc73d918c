package preset

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store persists presets in SQLite, keyed by preset ID.
type Store struct {
	db *sql.DB
}

// NewStore creates a preset store using the provided database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save inserts or replaces a preset. An empty ID is assigned a new UUID;
// a zero CreatedAt is stamped with the current time.
func (s *Store) Save(p *Preset) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO presets (id, name, payload, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			payload = excluded.payload
	`, p.ID, p.Name, string(payload), p.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}

	return nil
}

// Get resolves a preset ID. Returns nil (and no error) when the preset does
// not exist - a schedule's preset reference may dangle after deletion.
func (s *Store) Get(id string) (*Preset, error) {
	var payload string

	err := s.db.QueryRow(`
		SELECT payload FROM presets WHERE id = ?
	`, id).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}

	var p Preset
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preset: %w", err)
	}

	return &p, nil
}

// Delete removes a preset. Returns true if the preset existed.
func (s *Store) Delete(id string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete preset: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// List returns all presets ordered by creation time.
func (s *Store) List() ([]*Preset, error) {
	rows, err := s.db.Query(`
		SELECT payload FROM presets ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	var presets []*Preset
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		var p Preset
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preset: %w", err)
		}
		presets = append(presets, &p)
	}

	return presets, rows.Err()
}
