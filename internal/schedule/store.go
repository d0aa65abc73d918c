package schedule

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Store persists the schedule collection as an ordered sequence in SQLite.
// Only the durable fields are stored; runtime dedup state never round-trips.
type Store struct {
	db *sql.DB
}

// NewStore creates a schedule store using the provided database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save replaces the persisted collection with the given one, preserving
// iteration order through the position column.
func (st *Store) Save(schedules []*Schedule) error {
	tx, err := st.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM schedules`); err != nil {
		return fmt.Errorf("failed to clear schedules: %w", err)
	}

	for i, s := range schedules {
		trigger, err := json.Marshal(s.Trigger)
		if err != nil {
			return fmt.Errorf("failed to marshal trigger: %w", err)
		}

		enabled := 0
		if s.IsEnabled {
			enabled = 1
		}

		_, err = tx.Exec(`
			INSERT INTO schedules (id, position, name, trigger, preset_id, is_enabled, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, s.ID, i, s.Name, string(trigger), s.PresetID, enabled, s.CreatedAt.Unix())
		if err != nil {
			return fmt.Errorf("failed to insert schedule %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// Load reads the persisted collection in order. A malformed record is logged,
// dropped from the database, and skipped, so one bad row never loses the rest
// of the user's configuration.
func (st *Store) Load() ([]*Schedule, error) {
	rows, err := st.db.Query(`
		SELECT id, name, trigger, preset_id, is_enabled, created_at
		FROM schedules ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*Schedule
	var malformed []string

	for rows.Next() {
		var (
			s          Schedule
			triggerStr string
			enabled    int
			createdAt  int64
		)
		if err := rows.Scan(&s.ID, &s.Name, &triggerStr, &s.PresetID, &enabled, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}

		if err := json.Unmarshal([]byte(triggerStr), &s.Trigger); err != nil {
			log.Warn().
				Str("schedule_id", s.ID).
				Str("trigger", triggerStr).
				Err(err).
				Msg("Dropping malformed schedule record")
			malformed = append(malformed, s.ID)
			continue
		}

		s.IsEnabled = enabled != 0
		s.CreatedAt = time.Unix(createdAt, 0).UTC()
		schedules = append(schedules, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range malformed {
		if _, err := st.db.Exec(`DELETE FROM schedules WHERE id = ?`, id); err != nil {
			log.Warn().Str("schedule_id", id).Err(err).Msg("Failed to drop malformed record")
		}
	}

	return schedules, nil
}
