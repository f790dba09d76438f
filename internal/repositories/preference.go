package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/taskview/internal/shared"
)

// SelectedServiceKey stores the service picked in the new-task form.
const SelectedServiceKey = "selected-service"

// Preference is one stored key/value pair.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// PreferenceRepository persists UI preferences.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a new [PreferenceRepository] with the given database connection
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get retrieves the preference stored under key
func (r *PreferenceRepository) Get(key string) (*Preference, error) {
	var p Preference
	err := r.db.QueryRow(
		`SELECT key, value, updated_at FROM preferences WHERE key = ?`, key,
	).Scan(&p.Key, &p.Value, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPreferenceNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preference: %w", err)
	}
	return &p, nil
}

// Set stores value under key, replacing any previous value
func (r *PreferenceRepository) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: preference key", shared.ErrMissingArgument)
	}

	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store preference: %w", err)
	}
	return nil
}

// Delete removes key. Removing an absent key is not an error.
func (r *PreferenceRepository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	return nil
}

// List returns every preference ordered by key
func (r *PreferenceRepository) List() ([]Preference, error) {
	rows, err := r.db.Query(`SELECT key, value, updated_at FROM preferences ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Key, &p.Value, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

// SelectedService returns the stored service, or fallback when none is stored
func (r *PreferenceRepository) SelectedService(fallback string) (string, error) {
	p, err := r.Get(SelectedServiceKey)
	if errors.Is(err, shared.ErrPreferenceNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	return p.Value, nil
}

// SetSelectedService stores the service picked in the new-task form
func (r *PreferenceRepository) SetSelectedService(service string) error {
	return r.Set(SelectedServiceKey, service)
}
