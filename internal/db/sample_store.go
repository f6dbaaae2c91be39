package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/banshee-data/maneuver/internal/dataset"
)

// SampleStore persists labeled observations grouped into named datasets.
type SampleStore struct {
	db *sql.DB
}

// NewSampleStore creates a new SampleStore.
func NewSampleStore(db *DB) *SampleStore {
	return &SampleStore{db: db.DB}
}

// InsertSamples appends samples to the named dataset in one transaction,
// continuing the dataset's sequence so load order matches insert order.
func (s *SampleStore) InsertSamples(name string, samples []dataset.Sample) error {
	if name == "" {
		return fmt.Errorf("dataset name is required")
	}
	if len(samples) == 0 {
		return nil
	}

	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		var next int64
		if err := tx.QueryRow(
			`SELECT COALESCE(MAX(seq) + 1, 0) FROM maneuver_samples WHERE dataset = ?`, name,
		).Scan(&next); err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO maneuver_samples (dataset, seq, label, features_json, created_at)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		now := clock.Now().UnixNano()
		for i, sample := range samples {
			features, err := json.Marshal(sample.Observation)
			if err != nil {
				return fmt.Errorf("encode sample %d: %w", i, err)
			}
			if _, err := stmt.Exec(name, next+int64(i), sample.Label, string(features), now); err != nil {
				return fmt.Errorf("insert sample %d: %w", i, err)
			}
		}

		return tx.Commit()
	})
}

// LoadSet returns the named dataset in insertion order. Every stored
// observation must have featureCount features.
func (s *SampleStore) LoadSet(name string, featureCount int) (*dataset.Set, error) {
	rows, err := s.db.Query(`
		SELECT seq, label, features_json
		FROM maneuver_samples
		WHERE dataset = ?
		ORDER BY seq ASC`, name)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	set := &dataset.Set{}
	for rows.Next() {
		var (
			seq      int64
			label    string
			features string
		)
		if err := rows.Scan(&seq, &label, &features); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}

		var obs []float64
		if err := json.Unmarshal([]byte(features), &obs); err != nil {
			return nil, fmt.Errorf("decode sample %d: %w", seq, err)
		}
		if len(obs) != featureCount {
			return nil, fmt.Errorf("sample %d has %d features, want %d", seq, len(obs), featureCount)
		}

		set.Observations = append(set.Observations, obs)
		set.Labels = append(set.Labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("dataset %q not found", name)
	}
	return set, nil
}

// Datasets returns the names of all stored datasets, sorted.
func (s *SampleStore) Datasets() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT dataset FROM maneuver_samples ORDER BY dataset`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
