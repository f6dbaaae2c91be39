package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// EvaluationRun records the accuracy of a classifier trained on one dataset
// and scored on another.
type EvaluationRun struct {
	EvaluationID  string          `json:"evaluation_id"`
	TrainDataset  string          `json:"train_dataset"`
	TestDataset   string          `json:"test_dataset"`
	FeatureCount  int             `json:"feature_count"`
	VarianceFloor float64         `json:"variance_floor"`
	Correct       int             `json:"correct"`
	Total         int             `json:"total"`
	Accuracy      float64         `json:"accuracy"`
	ResultJSON    json.RawMessage `json:"result_json,omitempty"`
	CreatedAt     int64           `json:"created_at"`
}

// EvaluationStore provides persistence for evaluation runs.
type EvaluationStore struct {
	db *sql.DB
}

// NewEvaluationStore creates a new EvaluationStore.
func NewEvaluationStore(db *DB) *EvaluationStore {
	return &EvaluationStore{db: db.DB}
}

// Insert persists a new evaluation run. If EvaluationID is empty, a UUID is generated.
func (s *EvaluationStore) Insert(run *EvaluationRun) error {
	if run.EvaluationID == "" {
		run.EvaluationID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = clock.Now().UnixNano()
	}

	var resultStr interface{}
	if len(run.ResultJSON) > 0 {
		resultStr = string(run.ResultJSON)
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO maneuver_evaluations (
				evaluation_id, train_dataset, test_dataset, feature_count, variance_floor,
				correct, total, accuracy, result_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.EvaluationID, run.TrainDataset, run.TestDataset, run.FeatureCount, run.VarianceFloor,
			run.Correct, run.Total, run.Accuracy, resultStr, run.CreatedAt,
		)
		return err
	})
}

const evaluationColumns = `
	evaluation_id, train_dataset, test_dataset, feature_count, variance_floor,
	correct, total, accuracy, result_json, created_at`

// Get returns a single evaluation run by ID.
func (s *EvaluationStore) Get(evaluationID string) (*EvaluationRun, error) {
	row := s.db.QueryRow(`SELECT `+evaluationColumns+`
		FROM maneuver_evaluations
		WHERE evaluation_id = ?`, evaluationID)

	run, err := scanEvaluation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("evaluation %s not found", evaluationID)
		}
		return nil, fmt.Errorf("scan evaluation: %w", err)
	}
	return run, nil
}

// List returns all evaluation runs, newest first.
func (s *EvaluationStore) List() ([]*EvaluationRun, error) {
	rows, err := s.db.Query(`SELECT ` + evaluationColumns + `
		FROM maneuver_evaluations
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var runs []*EvaluationRun
	for rows.Next() {
		run, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (*EvaluationRun, error) {
	var r EvaluationRun
	var resultStr sql.NullString
	err := row.Scan(
		&r.EvaluationID, &r.TrainDataset, &r.TestDataset, &r.FeatureCount, &r.VarianceFloor,
		&r.Correct, &r.Total, &r.Accuracy, &resultStr, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if resultStr.Valid {
		r.ResultJSON = json.RawMessage(resultStr.String)
	}
	return &r, nil
}
