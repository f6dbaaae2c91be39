package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/banshee-data/maneuver/internal/gnb"
)

func TestDefaultClassifierConfig(t *testing.T) {
	cfg := DefaultClassifierConfig()

	if cfg.FeatureCount == nil || *cfg.FeatureCount != 4 {
		t.Errorf("Expected FeatureCount 4, got %v", cfg.FeatureCount)
	}
	if cfg.VarianceFloor == nil || *cfg.VarianceFloor != 0 {
		t.Errorf("Expected VarianceFloor 0, got %v", cfg.VarianceFloor)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	if cfg.GetLabels() != gnb.DefaultLabels {
		t.Errorf("GetLabels() = %v, want %v", cfg.GetLabels(), gnb.DefaultLabels)
	}
	if cfg.GetTrainStates() != "data/train_states.txt" {
		t.Errorf("GetTrainStates() = %q", cfg.GetTrainStates())
	}
	if cfg.GetWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("GetWorkers() = %d, want %d", cfg.GetWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestEmptyClassifierConfig_Getters(t *testing.T) {
	cfg := EmptyClassifierConfig()

	if cfg.GetFeatureCount() != 4 {
		t.Errorf("GetFeatureCount() = %d, want 4", cfg.GetFeatureCount())
	}
	if cfg.GetVarianceFloor() != 0 {
		t.Errorf("GetVarianceFloor() = %f, want 0", cfg.GetVarianceFloor())
	}
	if cfg.GetTrace() {
		t.Error("GetTrace() = true, want false")
	}
	if cfg.GetDatabasePath() != "" || cfg.GetReportDir() != "" {
		t.Errorf("expected empty outputs, got db=%q report=%q", cfg.GetDatabasePath(), cfg.GetReportDir())
	}
	if cfg.GetVelocityUnit() != "mps" {
		t.Errorf("GetVelocityUnit() = %q, want mps", cfg.GetVelocityUnit())
	}
	if cfg.GetTestLabels() != "data/test_labels.txt" {
		t.Errorf("GetTestLabels() = %q", cfg.GetTestLabels())
	}
}

func TestLoadClassifierConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "maneuver.json")

	testJSON := `{
  "feature_count": 2,
  "labels": ["a", "b", "c"],
  "variance_floor": 0.001,
  "workers": 3,
  "train_states": "/tmp/states.txt",
  "database_path": "/tmp/maneuver.db"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadClassifierConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetFeatureCount() != 2 {
		t.Errorf("GetFeatureCount() = %d, want 2", cfg.GetFeatureCount())
	}
	if want := (gnb.LabelSet{"a", "b", "c"}); cfg.GetLabels() != want {
		t.Errorf("GetLabels() = %v, want %v", cfg.GetLabels(), want)
	}
	if cfg.GetVarianceFloor() != 0.001 {
		t.Errorf("GetVarianceFloor() = %f, want 0.001", cfg.GetVarianceFloor())
	}
	if cfg.GetWorkers() != 3 {
		t.Errorf("GetWorkers() = %d, want 3", cfg.GetWorkers())
	}
	if cfg.GetTrainStates() != "/tmp/states.txt" {
		t.Errorf("GetTrainStates() = %q", cfg.GetTrainStates())
	}
	// Unset paths keep their defaults.
	if cfg.GetTrainLabels() != "data/train_labels.txt" {
		t.Errorf("GetTrainLabels() = %q", cfg.GetTrainLabels())
	}
	if cfg.GetDatabasePath() != "/tmp/maneuver.db" {
		t.Errorf("GetDatabasePath() = %q", cfg.GetDatabasePath())
	}
}

func TestLoadClassifierConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("cfg.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "missing.json"), "failed to stat"},
		{"bad json", write("bad.json", "{"), "failed to parse"},
		{"zero features", write("zero.json", `{"feature_count": 0}`), "feature_count"},
		{"two labels", write("labels.json", `{"labels": ["a", "b"]}`), "exactly 3"},
		{"duplicate labels", write("dup.json", `{"labels": ["a", "a", "b"]}`), "more than once"},
		{"negative floor", write("floor.json", `{"variance_floor": -1}`), "variance_floor"},
		{"negative workers", write("workers.json", `{"workers": -1}`), "workers"},
		{"unknown unit", write("unit.json", `{"velocity_unit": "knots"}`), "velocity_unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadClassifierConfig(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadClassifierConfig_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.json")
	big := make([]byte, 1024*1024+1)
	for i := range big {
		big[i] = ' '
	}
	if err := os.WriteFile(p, big, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadClassifierConfig(p); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected too large error, got %v", err)
	}
}

func TestClassifierConfig_NewClassifier(t *testing.T) {
	cfg := EmptyClassifierConfig()
	cfg.FeatureCount = ptrInt(3)
	cfg.Labels = []string{"x", "y", "z"}
	cfg.Trace = ptrBool(true)

	c, err := cfg.NewClassifier()
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	if c.FeatureCount() != 3 {
		t.Errorf("FeatureCount() = %d, want 3", c.FeatureCount())
	}
	if c.Labels() != (gnb.LabelSet{"x", "y", "z"}) {
		t.Errorf("Labels() = %v", c.Labels())
	}
}

func TestClassifierConfig_NewClassifierRejectsBadFloor(t *testing.T) {
	cfg := EmptyClassifierConfig()
	cfg.VarianceFloor = ptrFloat64(-0.5)

	_, err := cfg.NewClassifier()
	if !errors.Is(err, gnb.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestRepositoryDefaultConfig(t *testing.T) {
	cfg, err := LoadClassifierConfig(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Fatalf("load %s: %v", DefaultConfigPath, err)
	}

	def := DefaultClassifierConfig()
	if cfg.GetFeatureCount() != def.GetFeatureCount() {
		t.Errorf("feature_count = %d, want %d", cfg.GetFeatureCount(), def.GetFeatureCount())
	}
	if cfg.GetLabels() != def.GetLabels() {
		t.Errorf("labels = %v, want %v", cfg.GetLabels(), def.GetLabels())
	}
	if cfg.GetVarianceFloor() != def.GetVarianceFloor() {
		t.Errorf("variance_floor = %g, want %g", cfg.GetVarianceFloor(), def.GetVarianceFloor())
	}
	if cfg.GetVelocityUnit() != def.GetVelocityUnit() {
		t.Errorf("velocity_unit = %q, want %q", cfg.GetVelocityUnit(), def.GetVelocityUnit())
	}
	if cfg.GetTrainStates() != def.GetTrainStates() || cfg.GetTestLabels() != def.GetTestLabels() {
		t.Errorf("data paths differ from defaults: %q %q", cfg.GetTrainStates(), cfg.GetTestLabels())
	}
	if cfg.GetWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("workers 0 should mean GOMAXPROCS, got %d", cfg.GetWorkers())
	}
}
