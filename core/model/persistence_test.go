package model

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/YuminosukeSato/biketrip/pkg/errors"
)

type testArtifact struct {
	ModelType string    `json:"model_type"`
	Mean      []float64 `json:"mean"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	want := testArtifact{ModelType: "StandardScaler", Mean: []float64{1.5, -2, 3.25}}

	for _, ext := range []string{".json", ".gob"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "artifact"+ext)
			if err := Save(path, want); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			var got testArtifact
			if err := Load(path, &got); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Load() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"models/scaler.json", FormatJSON, false},
		{"models/MODEL.JSON", FormatJSON, false},
		{"models/model.gob", FormatGob, false},
		{"models/ANN.h5", "", true},
		{"models/scalar.joblib", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	var got testArtifact
	err := Load(filepath.Join(t.TempDir(), "missing.json"), &got)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to open file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	var got testArtifact
	r := strings.NewReader(`{"model_type":"StandardScaler","mean":[1],"kernel":[[1]]}`)
	if err := LoadFromReader(&got, r, FormatJSON); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoadFromReaderCorrupt(t *testing.T) {
	var got testArtifact
	if err := LoadFromReader(&got, bytes.NewReader([]byte("not a gob stream")), FormatGob); err == nil {
		t.Error("expected error for corrupt gob stream")
	}
}

type checkedArtifact struct {
	ModelType string `json:"model_type"`
}

func (a *checkedArtifact) Validate() error {
	if a.ModelType != "MLPRegressor" {
		return errors.NewValueError("checkedArtifact", "unexpected model_type "+a.ModelType)
	}
	return nil
}

func TestLoadValidatesArtifact(t *testing.T) {
	var ok checkedArtifact
	if err := LoadFromReader(&ok, strings.NewReader(`{"model_type":"MLPRegressor"}`), FormatJSON); err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}

	var bad checkedArtifact
	err := LoadFromReader(&bad, strings.NewReader(`{"model_type":"StandardScaler"}`), FormatJSON)
	var valErr *errors.ValueError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValueError from Validate, got %v", err)
	}
}
