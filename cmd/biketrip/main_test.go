package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/biketrip/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestArtifacts(t *testing.T) {
	t.Helper()
	t.Setenv("SCALER_PATH", "../../inference/testdata/scaler.json")
	t.Setenv("MODEL_PATH", "../../inference/testdata/model.json")
	t.Setenv("LOG_LEVEL", "warn")
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestPredictCommand(t *testing.T) {
	useTestArtifacts(t)

	code, out, _ := runCLI("predict")
	assert.Equal(t, 0, code)
	assert.Equal(t, "The Duration predicted is 50 mins\n", out)

	code, out, _ = runCLI("predict", "-json")
	assert.Equal(t, 0, code)
	assert.JSONEq(t, `{"duration_minutes":50}`, out)
}

func TestPredictCommandStrict(t *testing.T) {
	useTestArtifacts(t)

	code, _, _ := runCLI("predict", "-Phour", "30")
	assert.Equal(t, 0, code, "ranges are not enforced by default")

	code, _, stderr := runCLI("predict", "-strict", "-Phour", "30")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Phour")
}

func TestEvaluateCommand(t *testing.T) {
	useTestArtifacts(t)
	data := filepath.Join(t.TempDir(), "trips.csv")
	csv := "Duration,Distance,Haversine,Phour,Pmin,Dhour,Dmin,Temp,Humid,Solar,Dust\n" +
		"50,8490,3.400058,19,14,20,12,8.8,49,0.05,27\n" +
		"30,3523.8,1.8764,14.217,29.513,14.436,29.601,16.021,58.104,0.6283,37.941\n"
	require.NoError(t, os.WriteFile(data, []byte(csv), 0o600))

	code, out, stderr := runCLI("evaluate", "-data", data)
	require.Equal(t, 0, code, stderr)

	var report evaluation.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Samples)
	// Errors are 0 and 6 minutes.
	assert.InDelta(t, 18.0, report.MSE, 1e-9)
	assert.InDelta(t, 3.0, report.MAE, 1e-9)

	code, _, _ = runCLI("evaluate")
	assert.Equal(t, 1, code)
}

func TestSweepCommand(t *testing.T) {
	useTestArtifacts(t)
	out := filepath.Join(t.TempDir(), "temp.png")

	code, _, stderr := runCLI("sweep", "-feature", "Temp", "-from", "-10", "-to", "35", "-steps", "10", "-out", out)
	require.Equal(t, 0, code, stderr)

	png, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	code, _, _ = runCLI("sweep", "-feature", "Speed", "-out", out)
	assert.Equal(t, 1, code)
}

func TestLoadFailureExitsOne(t *testing.T) {
	useTestArtifacts(t)
	t.Setenv("MODEL_PATH", filepath.Join(t.TempDir(), "missing.json"))

	code, _, stderr := runCLI("predict")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to load model artifacts")
}

func TestUnknownCommand(t *testing.T) {
	useTestArtifacts(t)

	code, _, stderr := runCLI("train")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown command")
}
