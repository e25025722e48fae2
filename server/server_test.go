package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/YuminosukeSato/biketrip/inference"
	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/pkg/log"
	"github.com/YuminosukeSato/biketrip/trip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *log.TestLogger) {
	t.Helper()
	p, err := inference.Load("../inference/testdata/scaler.json", "../inference/testdata/model.json")
	require.NoError(t, err)
	logger, _ := log.NewTestLogger(log.LevelInfo)
	return New(p, logger, Options{Env: "test"}), logger
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func postJSON(s *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return do(s, req)
}

func postForm(s *Server, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(s, req)
}

func defaultForm() url.Values {
	values := url.Values{}
	defaults := trip.Default().Values()
	for i, name := range trip.FeatureNames {
		values.Set(name, strconv.FormatFloat(defaults[i], 'f', -1, 64))
	}
	return values
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP","env":"test"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	s, logger := newTestServer(t)

	w := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.True(t, logger.ContainsField(log.RequestIDKey, generated))

	const id = "6f1d6c2e-8a55-4c7b-9d0e-3b8f6a2c1d4e"
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	w = do(s, req)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = do(s, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestShowForm(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Enter the Deciding Factors:")
	assert.Contains(t, body, `name="Distance" step="any" value="8490"`)
	assert.Contains(t, body, `name="Phour" min="0" max="23" step="1" value="19"`)
	assert.NotContains(t, body, "Here are the results:")
}

func TestSubmitForm(t *testing.T) {
	s, _ := newTestServer(t)
	w := postForm(s, defaultForm())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Here are the results:")
	assert.Contains(t, w.Body.String(), "The Duration predicted is 50 mins")
}

func TestSubmitFormValidation(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name    string
		mutate  func(url.Values)
		message string
	}{
		{"hour above range", func(v url.Values) { v.Set("Phour", "24") }, "Pickup Hour must be between 0 and 23"},
		{"minute below range", func(v url.Values) { v.Set("Dmin", "-1") }, "Dropoff Minute must be between 0 and 59"},
		{"missing field", func(v url.Values) { v.Del("Dust") }, "Dust is required"},
		{"not a number", func(v url.Values) { v.Set("Temp", "warm") }, "invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := defaultForm()
			tt.mutate(values)
			w := postForm(s, values)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
			assert.NotContains(t, w.Body.String(), "Here are the results:")
		})
	}
}

func TestPredictJSON(t *testing.T) {
	s, _ := newTestServer(t)
	body, err := json.Marshal(trip.Default())
	require.NoError(t, err)

	w := postJSON(s, "/api/v1/predict", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"duration_minutes":50}`, w.Body.String())
}

func TestPredictJSONLenientRanges(t *testing.T) {
	s, _ := newTestServer(t)
	f := trip.Default()
	f.PickupHour = 30
	f.DropoffMinute = 99
	body, err := json.Marshal(f)
	require.NoError(t, err)

	w := postJSON(s, "/api/v1/predict", string(body))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestPredictJSONMissingField(t *testing.T) {
	s, _ := newTestServer(t)
	w := postJSON(s, "/api/v1/predict", `{"distance": 8490}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), log.ErrorInvalidInput)
}

func TestPredictVector(t *testing.T) {
	s, logger := newTestServer(t)
	values := trip.Default().Values()

	body, _ := json.Marshal(map[string][]float64{"values": values[:]})
	w := postJSON(s, "/api/v1/predict/vector", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"duration_minutes":50}`, w.Body.String())

	body, _ = json.Marshal(map[string][]float64{"values": values[:9]})
	w = postJSON(s, "/api/v1/predict/vector", string(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, log.ErrorShapeMismatch, resp["code"])
	assert.Contains(t, resp["error"], "expected 10 features, got 9")
	assert.True(t, logger.ContainsMessage("request rejected"))
}

func TestFeatures(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(s, httptest.NewRequest(http.MethodGet, "/api/v1/features", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Features []featureInfo `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Features, trip.NumFeatures)
	assert.Equal(t, "Distance", resp.Features[0].Name)
	assert.Equal(t, 8490.0, resp.Features[0].Default)
	assert.Nil(t, resp.Features[0].Range)
	require.NotNil(t, resp.Features[3].Range)
	assert.Equal(t, 59.0, resp.Features[3].Range.Max)
}

func TestSweepChart(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sweep.png?feature=Temp&from=-10&to=35&steps=20", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	for _, query := range []string{"feature=Duration", "feature=Temp&steps=1", "feature=Temp&from=hot", ""} {
		w := do(s, httptest.NewRequest(http.MethodGet, "/api/v1/sweep.png?"+query, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

type failingPredictor struct{ err error }

func (f failingPredictor) Predict(trip.Features) (int, error)   { return 0, f.err }
func (f failingPredictor) PredictValues([]float64) (int, error) { return 0, f.err }
func (f failingPredictor) Raw(trip.Features) (float64, error)   { return 0, f.err }

func TestPredictionErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"numerical", errors.NewNumericalInstabilityError("Truncate", nil), http.StatusUnprocessableEntity, log.ErrorNumerical},
		{"internal", errors.New("boom"), http.StatusInternalServerError, log.ErrorInternal},
	}

	body, _ := json.Marshal(trip.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(failingPredictor{err: tt.err}, nil, Options{})
			w := postJSON(s, "/api/v1/predict", string(body))

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}
}
