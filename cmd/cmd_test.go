package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/tabrhythm/config"
	"github.com/jsphweid/tabrhythm/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValues(t *testing.T) {
	values := []model.RhythmValue{
		{Duration: 48, NoteIndex: 0},
		{Duration: 12, NoteIndex: 0},
		{Duration: 36, NoteIndex: 1},
		{Duration: 96, NoteIndex: 2},
	}
	assert.Equal(t, "48~12 36 96", FormatValues(values))
	assert.Equal(t, "", FormatValues(nil))
}

func post(router http.Handler, target string, body []byte) *http.Response {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Result()
}

func TestHandleQuantize(t *testing.T) {
	body, err := json.Marshal(model.QuantizeRequestBody{Durations: []float64{1.01, 0.99, 1, 1}})
	require.NoError(t, err)
	resp := post(NewRouter(nil), "/quantize", body)

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	var res model.QuantizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal([]model.RhythmValue{
		{Duration: 48, NoteIndex: 0},
		{Duration: 48, NoteIndex: 1},
		{Duration: 48, NoteIndex: 2},
		{Duration: 48, NoteIndex: 3},
	}, res.Values)
}

func TestHandleQuantizeRejectsZeroSum(t *testing.T) {
	resp := post(NewRouter(nil), "/quantize", []byte(`{"durations": [0, 0]}`))

	assert := assert.New(t)
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	var res model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Contains(res.Error, "zero")
}

func TestHandleConvert(t *testing.T) {
	body, err := os.ReadFile("../arrangement/testdata/simple.json")
	require.NoError(t, err)
	router := NewRouter(nil)
	resp := post(router, "/convert?difficulty=0", body)

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	var res model.ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Len(res.Track.Bars, 2)
	assert.Equal(0, res.Track.DifficultyLevel)
	assert.NotEmpty(res.Diagnostics)

	resp = post(router, "/convert?difficulty=hard", body)
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestRouterUsesItsConfig(t *testing.T) {
	c := config.Default()
	c.Quantize.MeasureDuration = 96
	c.Convert.Difficulty = 0
	router := NewRouter(c)

	resp := post(router, "/quantize", []byte(`{"durations": [1, 1, 1]}`))
	var res model.QuantizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, []int{32, 32, 32}, []int{res.Values[0].Duration, res.Values[1].Duration, res.Values[2].Duration})

	body, err := os.ReadFile("../arrangement/testdata/simple.json")
	require.NoError(t, err)
	resp = post(router, "/convert", body)
	var converted model.ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&converted))
	assert.Equal(t, 0, converted.Track.DifficultyLevel)
}

func TestRouter(t *testing.T) {
	router := NewRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/quantize", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestConvertWritesFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TABRHYTHM_OUT", dir)

	require.NoError(t, Convert("../arrangement/testdata/simple.json", 1, "", midiAutoName))

	assert := assert.New(t)
	var track model.Track
	data, err := os.ReadFile(filepath.Join(dir, "simple.track.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &track))
	assert.Equal("Simple Song - Lead", track.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var midis int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".mid") {
			midis++
		}
	}
	assert.Equal(1, midis)
}
