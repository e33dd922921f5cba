package server

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/ru-numtext/numtext"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	cfg.Logger = slog.New(slog.DiscardHandler)
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestConvert(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodPost, "/v1/convert", `{"text":"привет сто двадцать пять"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[convertResponse](t, w)
	assert.Equal(t, "привет 125", resp.Text)
	require.Len(t, resp.Replacements, 1)
	assert.Equal(t, int64(125), resp.Replacements[0].Value)
	assert.Equal(t, "сто двадцать пять", resp.Replacements[0].Text)
}

func TestConvertNoNumerals(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodPost, "/v1/convert", `{"text":"обычный текст"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"text":"обычный текст","replacements":[]}`, w.Body.String())
}

func TestConvertSwapConverter(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})
	s.SetConverter(numtext.New(numtext.WithPunctuationSplit(true)))

	w := do(t, s.Handler(), http.MethodPost, "/v1/convert", `{"text":"двадцать пять, тридцать."}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "25, 30.", decode[convertResponse](t, w).Text)
}

func TestConvertBadRequests(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{MaxBodyBytes: 64})

	w := do(t, s.Handler(), http.MethodPost, "/v1/convert", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode[errorResponse](t, w).RequestID)

	big := `{"text":"` + strings.Repeat("сто ", 100) + `"}`
	w = do(t, s.Handler(), http.MethodPost, "/v1/convert", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestParse(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})

	tests := []struct {
		name   string
		body   string
		status int
		value  int64
	}{
		{"words", `{"words":["две","тысячи","триста"]}`, http.StatusOK, 2300},
		{"phrase", `{"phrase":"тысяча девятьсот восемьдесят четвёртый"}`, http.StatusOK, 1984},
		{"unknown word", `{"words":["сто","кот"]}`, http.StatusUnprocessableEntity, 0},
		{"not a phrase", `{"phrase":"кот"}`, http.StatusUnprocessableEntity, 0},
		{"empty", `{"words":[]}`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(t, s.Handler(), http.MethodPost, "/v1/parse", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.value, decode[parseResponse](t, w).Value)
			}
		})
	}
}

func TestWord(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodGet, "/v1/words/двадцатую", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[wordResponse](t, w)
	assert.True(t, resp.Numeral)
	assert.Equal(t, "OrdinalDerived", resp.Category)
	assert.Equal(t, int64(20), resp.Value)

	w = do(t, s.Handler(), http.MethodGet, "/v1/words/кот", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[wordResponse](t, w)
	assert.False(t, resp.Numeral)
	assert.Equal(t, "NotNumeral", resp.Category)
}

func TestDates(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})

	w := do(t, s.Handler(), http.MethodPost, "/v1/dates",
		`{"text":"встреча двадцать первого сентября 2026 года","ref":"2026-02-20T10:30:00Z"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []struct {
			Text string    `json:"text"`
			Type string    `json:"type"`
			Time time.Time `json:"time"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "двадцать первого сентября 2026 года", resp.Results[0].Text)
	assert.Equal(t, "Date", resp.Results[0].Type)
	assert.True(t, resp.Results[0].Time.Equal(time.Date(2026, 9, 21, 0, 0, 0, 0, time.UTC)))
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{RateLimit: 0.001, RateBurst: 2})

	assert.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, "/health", "").Code)
	w := do(t, s.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestGzip(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/v1/convert", bytes.NewBufferString(`{"text":"сто"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"text":"100"`)
}

func TestRecovery(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{})
	s.engine.GET("/panic", func(*gin.Context) { panic("boom") })

	w := do(t, s.Handler(), http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
}

func TestNewRejectsNegativeLimits(t *testing.T) {
	t.Parallel()
	_, err := New(Config{RateLimit: -1, Logger: slog.New(slog.DiscardHandler)})
	assert.Error(t, err)
}

func TestStartShutdown(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, Config{Port: "0", ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, s.IsRunning, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.IsRunning())
}
