package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/config"
)

const poolYAML = `items:
  - id: Q1
    category: math
    domain: sat
    skill: algebra
    difficulty: 2
    correct_answer: A
  - id: Q2
    category: math
    domain: sat
    skill: geometry
    difficulty: 1
    correct_answer: B
`

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.DB = filepath.Join(t.TempDir(), "nested", "practiz.db")
	cfg.Listen = "127.0.0.1:0"

	var logs bytes.Buffer
	a, err := New(cfg, Options{LogWriter: &logs})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a, &logs
}

func TestImportFile(t *testing.T) {
	a, logs := newTestApp(t)
	path := filepath.Join(t.TempDir(), "pool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(poolYAML), 0o644))

	n, err := a.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := a.Store.Conn().CountItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Contains(t, logs.String(), "service=practiz")
}

func TestImportFile_Invalid(t *testing.T) {
	a, _ := newTestApp(t)
	path := filepath.Join(t.TempDir(), "pool.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items":[{"id":"Q1"}]}`), 0o644))

	_, err := a.ImportFile(context.Background(), path)
	assert.Error(t, err)
}

func TestNew_RejectsBadLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.DB = filepath.Join(t.TempDir(), "practiz.db")
	cfg.Log.Level = "loud"
	_, err := New(cfg, Options{})
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	a, _ := newTestApp(t)
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServe_StopsOnCancel(t *testing.T) {
	a, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
