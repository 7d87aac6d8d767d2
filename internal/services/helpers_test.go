package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coinfolio/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func ptr(v float64) *float64 {
	return &v
}

// fakeAdvisor records prompts and returns a canned advisory or an error.
type fakeAdvisor struct {
	mu    sync.Mutex
	calls []string
	text  string
	err   error
}

func (f *fakeAdvisor) Advise(_ context.Context, baseMessage, portfolioSummary string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, baseMessage+" | "+portfolioSummary)
	return f.text, f.err
}

func (f *fakeAdvisor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
