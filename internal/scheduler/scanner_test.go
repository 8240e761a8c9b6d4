package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/apps/vaccination"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/clock"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

// syncBuffer lets the test read while the scanner goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferLogger(buf io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func seed(t *testing.T) *store.MemoryStore {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()
	for _, email := range []string{"asha@example.com", "ravi@example.com"} {
		require.NoError(t, st.CreateUser(ctx, &models.User{Email: email}))
	}
	entries := []struct {
		email string
		entry models.Vaccination
	}{
		{"asha@example.com", models.Vaccination{VaccineName: "OPV", DoseNumber: 2, NextDoseDate: "2025-01-10"}},
		{"asha@example.com", models.Vaccination{VaccineName: "HepB", NextDoseDate: "2025-01-11"}},
		{"ravi@example.com", models.Vaccination{VaccineName: "BCG", NextDoseDate: "2025-01-10", Completed: true}},
		{"ravi@example.com", models.Vaccination{VaccineName: "DPT", NextDoseDate: "2025-01-10"}},
	}
	for _, e := range entries {
		entry := e.entry
		_, err := st.AddVaccination(ctx, e.email, &entry)
		require.NoError(t, err)
	}
	return st
}

func newScanner(src UserSource, buf io.Writer, interval time.Duration) *Scanner {
	projector := vaccination.NewProjector(clock.Fixed(now), vaccination.ProjectorConfig{})
	return NewScanner(src, projector, interval, bufferLogger(buf))
}

type failingSource struct{}

func (failingSource) EachUserBatch(context.Context, int, func([]models.User) error) error {
	return errors.New("connection refused")
}

func TestSweep_LogsDueTodayOnly(t *testing.T) {
	var buf bytes.Buffer
	s := newScanner(seed(t), &buf, time.Hour)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := buf.String()
	assert.Contains(t, out, `"email":"asha@example.com","vaccine":"OPV"`)
	assert.Contains(t, out, `"email":"ravi@example.com","vaccine":"DPT"`)
	assert.NotContains(t, out, "HepB")
	assert.NotContains(t, out, "BCG")
}

func TestSweep_RepeatableAndReadOnly(t *testing.T) {
	ctx := context.Background()
	st := seed(t)
	before, err := st.FindUserByEmail(ctx, "asha@example.com")
	require.NoError(t, err)

	var first, second bytes.Buffer
	_, err = newScanner(st, &first, time.Hour).Sweep(ctx)
	require.NoError(t, err)
	_, err = newScanner(st, &second, time.Hour).Sweep(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())

	after, err := st.FindUserByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, after.Notifications)
}

func TestSweep_SourceError(t *testing.T) {
	var buf bytes.Buffer
	_, err := newScanner(failingSource{}, &buf, time.Hour).Sweep(context.Background())
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	var buf syncBuffer
	s := newScanner(seed(t), &buf, time.Hour)

	s.Start(context.Background())
	s.Start(context.Background())

	require.Eventually(t, func() bool {
		return strings.Count(buf.String(), "vaccination reminder") == 2
	}, time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "reminder scanner started"))
	assert.Equal(t, 1, strings.Count(out, "reminder scanner stopped"))
}

func TestStart_FailedSweepIsLogged(t *testing.T) {
	var buf syncBuffer
	s := newScanner(failingSource{}, &buf, time.Hour)

	s.Start(context.Background())
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "reminder sweep failed")
	}, time.Second, 10*time.Millisecond)
	s.Stop()
}
