package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readiness struct{ err error }

func (r readiness) Err(context.Context) error { return r.err }

func TestProbes(t *testing.T) {
	ctx := context.Background()

	ok := NewProbes(nil, readiness{})
	assert.NoError(t, ok.Liveness(ctx))
	assert.NoError(t, ok.Readiness(ctx))

	require.NoError(t, ok.Drain(ctx))
	assert.ErrorIs(t, ok.Readiness(ctx), errDraining)
	assert.NoError(t, ok.Liveness(ctx), "still alive while draining")

	failing := NewProbes(nil, readiness{err: errors.New("telegram: down")})
	assert.EqualError(t, failing.Readiness(ctx), "telegram: down")

	assert.NoError(t, NewProbes(nil, nil).Readiness(ctx))
}

func TestProbeHandler(t *testing.T) {
	testCases := []struct {
		name       string
		probe      func(context.Context) error
		wantCode   int
		wantStatus string
		wantError  string
	}{
		{name: "passing", probe: func(context.Context) error { return nil }, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "failing", probe: func(context.Context) error { return errors.New("menu: empty") }, wantCode: http.StatusServiceUnavailable, wantStatus: "unavailable", wantError: "menu: empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ProbeHandler(tc.probe)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body probeResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.wantStatus, body.Status)
			assert.Equal(t, tc.wantError, body.Error)
		})
	}
}

func TestShutdown_RunsHooksConcurrently(t *testing.T) {
	s := NewShutdown(nil)

	var ran atomic.Int32
	release := make(chan struct{})
	for _, name := range []string{"bot", "http"} {
		s.Register(name, func(context.Context) error {
			if ran.Add(1) == 2 {
				close(release)
			}
			<-release
			return nil
		})
	}
	s.Register("ignored", nil)
	s.Register("flush", Func(func() { ran.Add(1) }))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.Execute(ctx))
	assert.EqualValues(t, 3, ran.Load())
}

func TestShutdown_CollectsFailures(t *testing.T) {
	s := NewShutdown(nil)
	s.Register("bot", func(context.Context) error { return errors.New("stuck") })
	s.Register("sentry", func(context.Context) error { panic("boom") })
	s.Register("http", func(context.Context) error { return nil })

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot: stuck")
	assert.Contains(t, err.Error(), "sentry: panic: boom")
	assert.NotContains(t, err.Error(), "http")
}

func TestShutdown_GivesUpOnDeadline(t *testing.T) {
	s := NewShutdown(nil)
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	s.Register("slow", func(context.Context) error {
		<-block
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Execute(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
