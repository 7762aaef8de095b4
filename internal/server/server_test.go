package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/jobs"
	"budget-reconciler/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	running string
	err     error
	ran     []string
}

func (f *fakeRunner) Run(_ context.Context, name string) ([]*domain.RunReport, error) {
	f.ran = append(f.ran, name)
	if f.err != nil {
		return nil, f.err
	}
	return []*domain.RunReport{{ID: "r1", Job: name}}, nil
}

func (f *fakeRunner) Running() string { return f.running }

func (f *fakeRunner) Statuses() []jobs.Status {
	return []jobs.Status{{Name: jobs.TrackKBB, Spec: "0 12 * * *"}}
}

func serve(t *testing.T, runner Runner, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	NewService(runner, usecase.DiscardLogger()).Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealthz(t *testing.T) {
	rec := serve(t, &fakeRunner{}, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleStatus(t *testing.T) {
	rec := serve(t, &fakeRunner{running: jobs.SyncBalance}, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Running string        `json:"running"`
		Jobs    []jobs.Status `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, jobs.SyncBalance, body.Running)
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, jobs.TrackKBB, body.Jobs[0].Name)
}

func TestHandleTrigger(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "ok", wantCode: http.StatusOK},
		{name: "busy", err: jobs.ErrRunInProgress, wantCode: http.StatusConflict},
		{name: "unknown", err: jobs.ErrUnknownJob, wantCode: http.StatusNotFound},
		{name: "failed", err: errors.New("ledger down"), wantCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{err: tt.err}
			rec := serve(t, runner, http.MethodPost, "/jobs/trackKBB")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, []string{jobs.TrackKBB}, runner.ran)
		})
	}
}

func TestHandleTrigger_WithRealRunner(t *testing.T) {
	r := jobs.NewRunner(nil, usecase.DiscardLogger())
	require.NoError(t, r.Register(jobs.CalcPayments, "", func(context.Context) ([]*domain.RunReport, error) {
		return []*domain.RunReport{{ID: "calc", Job: jobs.CalcPayments}}, nil
	}))

	rec := serve(t, r, http.MethodPost, "/jobs/calcPayments")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"calc"`)

	rec = serve(t, r, http.MethodPost, "/jobs/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, r, http.MethodGet, "/jobs/calcPayments")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
