package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu      sync.Mutex
	reports []*domain.RunReport
	err     error
}

func (s *memorySink) Write(_ context.Context, reports []*domain.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, reports...)
	return s.err
}

func reportJob(name string) Job {
	return func(context.Context) ([]*domain.RunReport, error) {
		return []*domain.RunReport{{ID: name + "-1", Job: name}}, nil
	}
}

func TestRunner_RunWritesReports(t *testing.T) {
	sink := &memorySink{}
	r := NewRunner(sink, usecase.DiscardLogger())
	require.NoError(t, r.Register(TrackKBB, "0 12 * * *", reportJob(TrackKBB)))

	reports, err := r.Run(context.Background(), TrackKBB)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, reports, sink.reports)

	statuses := r.Statuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, TrackKBB, statuses[0].Name)
	assert.Empty(t, statuses[0].Error)
	assert.Len(t, statuses[0].Reports, 1)
}

func TestRunner_RejectsOverlappingRuns(t *testing.T) {
	r := NewRunner(&memorySink{}, usecase.DiscardLogger())
	started, release := make(chan struct{}), make(chan struct{})
	require.NoError(t, r.Register(SyncBalance, "", func(context.Context) ([]*domain.RunReport, error) {
		close(started)
		<-release
		return nil, nil
	}))
	require.NoError(t, r.Register(TrackCrypto, "", reportJob(TrackCrypto)))

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), SyncBalance)
		done <- err
	}()
	<-started

	assert.Equal(t, SyncBalance, r.Running())
	_, err := r.Run(context.Background(), TrackCrypto)
	assert.ErrorIs(t, err, ErrRunInProgress)
	_, err = r.Run(context.Background(), SyncBalance)
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Empty(t, r.Running())

	_, err = r.Run(context.Background(), TrackCrypto)
	assert.NoError(t, err)
}

func TestRunner_Register(t *testing.T) {
	r := NewRunner(nil, usecase.DiscardLogger())
	require.NoError(t, r.Register(TrackKBB, "0 12 * * *", reportJob(TrackKBB)))
	assert.Error(t, r.Register(TrackKBB, "", reportJob(TrackKBB)))
	assert.Error(t, r.Register(TrackCrypto, "every now and then", reportJob(TrackCrypto)))
	assert.Equal(t, []string{TrackKBB}, r.Names())

	_, err := r.Run(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestRunner_FailedJobIsRecorded(t *testing.T) {
	sink := &memorySink{err: errors.New("disk full")}
	r := NewRunner(sink, usecase.DiscardLogger())
	require.NoError(t, r.Register(CalcPayments, "", func(context.Context) ([]*domain.RunReport, error) {
		return []*domain.RunReport{{ID: "partial", Job: CalcPayments}}, errors.New("ledger down")
	}))

	_, err := r.Run(context.Background(), CalcPayments)
	assert.EqualError(t, err, "ledger down")
	assert.Len(t, sink.reports, 1)
	assert.Equal(t, "ledger down", r.Statuses()[0].Error)
}

func TestRunner_StartRunsScheduledJobsOnce(t *testing.T) {
	r := NewRunner(&memorySink{}, usecase.DiscardLogger())
	var mu sync.Mutex
	var ran []string
	record := func(name string) Job {
		return func(context.Context) ([]*domain.RunReport, error) {
			mu.Lock()
			defer mu.Unlock()
			ran = append(ran, name)
			return nil, nil
		}
	}
	require.NoError(t, r.Register(TrackCrypto, "*/30 * * * *", record(TrackCrypto)))
	require.NoError(t, r.Register(SyncBalance, "0 */8 * * *", record(SyncBalance)))
	require.NoError(t, r.Register(CalcPayments, "", record(CalcPayments)))

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	mu.Lock()
	assert.Equal(t, []string{TrackCrypto, SyncBalance}, ran)
	mu.Unlock()

	for _, s := range r.Statuses() {
		if s.Spec != "" {
			assert.True(t, s.Next.After(time.Now().Add(-time.Minute)), s.Name)
		} else {
			assert.True(t, s.Next.IsZero())
		}
	}
}

func TestRunner_DropsNilReports(t *testing.T) {
	sink := &memorySink{}
	r := NewRunner(sink, usecase.DiscardLogger())
	require.NoError(t, r.Register(CalcPayments, "", func(context.Context) ([]*domain.RunReport, error) {
		return []*domain.RunReport{nil, {ID: "ok", Job: CalcPayments}, nil}, errors.New("ledger down")
	}))

	reports, err := r.Run(context.Background(), CalcPayments)
	assert.Error(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "ok", reports[0].ID)
	require.Len(t, sink.reports, 1)
	assert.NotNil(t, sink.reports[0])
	assert.Equal(t, reports, r.Statuses()[0].Reports)
}
