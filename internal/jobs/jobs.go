package jobs

import (
	"context"
	"fmt"

	"budget-reconciler/internal/domain"
)

const (
	CalcPayments = "calcPayments"
	SyncBalance  = "syncBalance"
	TrackKBB     = "trackKBB"
	TrackCrypto  = "trackCrypto"
)

type AccountLister interface {
	Accounts(ctx context.Context) ([]domain.Account, error)
}

type PaymentCalculator interface {
	CalcPayments(ctx context.Context, accounts []domain.Account) (*domain.RunReport, error)
}

type BalanceSyncer interface {
	RunBankSync(ctx context.Context)
	SyncBalances(ctx context.Context, accounts []domain.Account) (*domain.RunReport, error)
}

type VehicleTracker interface {
	TrackVehicles(ctx context.Context, accounts []domain.Account) (*domain.RunReport, error)
}

type CryptoTracker interface {
	TrackCrypto(ctx context.Context, accounts []domain.Account) (*domain.RunReport, error)
}

// Services adapts the use cases to Jobs. Accounts are listed fresh for every run.
type Services struct {
	Accounts AccountLister
	Payments PaymentCalculator
	Sync     BalanceSyncer
	Vehicles VehicleTracker
	Crypto   CryptoTracker
}

func (s Services) accounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.Accounts.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list accounts: %w", err)
	}
	return accounts, nil
}

// collect drops the nil reports of use cases that failed before starting one.
func collect(reports ...*domain.RunReport) []*domain.RunReport {
	out := make([]*domain.RunReport, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (s Services) CalcPayments(ctx context.Context) ([]*domain.RunReport, error) {
	accounts, err := s.accounts(ctx)
	if err != nil {
		return nil, err
	}
	report, err := s.Payments.CalcPayments(ctx, accounts)
	return collect(report), err
}

// SyncBalance pulls bank data, aligns synced balances, then refreshes the
// statement predictions against the new balances.
func (s Services) SyncBalance(ctx context.Context) ([]*domain.RunReport, error) {
	s.Sync.RunBankSync(ctx)
	accounts, err := s.accounts(ctx)
	if err != nil {
		return nil, err
	}
	synced, err := s.Sync.SyncBalances(ctx, accounts)
	if err != nil {
		return collect(synced), err
	}
	payments, err := s.Payments.CalcPayments(ctx, accounts)
	return collect(synced, payments), err
}

func (s Services) TrackKBB(ctx context.Context) ([]*domain.RunReport, error) {
	accounts, err := s.accounts(ctx)
	if err != nil {
		return nil, err
	}
	report, err := s.Vehicles.TrackVehicles(ctx, accounts)
	return collect(report), err
}

func (s Services) TrackCrypto(ctx context.Context) ([]*domain.RunReport, error) {
	accounts, err := s.accounts(ctx)
	if err != nil {
		return nil, err
	}
	report, err := s.Crypto.TrackCrypto(ctx, accounts)
	return collect(report), err
}

// Schedules holds the cron specs of the scheduled jobs.
type Schedules struct {
	TrackCrypto string
	SyncBalance string
	TrackKBB    string
}

// RegisterAll adds the jobs to r. calcPayments only runs on demand since
// syncBalance already ends with it.
func (s Services) RegisterAll(r *Runner, specs Schedules) error {
	for _, j := range []struct {
		name string
		spec string
		job  Job
	}{
		{TrackCrypto, specs.TrackCrypto, s.TrackCrypto},
		{SyncBalance, specs.SyncBalance, s.SyncBalance},
		{TrackKBB, specs.TrackKBB, s.TrackKBB},
		{CalcPayments, "", s.CalcPayments},
	} {
		if err := r.Register(j.name, j.spec, j.job); err != nil {
			return err
		}
	}
	return nil
}
