package usecase

import (
	"errors"
	"io"
	"time"

	"budget-reconciler/internal/domain"

	"github.com/sirupsen/logrus"
)

// ErrRuleNotFound is returned when a schedule points at a rule the ledger does not have.
var ErrRuleNotFound = errors.New("schedule rule not found")

// Option configures the ambient dependencies of a use case.
type Option func(*base)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

// WithLogger replaces the standard logrus logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *base) { b.log = l }
}

type base struct {
	log logrus.FieldLogger
	now func() time.Time
}

func newBase(opts []Option) base {
	b := base{log: logrus.StandardLogger(), now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b base) today() time.Time {
	return domain.Day(b.now())
}

func (b base) accountLog(a domain.Account) logrus.FieldLogger {
	return b.log.WithFields(logrus.Fields{"account": a.Name, "account_id": a.ID})
}

// DiscardLogger returns a logger that drops everything, for tests and dry runs.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
