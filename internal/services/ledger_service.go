// Package services wires the account directory to the movement event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"banco/internal/amqp"
	"banco/internal/core"
	"banco/internal/directory"
)

// MovementPublisher emits movement events for the archive worker.
// *amqp.Client implements it.
type MovementPublisher interface {
	PublishMovement(ctx context.Context, msg *amqp.MovementMessage) error
	Close() error
}

// LedgerService fronts every ledger operation. Movement events are published
// best-effort: a broker failure never fails a completed deposit or
// withdrawal, the ledger in memory is the system of record.
type LedgerService struct {
	dir    *directory.Directory
	events MovementPublisher
}

// NewLedgerService creates the service. events may be nil to run without
// archive publishing.
func NewLedgerService(dir *directory.Directory, events MovementPublisher) *LedgerService {
	return &LedgerService{dir: dir, events: events}
}

func (s *LedgerService) RegisterCustomer(ctx context.Context, c core.Customer) (*core.Customer, error) {
	stored, err := s.dir.RegisterCustomer(c)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Customer registered", "tax_id", stored.TaxID, "name", stored.Name)
	return stored, nil
}

func (s *LedgerService) OpenAccount(ctx context.Context, taxID string) (*core.Account, error) {
	a, err := s.dir.OpenAccount(taxID)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Account opened",
		"branch", a.Branch,
		"number", a.Number,
		"owner_tax_id", a.Owner.TaxID)
	return a, nil
}

// Deposit credits an account and publishes the movement event.
func (s *LedgerService) Deposit(ctx context.Context, accountNumber int64, amount core.Money) (core.Statement, error) {
	a, err := s.dir.Account(accountNumber)
	if err != nil {
		return core.Statement{}, err
	}
	st, err := a.Deposit(amount)
	if err != nil {
		return core.Statement{}, err
	}
	s.publishMovement(ctx, a, st)
	return st, nil
}

// Withdraw debits an account and publishes the movement event.
func (s *LedgerService) Withdraw(ctx context.Context, accountNumber int64, amount core.Money) (core.Statement, error) {
	a, err := s.dir.Account(accountNumber)
	if err != nil {
		return core.Statement{}, err
	}
	st, err := a.Withdraw(amount)
	if err != nil {
		return core.Statement{}, err
	}
	s.publishMovement(ctx, a, st)
	return st, nil
}

// Statement returns a point-in-time snapshot of an account's ledger.
func (s *LedgerService) Statement(ctx context.Context, accountNumber int64) (core.Statement, error) {
	a, err := s.dir.Account(accountNumber)
	if err != nil {
		return core.Statement{}, err
	}
	return a.Statement(), nil
}

// Customers lists registered customers.
func (s *LedgerService) Customers() []core.Customer { return s.dir.Customers() }

// Accounts lists open accounts.
func (s *LedgerService) Accounts() []*core.Account { return s.dir.Accounts() }

// publishMovement emits the last applied record of the snapshot. Failures are
// logged, never surfaced: the movement already happened.
func (s *LedgerService) publishMovement(ctx context.Context, a *core.Account, st core.Statement) {
	if s.events == nil {
		return
	}
	rec := st.Records[len(st.Records)-1]
	msg := amqp.NewMovementMessage(a, rec, st.Balance)
	if err := s.events.PublishMovement(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish movement event",
			"account", a.Number,
			"kind", rec.Kind,
			"error", err)
	}
}

// Close releases the event publisher, if any.
func (s *LedgerService) Close() error {
	if s.events == nil {
		return nil
	}
	if err := s.events.Close(); err != nil {
		return fmt.Errorf("close movement publisher: %w", err)
	}
	return nil
}
