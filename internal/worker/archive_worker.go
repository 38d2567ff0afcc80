// Package worker archives movement events into SQLite.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"banco/internal/amqp"
	"banco/internal/cache"
	"banco/internal/storage"
)

// ArchiveWorker consumes movement events and mirrors them into the archive
// database. Handlers are idempotent enough to tolerate redeliveries of the
// account row; movement rows rely on the broker's at-least-once semantics.
type ArchiveWorker struct {
	repo *storage.SQLiteRepository

	// Account numbers already upserted. A stale or evicted entry only
	// costs a redundant upsert, which is a no-op on conflict.
	seen *cache.LRU[int64, struct{}]
}

func NewArchiveWorker(repo *storage.SQLiteRepository) *ArchiveWorker {
	return &ArchiveWorker{
		repo: repo,
		seen: cache.NewLRU[int64, struct{}](1024, time.Hour),
	}
}

// HandleMovement processes one movement event: ensures the account row exists
// and appends the movement.
func (w *ArchiveWorker) HandleMovement(ctx context.Context, msg *amqp.MovementMessage) error {
	if _, ok := w.seen.Get(msg.AccountNumber); !ok {
		err := w.repo.UpsertAccount(ctx, storage.AccountRecord{
			Number:     msg.AccountNumber,
			Branch:     msg.Branch,
			OwnerTaxID: msg.OwnerTaxID,
		})
		if err != nil {
			return fmt.Errorf("upsert account: %w", err)
		}
		w.seen.Set(msg.AccountNumber, struct{}{})
	}

	_, err := w.repo.InsertMovement(ctx, storage.Movement{
		AccountNumber: msg.AccountNumber,
		Kind:          msg.Kind,
		AmountCents:   msg.AmountCents,
		BalanceCents:  msg.BalanceCents,
		RecordedAt:    msg.RecordedAt,
	})
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	return nil
}

// LogSummary reports the archive size. Called periodically by the worker
// binary so the archive's health shows up in the logs.
func (w *ArchiveWorker) LogSummary(ctx context.Context) error {
	n, err := w.repo.MovementCount(ctx)
	if err != nil {
		return fmt.Errorf("movement count: %w", err)
	}
	slog.InfoContext(ctx, "Archive summary", "movements", n)
	return nil
}
