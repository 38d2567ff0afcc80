package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"banco/internal/amqp"
	"banco/internal/storage"
)

func newTestWorker(t *testing.T) (*ArchiveWorker, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "banco.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewArchiveWorker(repo), repo
}

func TestHandleMovement(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	msgs := []*amqp.MovementMessage{
		{Branch: "0001", AccountNumber: 1, OwnerTaxID: "12345678901", Kind: "deposit", AmountCents: 10000, BalanceCents: 10000, RecordedAt: at},
		{Branch: "0001", AccountNumber: 1, OwnerTaxID: "12345678901", Kind: "withdrawal", AmountCents: 3000, BalanceCents: 7000, RecordedAt: at.Add(time.Minute)},
	}
	for _, msg := range msgs {
		if err := w.HandleMovement(ctx, msg); err != nil {
			t.Fatalf("HandleMovement: %v", err)
		}
	}

	got, err := repo.MovementsByAccount(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("archived=%d want=2", len(got))
	}
	if got[0].Kind != "deposit" || got[1].Kind != "withdrawal" {
		t.Fatalf("archive out of order: %+v", got)
	}
	if got[1].BalanceCents != 7000 {
		t.Fatalf("balance_cents=%d want=7000", got[1].BalanceCents)
	}
}

func TestLogSummary(t *testing.T) {
	w, _ := newTestWorker(t)
	if err := w.LogSummary(context.Background()); err != nil {
		t.Fatalf("LogSummary: %v", err)
	}
}
