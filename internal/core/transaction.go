package core

import (
	"strings"
	"time"
)

const (
	Deposit    TransactionKind = "deposit"
	Withdrawal TransactionKind = "withdrawal"
)

type (
	TransactionKind string

	// TransactionRecord describes one completed movement. Records are
	// immutable once appended to a history.
	TransactionRecord struct {
		Kind   TransactionKind
		Amount Money
		At     time.Time
	}

	// History is the append-only ordered log of an account's movements.
	// Insertion order is chronological order; records are never reordered
	// or mutated in place.
	History struct {
		records []TransactionRecord
	}
)

// Label returns the kind as it appears on a statement report.
func (k TransactionKind) Label() string {
	switch k {
	case Deposit:
		return "Deposit"
	case Withdrawal:
		return "Withdrawal"
	default:
		return string(k)
	}
}

func (h *History) append(r TransactionRecord) {
	h.records = append(h.records, r)
}

// Records returns a copy of the log so callers cannot mutate it.
func (h *History) Records() []TransactionRecord {
	out := make([]TransactionRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len reports the number of recorded movements.
func (h *History) Len() int { return len(h.records) }

const reportTimeLayout = "02/01/2006 15:04"

// Report renders the history and the given balance as a deterministic,
// human-readable statement. An empty history renders a "no movements" line
// instead of an empty list.
func (h *History) Report(balance Money) string {
	var b strings.Builder
	b.WriteString("================ STATEMENT ================\n")
	if len(h.records) == 0 {
		b.WriteString("No movements recorded.\n")
	} else {
		for _, r := range h.records {
			b.WriteString(r.Kind.Label())
			b.WriteString(": ")
			b.WriteString(r.Amount.Format())
			b.WriteString(" at ")
			b.WriteString(r.At.Format(reportTimeLayout))
			b.WriteString("\n")
		}
	}
	b.WriteString("\nBalance: ")
	b.WriteString(balance.Format())
	b.WriteString("\n===========================================\n")
	return b.String()
}
