package core

import (
	"sync"
	"time"
)

const (
	// BranchCode groups every account of this single-branch model.
	BranchCode = "0001"

	// WithdrawalLimitCents is the fixed per-transaction withdrawal ceiling.
	WithdrawalLimitCents = 50000

	// MaxWithdrawalsPerDay is the fixed number of withdrawals allowed per
	// calendar day.
	MaxWithdrawalsPerDay = 3
)

// Account owns a balance, its transaction history and the daily withdrawal
// counter. Deposit and Withdraw are the only balance mutators; both apply the
// balance change, the counter change and the history append under one lock so
// no intermediate state is observable.
type Account struct {
	Number int64
	Branch string
	Owner  *Customer

	mu      sync.Mutex
	balance Money
	history History
	daily   dailyCounter
	now     func() time.Time
}

// NewAccount creates an account for an already-registered customer. Number
// assignment is the directory's job; the account never changes it afterwards.
func NewAccount(number int64, owner *Customer) *Account {
	return &Account{
		Number: number,
		Branch: BranchCode,
		Owner:  owner,
		now:    time.Now,
	}
}

// dailyCounter tracks withdrawals made on the current calendar day. There is
// no scheduled reset; the counter rolls over lazily on the next withdrawal
// attempt of a new day.
type dailyCounter struct {
	count int
	day   time.Time
}

func (c *dailyCounter) rollover(now time.Time) {
	today := midnight(now)
	if !c.day.Equal(today) {
		c.count = 0
		c.day = today
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Deposit credits the amount and appends a deposit record. Amounts must be
// strictly positive; there is no upper bound on deposits. On success the
// updated snapshot is returned; its last record is the applied movement.
func (a *Account) Deposit(amount Money) (Statement, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if amount.Cents <= 0 {
		return Statement{}, ErrInvalidAmount
	}
	a.balance.Cents += amount.Cents
	a.history.append(TransactionRecord{Kind: Deposit, Amount: amount, At: a.now()})
	return a.statementLocked(), nil
}

// Withdraw debits the amount after rolling the daily counter and passing the
// validation gates. The gates run in a fixed order and short-circuit on the
// first failure: funds, per-transaction ceiling, daily quota, then amount
// positivity. A non-positive amount is rejected only after the three limit
// gates pass. On success the updated snapshot is returned.
func (a *Account) Withdraw(amount Money) (Statement, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	a.daily.rollover(now)

	switch {
	case amount.Cents > a.balance.Cents:
		return Statement{}, ErrInsufficientFunds
	case amount.Cents > WithdrawalLimitCents:
		return Statement{}, ErrWithdrawalLimit
	case a.daily.count >= MaxWithdrawalsPerDay:
		return Statement{}, ErrDailyLimitReached
	case amount.Cents <= 0:
		return Statement{}, ErrInvalidAmount
	}

	a.balance.Cents -= amount.Cents
	a.daily.count++
	a.history.append(TransactionRecord{Kind: Withdrawal, Amount: amount, At: now})
	return a.statementLocked(), nil
}

// Statement is a point-in-time snapshot of an account's ledger.
type Statement struct {
	Branch  string
	Number  int64
	Balance Money
	Records []TransactionRecord
}

// Statement returns the current balance and the full ordered history. Pure
// read; the returned records are a copy.
func (a *Account) Statement() Statement {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statementLocked()
}

func (a *Account) statementLocked() Statement {
	return Statement{
		Branch:  a.Branch,
		Number:  a.Number,
		Balance: a.balance,
		Records: a.history.Records(),
	}
}

// Report renders the account's statement via the history's report contract.
func (s Statement) Report() string {
	h := History{records: s.Records}
	return h.Report(s.Balance)
}

// Balance returns the current balance.
func (a *Account) Balance() Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}
