// Package directory owns the customer and account registries. It is the only
// component that assigns account numbers and enforces tax-id format and
// uniqueness; the ledger core never sees unvalidated identity data.
package directory

import (
	"errors"
	"strings"
	"sync"
	"unicode"

	"banco/internal/core"
)

var (
	ErrInvalidTaxID      = errors.New("tax id must be 11 digits")
	ErrDuplicateCustomer = errors.New("customer already registered")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrAccountNotFound   = errors.New("account not found")
)

// Directory is the in-memory registry behind the API. A single mutex
// serializes all registry mutations; individual accounts carry their own lock
// for ledger operations.
type Directory struct {
	mu         sync.Mutex
	nextNumber int64
	customers  map[string]*core.Customer
	accounts   map[int64]*core.Account
	taxIDs     []string // registration order, for listings
	numbers    []int64
}

func New() *Directory {
	return &Directory{
		customers: make(map[string]*core.Customer),
		accounts:  make(map[int64]*core.Account),
	}
}

// NormalizeTaxID strips everything but digits and validates the fixed
// 11-digit format.
func NormalizeTaxID(s string) (string, error) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	id := b.String()
	if len(id) != 11 {
		return "", ErrInvalidTaxID
	}
	return id, nil
}

// RegisterCustomer validates the tax id and stores the customer. The tax id
// is immutable afterwards and may never be reused.
func (d *Directory) RegisterCustomer(c core.Customer) (*core.Customer, error) {
	taxID, err := NormalizeTaxID(c.TaxID)
	if err != nil {
		return nil, err
	}
	c.TaxID = taxID

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.customers[taxID]; ok {
		return nil, ErrDuplicateCustomer
	}
	stored := c
	d.customers[taxID] = &stored
	d.taxIDs = append(d.taxIDs, taxID)
	return &stored, nil
}

// OpenAccount creates a checking account for an existing customer, assigning
// the next sequential number. Numbers start at 1 and are never reused.
func (d *Directory) OpenAccount(taxID string) (*core.Account, error) {
	taxID, err := NormalizeTaxID(taxID)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	owner, ok := d.customers[taxID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	d.nextNumber++
	a := core.NewAccount(d.nextNumber, owner)
	d.accounts[a.Number] = a
	d.numbers = append(d.numbers, a.Number)
	return a, nil
}

// Account resolves an account by number.
func (d *Directory) Account(number int64) (*core.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.accounts[number]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// Customer resolves a customer by tax id.
func (d *Directory) Customer(taxID string) (*core.Customer, error) {
	taxID, err := NormalizeTaxID(taxID)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.customers[taxID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

// Customers lists registered customers in registration order.
func (d *Directory) Customers() []core.Customer {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.Customer, 0, len(d.taxIDs))
	for _, id := range d.taxIDs {
		out = append(out, *d.customers[id])
	}
	return out
}

// Accounts lists open accounts in opening order.
func (d *Directory) Accounts() []*core.Account {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*core.Account, 0, len(d.numbers))
	for _, n := range d.numbers {
		out = append(out, d.accounts[n])
	}
	return out
}
