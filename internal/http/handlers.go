package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"banco/internal/core"
)

const maxBodyBytes = 1 << 16 // 64KB, plenty for any ledger request

type customerPayload struct {
	TaxID     string `json:"tax_id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
}

type accountPayload struct {
	Branch       string `json:"branch"`
	Number       int64  `json:"number"`
	OwnerTaxID   string `json:"owner_tax_id"`
	OwnerName    string `json:"owner_name"`
	BalanceCents int64  `json:"balance_cents"`
	Balance      string `json:"balance"`
}

type recordPayload struct {
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	At          time.Time `json:"at"`
}

type statementPayload struct {
	Branch       string          `json:"branch"`
	Number       int64           `json:"number"`
	BalanceCents int64           `json:"balance_cents"`
	Balance      string          `json:"balance"`
	Records      []recordPayload `json:"records"`
	Report       string          `json:"report"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}

func accountNumber(w http.ResponseWriter, r *http.Request) (int64, bool) {
	n, err := strconv.ParseInt(r.PathValue("number"), 10, 64)
	if err != nil || n < 1 {
		writeBadRequest(w, "invalid account number")
		return 0, false
	}
	return n, true
}

func statementResponse(st core.Statement) statementPayload {
	records := make([]recordPayload, 0, len(st.Records))
	for _, rec := range st.Records {
		records = append(records, recordPayload{
			Kind:        string(rec.Kind),
			AmountCents: rec.Amount.Cents,
			Amount:      rec.Amount.Format(),
			At:          rec.At,
		})
	}
	return statementPayload{
		Branch:       st.Branch,
		Number:       st.Number,
		BalanceCents: st.Balance.Cents,
		Balance:      st.Balance.Format(),
		Records:      records,
		Report:       st.Report(),
	}
}

func accountResponse(a *core.Account) accountPayload {
	return accountPayload{
		Branch:       a.Branch,
		Number:       a.Number,
		OwnerTaxID:   a.Owner.TaxID,
		OwnerName:    a.Owner.Name,
		BalanceCents: a.Balance().Cents,
		Balance:      a.Balance().Format(),
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /customers
func (s *Server) handleRegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerPayload
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := s.svc.RegisterCustomer(r.Context(), core.Customer{
		TaxID:     req.TaxID,
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Address:   req.Address,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customerPayload{
		TaxID:     c.TaxID,
		Name:      c.Name,
		BirthDate: c.BirthDate,
		Address:   c.Address,
	})
}

// GET /customers
func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := s.svc.Customers()
	out := make([]customerPayload, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerPayload{
			TaxID:     c.TaxID,
			Name:      c.Name,
			BirthDate: c.BirthDate,
			Address:   c.Address,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /accounts
func (s *Server) handleOpenAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TaxID string `json:"tax_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := s.svc.OpenAccount(r.Context(), req.TaxID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, accountResponse(a))
}

// GET /accounts
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := s.svc.Accounts()
	out := make([]accountPayload, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /accounts/{number}/deposit
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	n, ok := accountNumber(w, r)
	if !ok {
		return
	}
	amount, ok := s.decodeAmount(w, r)
	if !ok {
		return
	}
	st, err := s.svc.Deposit(r.Context(), n, amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statementResponse(st))
}

// POST /accounts/{number}/withdraw
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	n, ok := accountNumber(w, r)
	if !ok {
		return
	}
	amount, ok := s.decodeAmount(w, r)
	if !ok {
		return
	}
	st, err := s.svc.Withdraw(r.Context(), n, amount)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statementResponse(st))
}

// GET /accounts/{number}/statement
func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	n, ok := accountNumber(w, r)
	if !ok {
		return
	}
	st, err := s.svc.Statement(r.Context(), n)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statementResponse(st))
}

// decodeAmount reads {"amount":"123.45"} and parses it to cents. Parse
// failures surface as the domain's invalid-amount error so all four rejection
// reasons flow through the same mapping.
func (s *Server) decodeAmount(w http.ResponseWriter, r *http.Request) (core.Money, bool) {
	var req struct {
		Amount string `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return core.Money{}, false
	}
	amount, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeErr(w, err)
		return core.Money{}, false
	}
	return amount, true
}
