package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"banco/internal/directory"
	applog "banco/internal/log"
	"banco/internal/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewLedgerService(directory.New(), nil)
	srv := NewServer(":0", svc, applog.New(applog.DefaultConfig()), 0)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func seedAccount(t *testing.T, srv *Server) {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/customers",
		`{"tax_id":"123.456.789-01","name":"Ana","birth_date":"01/01/1990","address":"Rua A, 1"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register customer status=%d body=%s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv, http.MethodPost, "/accounts", `{"tax_id":"12345678901"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("open account status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rr.Code)
	}
}

func TestRegisterCustomerValidation(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/customers", `{"tax_id":"123","name":"Bad"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid tax id status=%d want=422", rr.Code)
	}

	seedAccount(t, srv)
	rr = do(t, srv, http.MethodPost, "/customers", `{"tax_id":"12345678901","name":"Dup"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate customer status=%d want=409", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/customers", `not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad body status=%d want=400", rr.Code)
	}
}

func TestOpenAccountForUnknownCustomer(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/accounts", `{"tax_id":"99999999999"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=404", rr.Code)
	}
}

func TestDepositWithdrawStatement(t *testing.T) {
	srv := newTestServer(t)
	seedAccount(t, srv)

	rr := do(t, srv, http.MethodPost, "/accounts/1/deposit", `{"amount":"100.00"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("deposit status=%d body=%s", rr.Code, rr.Body.String())
	}
	var st statementPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.BalanceCents != 10000 || len(st.Records) != 1 {
		t.Fatalf("unexpected statement: %+v", st)
	}

	rr = do(t, srv, http.MethodPost, "/accounts/1/withdraw", `{"amount":"40.00"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("withdraw status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/accounts/1/statement", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("statement status=%d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.BalanceCents != 6000 || len(st.Records) != 2 {
		t.Fatalf("unexpected statement: %+v", st)
	}
	if !strings.Contains(st.Report, "Balance: R$ 60.00") {
		t.Fatalf("report missing balance:\n%s", st.Report)
	}
}

func TestWithdrawErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	seedAccount(t, srv)

	if rr := do(t, srv, http.MethodPost, "/accounts/1/deposit", `{"amount":"2000.00"}`); rr.Code != http.StatusOK {
		t.Fatalf("deposit status=%d", rr.Code)
	}

	cases := []struct {
		name   string
		amount string
		want   int
	}{
		{"over per-transaction limit", "600.00", http.StatusConflict},
		{"invalid amount", "0", http.StatusUnprocessableEntity},
		{"malformed amount", "abc", http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		rr := do(t, srv, http.MethodPost, "/accounts/1/withdraw", `{"amount":"`+tc.amount+`"}`)
		if rr.Code != tc.want {
			t.Fatalf("%s: status=%d want=%d", tc.name, rr.Code, tc.want)
		}
	}

	// drain the daily quota, then expect a conflict
	for i := 0; i < 3; i++ {
		if rr := do(t, srv, http.MethodPost, "/accounts/1/withdraw", `{"amount":"1.00"}`); rr.Code != http.StatusOK {
			t.Fatalf("withdrawal %d status=%d", i+1, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodPost, "/accounts/1/withdraw", `{"amount":"1.00"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("daily limit status=%d want=409", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/accounts/99/withdraw", `{"amount":"1.00"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown account status=%d want=404", rr.Code)
	}
}

func TestInsufficientFundsMapping(t *testing.T) {
	srv := newTestServer(t)
	seedAccount(t, srv)

	rr := do(t, srv, http.MethodPost, "/accounts/1/withdraw", `{"amount":"10.00"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("insufficient funds status=%d want=409", rr.Code)
	}
}

func TestListings(t *testing.T) {
	srv := newTestServer(t)
	seedAccount(t, srv)

	rr := do(t, srv, http.MethodGet, "/customers", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list customers status=%d", rr.Code)
	}
	var customers []customerPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &customers); err != nil {
		t.Fatal(err)
	}
	if len(customers) != 1 || customers[0].TaxID != "12345678901" {
		t.Fatalf("unexpected customers: %+v", customers)
	}

	rr = do(t, srv, http.MethodGet, "/accounts", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list accounts status=%d", rr.Code)
	}
	var accounts []accountPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &accounts); err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 || accounts[0].Number != 1 || accounts[0].Branch != "0001" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

func TestRateLimiting(t *testing.T) {
	svc := services.NewLedgerService(directory.New(), nil)
	srv := NewServer(":0", svc, applog.New(applog.DefaultConfig()), 2)
	t.Cleanup(func() { _ = srv.Close() })

	for i := 0; i < 2; i++ {
		if rr := do(t, srv, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i+1, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d want=429", rr.Code)
	}
}

func TestBadAccountNumber(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/accounts/abc/deposit", `{"amount":"1.00"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rr.Code)
	}
}
