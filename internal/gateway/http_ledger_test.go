package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"budget-reconciler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTPLedger(t *testing.T, mux *http.ServeMux) *HTTPLedger {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	l, err := NewHTTPLedger(HTTPLedgerConfig{
		URL:           srv.URL,
		APIKey:        "secret",
		SyncID:        "budget-1",
		FilePassword:  "file-pw",
		RetryInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return l
}

func writeData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func TestNewHTTPLedger_RequiresSyncID(t *testing.T) {
	_, err := NewHTTPLedger(HTTPLedgerConfig{URL: "http://localhost"})
	assert.Error(t, err)
}

func TestHTTPLedger_SendsAuthHeaders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/budgets/budget-1/accounts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "file-pw", r.Header.Get("budget-encryption-password"))
		writeData(w, []domain.Account{{ID: "a1", Name: "Visa", SyncSource: "simpleFin", SyncAccountID: "ACT-1"}})
	})
	l := newTestHTTPLedger(t, mux)

	accounts, err := l.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Account{{ID: "a1", Name: "Visa", SyncSource: "simpleFin", SyncAccountID: "ACT-1"}}, accounts)
}

func TestHTTPLedger_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/budgets/budget-1/rules", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		writeData(w, []domain.Rule{{ID: "r1", Actions: []domain.RuleAction{domain.LinkSchedule("s1")}}})
	})
	l := newTestHTTPLedger(t, mux)

	rules, err := l.Rules(context.Background())
	require.NoError(t, err)
	assert.Len(t, rules, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPLedger_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /v1/budgets/budget-1/rules/r1", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad rule", http.StatusBadRequest)
	})
	l := newTestHTTPLedger(t, mux)

	err := l.UpdateRule(context.Background(), domain.Rule{ID: "r1"})
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadRequest, serr.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPLedger_TransactionsFilterAndOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/budgets/budget-1/accounts/visa/transactions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("since_date"))
		assert.Equal(t, "2024-02-29", r.URL.Query().Get("until_date"))
		writeData(w, []map[string]any{
			{"id": "t3", "date": "2024-02-10", "amount": 300, "notes": "Update #helper-script"},
			{"id": "t1", "date": "2024-01-05", "amount": -100, "category": "pay"},
			{"id": "t2", "date": "2024-02-10", "amount": 200},
		})
	})
	l := newTestHTTPLedger(t, mux)
	ctx := context.Background()
	base := domain.TransactionFilter{AccountID: "visa", From: mustParseDate("2024-01-01"), To: mustParseDate("2024-02-29")}

	asc, err := l.Transactions(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t3", "t2"}, txIDs(asc))
	assert.Equal(t, "visa", asc[0].AccountID)

	desc := base
	desc.Descending, desc.Limit = true, 2
	got, err := l.Transactions(ctx, desc)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t3"}, txIDs(got))

	excl := base
	excl.ExcludeCategoryID = "pay"
	balance, err := l.Balance(ctx, excl)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	helper := base
	helper.NotesContains = "#HELPER-SCRIPT"
	got, err = l.Transactions(ctx, helper)
	require.NoError(t, err)
	assert.Equal(t, []string{"t3"}, txIDs(got))
}

func txIDs(txs []domain.Transaction) []string {
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	return ids
}

func TestHTTPLedger_ImportAndUpdateTransaction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/budgets/budget-1/accounts/sav/transactions/import", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Transactions []map[string]any `json:"transactions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Transactions, 1)
		got := body.Transactions[0]
		assert.Equal(t, "2024-05-10", got["date"])
		assert.Equal(t, float64(-2500), got["amount"])
		assert.Equal(t, "payee-1", got["payee"])
		assert.Equal(t, true, got["cleared"])
		writeData(w, map[string][]string{"added": {"tx-new"}})
	})
	mux.HandleFunc("PATCH /v1/budgets/budget-1/transactions/tx-1", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"transaction":{"amount":7000,"notes":"n #helper-script"}}`, string(raw))
		w.WriteHeader(http.StatusOK)
	})
	l := newTestHTTPLedger(t, mux)
	ctx := context.Background()

	id, err := l.ImportTransaction(ctx, "sav", domain.NewTransaction{
		Date: mustParseDate("2024-05-10"), Amount: -2500, PayeeID: "payee-1", Notes: "adj", Cleared: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-new", id)

	amount, note := int64(7000), "n #helper-script"
	assert.NoError(t, l.UpdateTransaction(ctx, "tx-1", domain.TransactionUpdate{Amount: &amount, Notes: &note}))
}

func TestHTTPLedger_EnsurePayee(t *testing.T) {
	var created atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/budgets/budget-1/payees", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []named{{ID: "p1", Name: "KBB"}})
	})
	mux.HandleFunc("POST /v1/budgets/budget-1/payees", func(w http.ResponseWriter, r *http.Request) {
		created.Add(1)
		var body map[string]named
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Balance Adjustment", body["payee"].Name)
		writeData(w, "p2")
	})
	l := newTestHTTPLedger(t, mux)
	ctx := context.Background()

	id, err := l.EnsurePayee(ctx, "KBB")
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	id, err = l.EnsurePayee(ctx, "Balance Adjustment")
	require.NoError(t, err)
	assert.Equal(t, "p2", id)
	assert.Equal(t, int32(1), created.Load())
}

func TestHTTPLedger_Notes(t *testing.T) {
	var stored atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/budgets/budget-1/notes/account-a1", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, "kbbType:car")
	})
	mux.HandleFunc("PUT /v1/budgets/budget-1/notes/account-a1", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		stored.Store(body["data"])
	})
	l := newTestHTTPLedger(t, mux)
	ctx := context.Background()

	note, err := l.Note(ctx, "account-a1")
	require.NoError(t, err)
	assert.Equal(t, "kbbType:car", note)

	note, err = l.Note(ctx, "account-missing")
	require.NoError(t, err)
	assert.Empty(t, note)

	require.NoError(t, l.SetNote(ctx, "account-a1", "kbbType:motorcycle"))
	assert.Equal(t, "kbbType:motorcycle", stored.Load())
}

func TestHTTPLedger_CancelledContextStopsRetries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/budgets/budget-1/accounts/banksync", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	})
	l := newTestHTTPLedger(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.RunBankSync(ctx))
}
