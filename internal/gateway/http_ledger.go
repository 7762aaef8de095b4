package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/usecase"
)

var (
	_ usecase.Ledger    = (*HTTPLedger)(nil)
	_ usecase.NoteStore = (*HTTPLedger)(nil)
)

// HTTPLedgerConfig points at a REST bridge in front of a budget file.
type HTTPLedgerConfig struct {
	URL          string
	APIKey       string
	SyncID       string
	FilePassword string
	Client       *http.Client

	// RetryInterval overrides the initial backoff interval.
	RetryInterval time.Duration
}

// HTTPLedger talks to the budget through its REST bridge. All paths are
// relative to /v1/budgets/<sync id>.
type HTTPLedger struct {
	base   string
	client *restClient
}

// NewHTTPLedger validates cfg and returns a client for it.
func NewHTTPLedger(cfg HTTPLedgerConfig) (*HTTPLedger, error) {
	if cfg.URL == "" || cfg.SyncID == "" {
		return nil, fmt.Errorf("ledger url and sync id are required")
	}
	u, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ledger url %q: %w", cfg.URL, err)
	}
	u = u.JoinPath("v1", "budgets", cfg.SyncID)

	headers := http.Header{}
	if cfg.APIKey != "" {
		headers.Set("x-api-key", cfg.APIKey)
	}
	if cfg.FilePassword != "" {
		headers.Set("budget-encryption-password", cfg.FilePassword)
	}
	return &HTTPLedger{base: u.String(), client: newRESTClient(cfg.Client, headers, cfg.RetryInterval)}, nil
}

// Close releases idle connections.
func (l *HTTPLedger) Close() error {
	l.client.http.CloseIdleConnections()
	return nil
}

func (l *HTTPLedger) url(path string, query url.Values) string {
	u := l.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

func getData[T any](ctx context.Context, l *HTTPLedger, path string, query url.Values) (T, error) {
	var env dataEnvelope[T]
	err := l.client.doJSON(ctx, http.MethodGet, l.url(path, query), nil, &env)
	return env.Data, err
}

func sendData[T any](ctx context.Context, l *HTTPLedger, method, path string, in any) (T, error) {
	var env dataEnvelope[T]
	err := l.client.doJSON(ctx, method, l.url(path, nil), in, &env)
	return env.Data, err
}

type wireTransaction struct {
	ID         string  `json:"id,omitempty"`
	Account    string  `json:"account,omitempty"`
	Date       string  `json:"date,omitempty"`
	Amount     *int64  `json:"amount,omitempty"`
	Category   string  `json:"category,omitempty"`
	Payee      string  `json:"payee,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	Cleared    bool    `json:"cleared,omitempty"`
	ImportedID string  `json:"imported_id,omitempty"`
}

func (w wireTransaction) domain() (domain.Transaction, error) {
	date, err := domain.ParseDate(w.Date)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %s date: %w", w.ID, err)
	}
	tx := domain.Transaction{
		ID:         w.ID,
		AccountID:  w.Account,
		Date:       date,
		CategoryID: w.Category,
		PayeeID:    w.Payee,
		Cleared:    w.Cleared,
	}
	if w.Amount != nil {
		tx.Amount = *w.Amount
	}
	if w.Notes != nil {
		tx.Notes = *w.Notes
	}
	return tx, nil
}

func (l *HTTPLedger) Accounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := getData[[]domain.Account](ctx, l, "/accounts", nil)
	if err != nil {
		return nil, fmt.Errorf("could not list accounts: %w", err)
	}
	return accounts, nil
}

// accountTransactions fetches the transactions of one account in the date
// range of filter. The bridge filters by date only.
func (l *HTTPLedger) accountTransactions(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	query := url.Values{}
	if !filter.From.IsZero() {
		query.Set("since_date", domain.FormatDate(filter.From))
	} else {
		query.Set("since_date", "1970-01-01")
	}
	if !filter.To.IsZero() {
		query.Set("until_date", domain.FormatDate(filter.To))
	}
	wire, err := getData[[]wireTransaction](ctx, l, "/accounts/"+url.PathEscape(accountID)+"/transactions", query)
	if err != nil {
		return nil, fmt.Errorf("could not list transactions of %s: %w", accountID, err)
	}

	txs := make([]domain.Transaction, 0, len(wire))
	for _, w := range wire {
		tx, err := w.domain()
		if err != nil {
			return nil, err
		}
		if tx.AccountID == "" {
			tx.AccountID = accountID
		}
		if filter.Matches(tx) {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

func (l *HTTPLedger) matching(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ids := []string{filter.AccountID}
	if filter.AccountID == "" {
		accounts, err := l.Accounts(ctx)
		if err != nil {
			return nil, err
		}
		ids = ids[:0]
		for _, a := range accounts {
			ids = append(ids, a.ID)
		}
	}

	var all []domain.Transaction
	for _, id := range ids {
		txs, err := l.accountTransactions(ctx, id, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, txs...)
	}
	return all, nil
}

func (l *HTTPLedger) Balance(ctx context.Context, filter domain.TransactionFilter) (int64, error) {
	txs, err := l.matching(ctx, filter)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, tx := range txs {
		sum += tx.Amount
	}
	return sum, nil
}

func (l *HTTPLedger) Transactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	txs, err := l.matching(ctx, filter)
	if err != nil {
		return nil, err
	}
	txs = usecase.Chronological(txs)
	if filter.Descending {
		for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
			txs[i], txs[j] = txs[j], txs[i]
		}
	}
	if filter.Limit > 0 && len(txs) > filter.Limit {
		txs = txs[:filter.Limit]
	}
	return txs, nil
}

type named struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	GroupID  string `json:"group_id,omitempty"`
	IsIncome bool   `json:"is_income,omitempty"`
}

func (l *HTTPLedger) ensureNamed(ctx context.Context, path, key string, want named) (string, error) {
	existing, err := getData[[]named](ctx, l, path, nil)
	if err != nil {
		return "", fmt.Errorf("could not list %s: %w", strings.TrimPrefix(path, "/"), err)
	}
	for _, n := range existing {
		if n.Name == want.Name {
			return n.ID, nil
		}
	}
	id, err := sendData[string](ctx, l, http.MethodPost, path, map[string]named{key: want})
	if err != nil {
		return "", fmt.Errorf("could not create %s %q: %w", key, want.Name, err)
	}
	return id, nil
}

func (l *HTTPLedger) EnsurePayee(ctx context.Context, name string) (string, error) {
	return l.ensureNamed(ctx, "/payees", "payee", named{Name: name})
}

func (l *HTTPLedger) EnsureCategoryGroup(ctx context.Context, name string) (string, error) {
	return l.ensureNamed(ctx, "/categorygroups", "group", named{Name: name})
}

func (l *HTTPLedger) EnsureCategory(ctx context.Context, name, groupID string, income bool) (string, error) {
	return l.ensureNamed(ctx, "/categories", "category", named{Name: name, GroupID: groupID, IsIncome: income})
}

func (l *HTTPLedger) SchedulesByName(ctx context.Context, name string) ([]domain.Schedule, error) {
	all, err := getData[[]domain.Schedule](ctx, l, "/schedules", nil)
	if err != nil {
		return nil, fmt.Errorf("could not list schedules: %w", err)
	}
	var out []domain.Schedule
	for _, s := range all {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out, nil
}

func (l *HTTPLedger) Schedule(ctx context.Context, id string) (domain.Schedule, error) {
	return getData[domain.Schedule](ctx, l, "/schedules/"+url.PathEscape(id), nil)
}

func (l *HTTPLedger) CreateSchedule(ctx context.Context, s domain.Schedule) (string, error) {
	return sendData[string](ctx, l, http.MethodPost, "/schedules", map[string]domain.Schedule{"schedule": s})
}

func (l *HTTPLedger) UpdateSchedule(ctx context.Context, s domain.Schedule) (string, error) {
	if _, err := l.client.do(ctx, http.MethodPatch, l.url("/schedules/"+url.PathEscape(s.ID), nil),
		map[string]domain.Schedule{"schedule": s}); err != nil {
		return "", err
	}
	return s.ID, nil
}

func (l *HTTPLedger) Rules(ctx context.Context) ([]domain.Rule, error) {
	return getData[[]domain.Rule](ctx, l, "/rules", nil)
}

func (l *HTTPLedger) UpdateRule(ctx context.Context, r domain.Rule) error {
	_, err := l.client.do(ctx, http.MethodPatch, l.url("/rules/"+url.PathEscape(r.ID), nil), map[string]domain.Rule{"rule": r})
	return err
}

type importResult struct {
	Added   []string `json:"added"`
	Updated []string `json:"updated"`
}

func (l *HTTPLedger) ImportTransaction(ctx context.Context, accountID string, tx domain.NewTransaction) (string, error) {
	amount, notes := tx.Amount, tx.Notes
	w := wireTransaction{
		Account:    accountID,
		Date:       domain.FormatDate(tx.Date),
		Amount:     &amount,
		Category:   tx.CategoryID,
		Payee:      tx.PayeeID,
		Notes:      &notes,
		Cleared:    tx.Cleared,
		ImportedID: tx.ImportedID,
	}
	res, err := sendData[importResult](ctx, l, http.MethodPost, "/accounts/"+url.PathEscape(accountID)+"/transactions/import",
		map[string][]wireTransaction{"transactions": {w}})
	if err != nil {
		return "", fmt.Errorf("could not import transaction: %w", err)
	}
	switch {
	case len(res.Added) > 0:
		return res.Added[0], nil
	case len(res.Updated) > 0:
		return res.Updated[0], nil
	}
	return "", nil
}

func (l *HTTPLedger) UpdateTransaction(ctx context.Context, id string, upd domain.TransactionUpdate) error {
	w := wireTransaction{Amount: upd.Amount, Notes: upd.Notes}
	_, err := l.client.do(ctx, http.MethodPatch, l.url("/transactions/"+url.PathEscape(id), nil),
		map[string]wireTransaction{"transaction": w})
	return err
}

func (l *HTTPLedger) RunBankSync(ctx context.Context) error {
	_, err := l.client.do(ctx, http.MethodPost, l.url("/accounts/banksync", nil), nil)
	return err
}

// Note returns "" for notes the bridge does not have.
func (l *HTTPLedger) Note(ctx context.Context, id string) (string, error) {
	note, err := getData[string](ctx, l, "/notes/"+url.PathEscape(id), nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("could not get note %s: %w", id, err)
	}
	return note, nil
}

func (l *HTTPLedger) SetNote(ctx context.Context, id, note string) error {
	_, err := l.client.do(ctx, http.MethodPut, l.url("/notes/"+url.PathEscape(id), nil), map[string]string{"data": note})
	return err
}
