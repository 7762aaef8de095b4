package gateway

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/usecase"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	_ usecase.Ledger    = (*SQLiteLedger)(nil)
	_ usecase.NoteStore = (*SQLiteLedger)(nil)
)

// SQLiteLedger is a local ledger backed by a sqlite file.
type SQLiteLedger struct {
	db *sql.DB
}

// OpenSQLiteLedger opens (creating if needed) the database at path and applies
// pending migrations.
func OpenSQLiteLedger(path string) (*SQLiteLedger, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite ledger %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate sqlite ledger %s: %w", path, err)
	}
	return &SQLiteLedger{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	// m.Close would close db as well.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the database.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// EnsureAccount returns the id of the account named a.Name, creating it from a
// when missing.
func (l *SQLiteLedger) EnsureAccount(ctx context.Context, a domain.Account) (string, error) {
	var id string
	err := l.db.QueryRowContext(ctx, `SELECT id FROM accounts WHERE name = ?`, a.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, offbudget, closed, sync_source, sync_account_id) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.OffBudget, a.Closed, a.SyncSource, a.SyncAccountID)
	if err != nil {
		return "", fmt.Errorf("could not create account %q: %w", a.Name, err)
	}
	return a.ID, nil
}

func (l *SQLiteLedger) Accounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, name, offbudget, closed, sync_source, sync_account_id FROM accounts ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.OffBudget, &a.Closed, &a.SyncSource, &a.SyncAccountID); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// filterClause renders the WHERE clause for f.
func filterClause(f domain.TransactionFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.AccountID != "" {
		conds, args = append(conds, "account_id = ?"), append(args, f.AccountID)
	}
	if f.CategoryID != "" {
		conds, args = append(conds, "category_id = ?"), append(args, f.CategoryID)
	}
	if f.ExcludeCategoryID != "" {
		conds, args = append(conds, "(category_id IS NULL OR category_id <> ?)"), append(args, f.ExcludeCategoryID)
	}
	if !f.From.IsZero() {
		conds, args = append(conds, "date >= ?"), append(args, domain.FormatDate(f.From))
	}
	if !f.To.IsZero() {
		conds, args = append(conds, "date <= ?"), append(args, domain.FormatDate(f.To))
	}
	if f.NotesContains != "" {
		conds, args = append(conds, "instr(lower(notes), lower(?)) > 0"), append(args, f.NotesContains)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (l *SQLiteLedger) Balance(ctx context.Context, filter domain.TransactionFilter) (int64, error) {
	where, args := filterClause(filter)
	var sum int64
	err := l.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions`+where, args...).Scan(&sum)
	return sum, err
}

func (l *SQLiteLedger) Transactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	where, args := filterClause(filter)
	query := `SELECT id, account_id, date, amount, COALESCE(category_id, ''), COALESCE(payee_id, ''), notes, cleared FROM transactions` + where
	if filter.Descending {
		query += ` ORDER BY date DESC, rowid DESC`
	} else {
		query += ` ORDER BY date, rowid`
	}
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var (
			tx   domain.Transaction
			date string
		)
		if err := rows.Scan(&tx.ID, &tx.AccountID, &date, &tx.Amount, &tx.CategoryID, &tx.PayeeID, &tx.Notes, &tx.Cleared); err != nil {
			return nil, err
		}
		if tx.Date, err = domain.ParseDate(date); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// ensureNamed returns the id of the row of table called name, inserting one
// with extra columns when missing.
func (l *SQLiteLedger) ensureNamed(ctx context.Context, table, name string, extra map[string]any) (string, error) {
	var id string
	err := l.db.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	id = uuid.NewString()
	cols, marks, args := []string{"id", "name"}, []string{"?", "?"}, []any{id, name}
	for col, v := range extra {
		cols, marks, args = append(cols, col), append(marks, "?"), append(args, v)
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO `+table+` (`+strings.Join(cols, ", ")+`) VALUES (`+strings.Join(marks, ", ")+`)`, args...)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (l *SQLiteLedger) EnsurePayee(ctx context.Context, name string) (string, error) {
	return l.ensureNamed(ctx, "payees", name, nil)
}

func (l *SQLiteLedger) EnsureCategoryGroup(ctx context.Context, name string) (string, error) {
	return l.ensureNamed(ctx, "category_groups", name, nil)
}

// EnsureCategory looks categories up by name only; an existing category keeps its group.
func (l *SQLiteLedger) EnsureCategory(ctx context.Context, name, groupID string, income bool) (string, error) {
	return l.ensureNamed(ctx, "categories", name, map[string]any{"group_id": groupID, "is_income": income})
}

func scanSchedule(scan func(...any) error) (domain.Schedule, error) {
	var (
		s     domain.Schedule
		conds string
	)
	if err := scan(&s.ID, &s.Name, &s.RuleID, &conds); err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(conds), &s.Conditions); err != nil {
		return s, fmt.Errorf("schedule %s conditions: %w", s.ID, err)
	}
	return s, nil
}

func (l *SQLiteLedger) SchedulesByName(ctx context.Context, name string) ([]domain.Schedule, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT id, name, rule_id, conditions FROM schedules WHERE name = ?`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (l *SQLiteLedger) Schedule(ctx context.Context, id string) (domain.Schedule, error) {
	row := l.db.QueryRowContext(ctx, `SELECT id, name, rule_id, conditions FROM schedules WHERE id = ?`, id)
	s, err := scanSchedule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("schedule %s: %w", id, ErrNotFound)
	}
	return s, err
}

// CreateSchedule stores s together with a new rule whose only action links
// matching transactions to the schedule.
func (l *SQLiteLedger) CreateSchedule(ctx context.Context, s domain.Schedule) (string, error) {
	conds, err := json.Marshal(s.Conditions)
	if err != nil {
		return "", err
	}
	s.ID, s.RuleID = uuid.NewString(), uuid.NewString()
	actions, err := json.Marshal([]domain.RuleAction{domain.LinkSchedule(s.ID)})
	if err != nil {
		return "", err
	}

	err = l.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rules (id, stage, conditions, actions) VALUES (?, ?, ?, ?)`,
			s.RuleID, "", string(conds), string(actions)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schedules (id, name, rule_id, conditions) VALUES (?, ?, ?, ?)`,
			s.ID, s.Name, s.RuleID, string(conds))
		return err
	})
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

func (l *SQLiteLedger) UpdateSchedule(ctx context.Context, s domain.Schedule) (string, error) {
	conds, err := json.Marshal(s.Conditions)
	if err != nil {
		return "", err
	}
	res, err := l.db.ExecContext(ctx, `UPDATE schedules SET name = ?, conditions = ? WHERE id = ?`, s.Name, string(conds), s.ID)
	if err != nil {
		return "", err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", fmt.Errorf("schedule %s: %w", s.ID, ErrNotFound)
	}
	return s.ID, nil
}

func (l *SQLiteLedger) Rules(ctx context.Context) ([]domain.Rule, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT id, stage, conditions, actions FROM rules ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.Rule
	for rows.Next() {
		var (
			r              domain.Rule
			conds, actions string
		)
		if err := rows.Scan(&r.ID, &r.Stage, &conds, &actions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(conds), &r.Conditions); err != nil {
			return nil, fmt.Errorf("rule %s conditions: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(actions), &r.Actions); err != nil {
			return nil, fmt.Errorf("rule %s actions: %w", r.ID, err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (l *SQLiteLedger) UpdateRule(ctx context.Context, r domain.Rule) error {
	conds, err := json.Marshal(r.Conditions)
	if err != nil {
		return err
	}
	actions, err := json.Marshal(r.Actions)
	if err != nil {
		return err
	}
	res, err := l.db.ExecContext(ctx, `UPDATE rules SET stage = ?, conditions = ?, actions = ? WHERE id = ?`,
		r.Stage, string(conds), string(actions), r.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rule %s: %w", r.ID, ErrNotFound)
	}
	return nil
}

// ImportTransaction inserts tx. A transaction already imported into the
// account under the same ImportedID is returned instead of duplicated.
func (l *SQLiteLedger) ImportTransaction(ctx context.Context, accountID string, tx domain.NewTransaction) (string, error) {
	var imported sql.NullString
	if tx.ImportedID != "" {
		var id string
		err := l.db.QueryRowContext(ctx,
			`SELECT id FROM transactions WHERE account_id = ? AND imported_id = ?`, accountID, tx.ImportedID).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		imported = sql.NullString{String: tx.ImportedID, Valid: true}
	}

	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, date, amount, category_id, payee_id, notes, cleared, imported_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, accountID, domain.FormatDate(tx.Date), tx.Amount,
		nullString(tx.CategoryID), nullString(tx.PayeeID), tx.Notes, tx.Cleared, imported)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (l *SQLiteLedger) UpdateTransaction(ctx context.Context, id string, upd domain.TransactionUpdate) error {
	var (
		sets []string
		args []any
	)
	if upd.Amount != nil {
		sets, args = append(sets, "amount = ?"), append(args, *upd.Amount)
	}
	if upd.Notes != nil {
		sets, args = append(sets, "notes = ?"), append(args, *upd.Notes)
	}
	if len(sets) == 0 {
		return nil
	}
	res, err := l.db.ExecContext(ctx, `UPDATE transactions SET `+strings.Join(sets, ", ")+` WHERE id = ?`, append(args, id)...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return nil
}

// RunBankSync is a no-op; a local ledger has no linked banks.
func (l *SQLiteLedger) RunBankSync(ctx context.Context) error {
	return nil
}

// Note returns the note stored under id, or "" when there is none.
func (l *SQLiteLedger) Note(ctx context.Context, id string) (string, error) {
	var note string
	err := l.db.QueryRowContext(ctx, `SELECT note FROM notes WHERE id = ?`, id).Scan(&note)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return note, err
}

func (l *SQLiteLedger) SetNote(ctx context.Context, id, note string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO notes (id, note) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET note = excluded.note`, id, note)
	return err
}

func (l *SQLiteLedger) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
