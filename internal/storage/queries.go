package storage

import (
	"context"
	"database/sql"

	"finview/internal/core"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type User struct {
	UserID        string
	Name          string
	TotalIncome   core.Money
	TotalExpenses core.Money
	Balance       core.Money
}

const getUser = `SELECT user_id, name, total_income, total_expenses, balance
FROM users WHERE user_id = ?`

func (q *Queries) GetUser(ctx context.Context, userID string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, userID)
	var u User
	err := row.Scan(&u.UserID, &u.Name, &u.TotalIncome, &u.TotalExpenses, &u.Balance)
	return u, err
}

const upsertUser = `INSERT INTO users (user_id, name, total_income, total_expenses, balance)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    name = excluded.name,
    total_income = excluded.total_income,
    total_expenses = excluded.total_expenses,
    balance = excluded.balance`

func (q *Queries) UpsertUser(ctx context.Context, u User) error {
	_, err := q.db.ExecContext(ctx, upsertUser, u.UserID, u.Name, u.TotalIncome, u.TotalExpenses, u.Balance)
	return err
}

const listUserIDs = `SELECT user_id FROM users ORDER BY user_id`

func (q *Queries) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listUserIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	return items, rows.Err()
}

const listCategorySpend = `SELECT name, amount FROM category_spend
WHERE user_id = ? ORDER BY position`

func (q *Queries) ListCategorySpend(ctx context.Context, userID string) ([]core.CategorySpend, error) {
	rows, err := q.db.QueryContext(ctx, listCategorySpend, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []core.CategorySpend
	for rows.Next() {
		var i core.CategorySpend
		if err := rows.Scan(&i.Name, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listInvestments = `SELECT name, invested, current_value FROM investments
WHERE user_id = ? ORDER BY position`

func (q *Queries) ListInvestments(ctx context.Context, userID string) ([]core.Investment, error) {
	rows, err := q.db.QueryContext(ctx, listInvestments, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []core.Investment
	for rows.Next() {
		var i core.Investment
		if err := rows.Scan(&i.Name, &i.Invested, &i.CurrentValue); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listSIPContributions = `SELECT fund, monthly_amount, total_contributed FROM sip_contributions
WHERE user_id = ? ORDER BY position`

func (q *Queries) ListSIPContributions(ctx context.Context, userID string) ([]core.SIPContribution, error) {
	rows, err := q.db.QueryContext(ctx, listSIPContributions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []core.SIPContribution
	for rows.Next() {
		var i core.SIPContribution
		if err := rows.Scan(&i.Fund, &i.MonthlyAmount, &i.TotalContributed); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type TransactionRow struct {
	Title      string
	Amount     core.Money
	Type       string
	Category   string
	OccurredOn string
}

const listTransactions = `SELECT title, amount, type, category, occurred_on FROM transactions
WHERE user_id = ? ORDER BY position`

func (q *Queries) ListTransactions(ctx context.Context, userID string) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.Title, &i.Amount, &i.Type, &i.Category, &i.OccurredOn); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteCategorySpend = `DELETE FROM category_spend WHERE user_id = ?`
const deleteInvestments = `DELETE FROM investments WHERE user_id = ?`
const deleteSIPContributions = `DELETE FROM sip_contributions WHERE user_id = ?`
const deleteTransactions = `DELETE FROM transactions WHERE user_id = ?`

// DeleteUserChildren clears every per-user table except users itself.
func (q *Queries) DeleteUserChildren(ctx context.Context, userID string) error {
	for _, stmt := range []string{deleteCategorySpend, deleteInvestments, deleteSIPContributions, deleteTransactions} {
		if _, err := q.db.ExecContext(ctx, stmt, userID); err != nil {
			return err
		}
	}
	return nil
}

const insertCategorySpend = `INSERT INTO category_spend (user_id, position, name, amount) VALUES (?, ?, ?, ?)`

func (q *Queries) InsertCategorySpend(ctx context.Context, userID string, position int, c core.CategorySpend) error {
	_, err := q.db.ExecContext(ctx, insertCategorySpend, userID, position, c.Name, c.Amount)
	return err
}

const insertInvestment = `INSERT INTO investments (user_id, position, name, invested, current_value) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertInvestment(ctx context.Context, userID string, position int, i core.Investment) error {
	_, err := q.db.ExecContext(ctx, insertInvestment, userID, position, i.Name, i.Invested, i.CurrentValue)
	return err
}

const insertSIPContribution = `INSERT INTO sip_contributions (user_id, position, fund, monthly_amount, total_contributed) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertSIPContribution(ctx context.Context, userID string, position int, s core.SIPContribution) error {
	_, err := q.db.ExecContext(ctx, insertSIPContribution, userID, position, s.Fund, s.MonthlyAmount, s.TotalContributed)
	return err
}

const insertTransaction = `INSERT INTO transactions (user_id, position, title, amount, type, category, occurred_on) VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, userID string, position int, t TransactionRow) error {
	_, err := q.db.ExecContext(ctx, insertTransaction, userID, position, t.Title, t.Amount, t.Type, t.Category, t.OccurredOn)
	return err
}

type ConversationLogRow struct {
	ID                 string
	UserID             string
	Message            string
	Reply              string
	Rule               string
	TrainingSystemUsed bool
	CreatedAt          string
}

const insertConversationLog = `INSERT INTO conversation_logs (id, user_id, message, reply, rule, training_system_used, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`

// InsertConversationLog reports whether a new row was written.
func (q *Queries) InsertConversationLog(ctx context.Context, l ConversationLogRow) (bool, error) {
	res, err := q.db.ExecContext(ctx, insertConversationLog,
		l.ID, l.UserID, l.Message, l.Reply, l.Rule, l.TrainingSystemUsed, l.CreatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

const getPendingMirrorLogs = `SELECT id, user_id, message, reply, rule, training_system_used, created_at
FROM conversation_logs
WHERE mirrored_at IS NULL AND mirror_attempts < ?
ORDER BY mirror_attempts, created_at, id
LIMIT ?`

func (q *Queries) GetPendingMirrorLogs(ctx context.Context, maxAttempts, limit int64) ([]ConversationLogRow, error) {
	rows, err := q.db.QueryContext(ctx, getPendingMirrorLogs, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ConversationLogRow
	for rows.Next() {
		var i ConversationLogRow
		if err := rows.Scan(&i.ID, &i.UserID, &i.Message, &i.Reply, &i.Rule, &i.TrainingSystemUsed, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const markConversationMirrored = `UPDATE conversation_logs SET mirrored_at = ? WHERE id = ? AND mirrored_at IS NULL`

func (q *Queries) MarkConversationMirrored(ctx context.Context, id, at string) error {
	_, err := q.db.ExecContext(ctx, markConversationMirrored, at, id)
	return err
}

const incrementMirrorAttempt = `UPDATE conversation_logs
SET mirror_attempts = mirror_attempts + 1, mirror_error = ?
WHERE id = ? AND mirrored_at IS NULL`

func (q *Queries) IncrementMirrorAttempt(ctx context.Context, id, reason string) error {
	_, err := q.db.ExecContext(ctx, incrementMirrorAttempt, reason, id)
	return err
}

const countConversationLogs = `SELECT COUNT(*) FROM conversation_logs`

func (q *Queries) CountConversationLogs(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countConversationLogs).Scan(&n)
	return n, err
}
