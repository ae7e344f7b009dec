package gateway

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"coop-reconciliation/internal/domain"
	"coop-reconciliation/internal/intake"
)

// Schema creates the four tenant-scoped tables. Dates are stored as text so every
// upstream format reaches the intake normalizer unchanged.
const Schema = `
CREATE TABLE IF NOT EXISTS deposits (
	id                 TEXT PRIMARY KEY,
	tenant_id          TEXT NOT NULL,
	member_id          TEXT NOT NULL,
	date               TEXT,
	created_at         TEXT,
	deposit_amount     TEXT,
	installment_amount TEXT,
	interest_amount    TEXT,
	fine_amount        TEXT,
	total_amount       TEXT,
	payment_mode       TEXT
);
CREATE TABLE IF NOT EXISTS expenses (
	id           TEXT PRIMARY KEY,
	tenant_id    TEXT NOT NULL,
	date         TEXT,
	created_at   TEXT,
	amount       TEXT,
	type         TEXT,
	payment_mode TEXT,
	description  TEXT
);
CREATE TABLE IF NOT EXISTS loans (
	id           TEXT PRIMARY KEY,
	tenant_id    TEXT NOT NULL,
	member_id    TEXT NOT NULL,
	amount       TEXT,
	created_at   TEXT,
	start_date   TEXT,
	status       TEXT,
	payment_mode TEXT
);
CREATE TABLE IF NOT EXISTS members (
	id            TEXT PRIMARY KEY,
	tenant_id     TEXT NOT NULL,
	name          TEXT,
	phone         TEXT,
	join_date     TEXT,
	is_override   TEXT,
	manual_amount TEXT
);
CREATE INDEX IF NOT EXISTS idx_deposits_tenant ON deposits (tenant_id);
CREATE INDEX IF NOT EXISTS idx_expenses_tenant ON expenses (tenant_id);
CREATE INDEX IF NOT EXISTS idx_loans_tenant ON loans (tenant_id);
CREATE INDEX IF NOT EXISTS idx_members_tenant ON members (tenant_id);
`

// OpenSQLite opens the database at path with WAL and a busy timeout, limited to one
// connection.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema applies Schema. It is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SQLiteRecordRepository implements the RecordRepository interface over the tables in
// Schema. Rows are ordered by rowid so results are stable between calls.
type SQLiteRecordRepository struct {
	db  *sql.DB
	log logrus.FieldLogger
}

func NewSQLiteRecordRepository(db *sql.DB, log logrus.FieldLogger) *SQLiteRecordRepository {
	return &SQLiteRecordRepository{db: db, log: log}
}

func (r *SQLiteRecordRepository) GetDeposits(ctx context.Context, tenantID string) ([]domain.DepositEntry, error) {
	return queryCollection(ctx, r, "deposits", tenantID, intake.NormalizeDeposit)
}

func (r *SQLiteRecordRepository) GetExpenses(ctx context.Context, tenantID string) ([]domain.ExpenseEntry, error) {
	return queryCollection(ctx, r, "expenses", tenantID, intake.NormalizeExpense)
}

func (r *SQLiteRecordRepository) GetLoans(ctx context.Context, tenantID string) ([]domain.LoanRecord, error) {
	return queryCollection(ctx, r, "loans", tenantID, intake.NormalizeLoan)
}

func (r *SQLiteRecordRepository) GetMembers(ctx context.Context, tenantID string) ([]domain.MemberRecord, error) {
	return queryCollection(ctx, r, "members", tenantID, intake.NormalizeMember)
}

// queryCollection selects a table's rows for a tenant. table is always one of the
// constants above, never caller input.
func queryCollection[T any](ctx context.Context, r *SQLiteRecordRepository, table, tenantID string, normalize func(intake.RawRecord) T) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+table+" WHERE tenant_id = ? ORDER BY rowid", tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s columns: %w", table, err)
	}

	out := make([]T, 0)
	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		raw := make(intake.RawRecord, len(cols))
		for i, c := range cols {
			if values[i].Valid {
				raw[c] = values[i].String
			}
		}
		out = append(out, normalize(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}

	r.log.WithFields(logrus.Fields{"table": table, "tenant_id": tenantID, "rows": len(out)}).Debug("collection loaded")
	return out, nil
}
