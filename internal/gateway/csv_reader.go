package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"coop-reconciliation/internal/domain"
	"coop-reconciliation/internal/intake"
)

// File names inside a tenant directory.
const (
	DepositsFile = "deposits.csv"
	ExpensesFile = "expenses.csv"
	LoansFile    = "loans.csv"
	MembersFile  = "members.csv"
)

// CSVRecordRepository implements the RecordRepository interface over a directory tree
// laid out as <root>/<tenantID>/<collection>.csv. Columns are matched by header name.
type CSVRecordRepository struct {
	root string
	log  logrus.FieldLogger
}

// NewCSVRecordRepository creates a new repository instance rooted at root.
func NewCSVRecordRepository(root string, log logrus.FieldLogger) *CSVRecordRepository {
	return &CSVRecordRepository{root: root, log: log}
}

func (r *CSVRecordRepository) GetDeposits(ctx context.Context, tenantID string) ([]domain.DepositEntry, error) {
	return readCollection(r, tenantID, DepositsFile, intake.NormalizeDeposit)
}

func (r *CSVRecordRepository) GetExpenses(ctx context.Context, tenantID string) ([]domain.ExpenseEntry, error) {
	return readCollection(r, tenantID, ExpensesFile, intake.NormalizeExpense)
}

func (r *CSVRecordRepository) GetLoans(ctx context.Context, tenantID string) ([]domain.LoanRecord, error) {
	return readCollection(r, tenantID, LoansFile, intake.NormalizeLoan)
}

func (r *CSVRecordRepository) GetMembers(ctx context.Context, tenantID string) ([]domain.MemberRecord, error) {
	return readCollection(r, tenantID, MembersFile, intake.NormalizeMember)
}

// readCollection reads one tenant file. A missing file is an empty collection.
func readCollection[T any](r *CSVRecordRepository, tenantID, name string, normalize func(intake.RawRecord) T) ([]T, error) {
	if tenantID == "" || tenantID != filepath.Base(tenantID) || strings.HasPrefix(tenantID, ".") {
		return nil, fmt.Errorf("invalid tenant id %q", tenantID)
	}
	path := filepath.Join(r.root, tenantID, name)

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		r.log.WithField("path", path).Debug("collection file not found, treating as empty")
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	raws, err := ReadRawCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		out = append(out, normalize(raw))
	}
	r.log.WithFields(logrus.Fields{"path": path, "rows": len(out)}).Debug("collection loaded")
	return out, nil
}

// ReadRawCSV reads a headed CSV stream into raw records. Short rows only carry the
// columns they have; an empty stream has no records.
func ReadRawCSV(in io.Reader) ([]intake.RawRecord, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var records []intake.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		raw := make(intake.RawRecord, len(header))
		for i, v := range row {
			if i < len(header) {
				raw[header[i]] = v
			}
		}
		records = append(records, raw)
	}
	return records, nil
}
