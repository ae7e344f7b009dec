package usecase

import (
	"context"

	"coop-reconciliation/internal/domain"
)

// RecordRepository fetches one tenant's raw records. Each call returns the full
// collection; there is no paging.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go RecordRepository
type RecordRepository interface {
	GetDeposits(ctx context.Context, tenantID string) ([]domain.DepositEntry, error)
	GetExpenses(ctx context.Context, tenantID string) ([]domain.ExpenseEntry, error)
	GetLoans(ctx context.Context, tenantID string) ([]domain.LoanRecord, error)
	GetMembers(ctx context.Context, tenantID string) ([]domain.MemberRecord, error)
}
