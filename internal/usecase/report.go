package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"coop-reconciliation/internal/domain"
	"coop-reconciliation/internal/logger"
	"coop-reconciliation/internal/reconcile"
)

// ErrInvalidRequest is returned when a report request fails validation.
var ErrInvalidRequest = errors.New("invalid report request")

// ReportRequest asks for one tenant's bundle over a window. Zero Start or End leaves
// that side of the window open.
type ReportRequest struct {
	TenantID string    `validate:"required,max=64,excludesall=/\\:"`
	Start    time.Time `validate:"-"`
	End      time.Time `validate:"omitempty,gtefield=Start"`
}

func (r ReportRequest) Range() domain.DateRange {
	return domain.DateRange{Start: r.Start, End: r.End}
}

// PolicyFunc builds the engine policy for a reference day.
type PolicyFunc func(today time.Time) reconcile.Policy

// ReportUseCase loads a tenant snapshot, runs the engine and caches the result.
type ReportUseCase struct {
	repo      RecordRepository
	cache     *cache.Cache
	policyFor PolicyFunc
	now       func() time.Time
	validate  *validator.Validate
	log       logrus.FieldLogger
}

// NewReportCache returns a bundle cache with the given TTL, or nil when ttl is not
// positive. A nil cache makes every Generate read the records again.
func NewReportCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		return nil
	}
	return cache.New(ttl, 2*ttl)
}

// NewReportUseCase wires the use case. reportCache may be nil to disable caching.
func NewReportUseCase(repo RecordRepository, reportCache *cache.Cache, policyFor PolicyFunc, log logrus.FieldLogger) *ReportUseCase {
	if policyFor == nil {
		policyFor = reconcile.DefaultPolicy
	}
	return &ReportUseCase{
		repo:      repo,
		cache:     reportCache,
		policyFor: policyFor,
		now:       time.Now,
		validate:  validator.New(),
		log:       log,
	}
}

// WithClock replaces the clock used to pick the reference day.
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Generate returns the report bundle for req. A cached bundle is reused until the cache
// TTL expires, so whoever writes a tenant's records must call Invalidate afterwards. The
// returned bundle may be shared with other callers and must not be modified.
func (uc *ReportUseCase) Generate(ctx context.Context, req ReportRequest) (*domain.ReportBundle, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	log := logger.WithTenant(uc.log, req.TenantID)

	policy := uc.policyFor(uc.now())
	key := cacheKey(req.TenantID, reconcile.BundleID(req.TenantID, req.Range(), policy))
	if uc.cache != nil {
		if cached, ok := uc.cache.Get(key); ok {
			log.WithField("report_id", cached.(*domain.ReportBundle).ID).Debug("report served from cache")
			return cached.(*domain.ReportBundle), nil
		}
	}

	snapshot, err := uc.LoadSnapshot(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	bundle := reconcile.Compute(snapshot, req.Range(), policy)
	log.WithFields(logrus.Fields{
		"report_id":  bundle.ID,
		"deposits":   len(snapshot.Deposits),
		"expenses":   len(snapshot.Expenses),
		"loans":      len(snapshot.Loans),
		"members":    len(snapshot.Members),
		"days":       len(bundle.DailyLedger),
		"defaulters": len(bundle.Defaulters),
	}).Info("report computed")

	if uc.cache != nil {
		uc.cache.Set(key, &bundle, cache.DefaultExpiration)
	}
	return &bundle, nil
}

// LoadSnapshot reads all four collections for a tenant.
func (uc *ReportUseCase) LoadSnapshot(ctx context.Context, tenantID string) (domain.Snapshot, error) {
	s := domain.Snapshot{TenantID: tenantID}
	var err error

	if s.Deposits, err = uc.repo.GetDeposits(ctx, tenantID); err != nil {
		return domain.Snapshot{}, fmt.Errorf("could not get deposits: %w", err)
	}
	if s.Expenses, err = uc.repo.GetExpenses(ctx, tenantID); err != nil {
		return domain.Snapshot{}, fmt.Errorf("could not get expenses: %w", err)
	}
	if s.Loans, err = uc.repo.GetLoans(ctx, tenantID); err != nil {
		return domain.Snapshot{}, fmt.Errorf("could not get loans: %w", err)
	}
	if s.Members, err = uc.repo.GetMembers(ctx, tenantID); err != nil {
		return domain.Snapshot{}, fmt.Errorf("could not get members: %w", err)
	}
	return s, nil
}

// Invalidate drops every cached bundle of a tenant. Call it after the tenant's records
// change.
func (uc *ReportUseCase) Invalidate(tenantID string) {
	if uc.cache == nil {
		return
	}
	prefix := cacheKey(tenantID, "")
	for k := range uc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			uc.cache.Delete(k)
		}
	}
}

func cacheKey(tenantID, reportID string) string {
	return tenantID + ":" + reportID
}
