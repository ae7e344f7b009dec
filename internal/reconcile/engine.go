// Package reconcile turns one tenant's raw records and a date window into a report
// bundle. Everything here is a pure function of its inputs: there is no I/O, no clock
// and no state kept between calls.
package reconcile

import (
	"strings"

	"github.com/google/uuid"

	"coop-reconciliation/internal/domain"
)

var bundleNamespace = uuid.MustParse("6f1c2a4e-3b7d-5e21-9a8c-4d0f6e2b1c93")

// Compute runs the whole pipeline. Summary, ledger and cashbook see only the window;
// loan balances, member statements, maturity and defaulters read the full history.
func Compute(s domain.Snapshot, r domain.DateRange, p Policy) domain.ReportBundle {
	window := FilterByRange(s, r)
	loans := RecomputeLoans(s.Loans, s.Deposits, p.Allocation)
	outstanding := OutstandingByMember(loans)

	ledger, cashbook, stats := BuildLedger(window)

	return domain.ReportBundle{
		ID:            BundleID(s.TenantID, r, p),
		TenantID:      s.TenantID,
		WindowStart:   domain.FormatDate(r.Start),
		WindowEnd:     domain.FormatDate(r.End),
		AsOf:          domain.FormatDate(p.Today),
		Summary:       Summarize(window, loans, stats),
		DailyLedger:   ledger,
		Cashbook:      cashbook,
		ModeStats:     stats,
		Loans:         loans,
		MemberReports: BuildMemberReports(s.Members, s.Deposits, loans),
		Maturity:      ProjectMaturity(s.Members, s.Deposits, outstanding, p),
		Defaulters:    DetectDefaulters(loans, s.Members, p),
	}
}

// BundleID names a computation by tenant, window and reference day, so the same request
// always gets the same id.
func BundleID(tenantID string, r domain.DateRange, p Policy) string {
	key := strings.Join([]string{
		tenantID,
		domain.FormatDate(r.Start),
		domain.FormatDate(r.End),
		domain.FormatDate(p.Today),
	}, "|")
	return uuid.NewSHA1(bundleNamespace, []byte(key)).String()
}
