package services

import (
	"context"
	"time"

	"expensert/internal/aggregate"
	apperrors "expensert/internal/errors"
	"expensert/internal/models"
)

// maxTrendMonths caps how far back a trend may reach.
const maxTrendMonths = 60

// reportService computes aggregated views over a ledger.
type reportService struct {
	ledgers *LedgerRegistry
	clock   func() time.Time
}

// NewReportService creates a new ReportServicer. Trends end at the month
// of clock.
func NewReportService(ledgers *LedgerRegistry, clock func() time.Time) ReportServicer {
	if clock == nil {
		clock = time.Now
	}
	return &reportService{ledgers: ledgers, clock: clock}
}

// Summary totals the transactions dated within [from, to]. Zero bounds are
// open.
func (s *reportService) Summary(ctx context.Context, namespace string, from, to models.Date) (*aggregate.Summary, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must not be after to")
	}

	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	txs := aggregate.Filter(store.Transactions(), aggregate.TransactionFilter{From: from, To: to})
	summary := aggregate.Summarize(txs)
	return &summary, nil
}

// MonthlyReport builds the downloadable report for one month.
func (s *reportService) MonthlyReport(ctx context.Context, namespace string, month time.Month, year int) (*aggregate.Report, error) {
	if err := checkMonth(month, year); err != nil {
		return nil, err
	}

	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	snap := store.Snapshot()
	report := aggregate.MonthlyReport(snap.Transactions, snap.Categories, month, year)
	return &report, nil
}

// Trend returns per-month totals for the last months months, oldest first.
func (s *reportService) Trend(ctx context.Context, namespace string, months int) ([]aggregate.MonthTotals, error) {
	if months < 1 || months > maxTrendMonths {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 60")
	}

	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return aggregate.MonthlyTrend(store.Transactions(), months, s.clock()), nil
}

// CategoryTotals breaks down one month's transactions of txType by category.
func (s *reportService) CategoryTotals(
	ctx context.Context,
	namespace string,
	txType models.TransactionType,
	month time.Month,
	year int,
) ([]aggregate.CategoryTotal, error) {
	if !txType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if err := checkMonth(month, year); err != nil {
		return nil, err
	}

	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	snap := store.Snapshot()
	return aggregate.Breakdown(aggregate.InMonth(snap.Transactions, month, year), snap.Categories, txType), nil
}

// Week reports on the Sunday-to-Saturday week containing ref.
func (s *reportService) Week(ctx context.Context, namespace string, ref models.Date) (*PeriodReport, error) {
	if ref.IsZero() {
		ref = models.DateOf(s.clock())
	}
	from, to := aggregate.WeekBounds(ref)
	return s.period(ctx, namespace, from, to)
}

// Year reports on one calendar year.
func (s *reportService) Year(ctx context.Context, namespace string, year int) (*PeriodReport, error) {
	if year < 1 || year > 9999 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	}
	from, to := aggregate.YearBounds(year)
	return s.period(ctx, namespace, from, to)
}

func (s *reportService) period(ctx context.Context, namespace string, from, to models.Date) (*PeriodReport, error) {
	store, err := s.ledgers.Ledger(ctx, namespace)
	if err != nil {
		return nil, err
	}

	txs := aggregate.InRange(store.Transactions(), from, to)
	aggregate.SortNewestFirst(txs)
	return &PeriodReport{
		From:         from,
		To:           to,
		Summary:      aggregate.Summarize(txs),
		Transactions: txs,
	}, nil
}

func checkMonth(month time.Month, year int) error {
	if month < time.January || month > time.December {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	}
	return nil
}
