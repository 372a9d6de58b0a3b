package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/partner"
)

// SnapshotCache caches computed dashboard snapshots. Implementations
// must treat a miss as (false, nil).
type SnapshotCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const dashboardCacheKey = "dashboard:snapshot"

// DashboardStats aggregates headline counts and revenue
type DashboardStats struct {
	TotalCustomers   int64           `json:"total_customers"`
	TotalServices    int64           `json:"total_services"`
	TotalInvoices    int64           `json:"total_invoices"`
	OverdueInvoices  int             `json:"overdue_invoices"`
	UpcomingInvoices int             `json:"upcoming_invoices"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

// InvoiceDueSummary is one row in the overdue/upcoming lists
type InvoiceDueSummary struct {
	ID           uuid.UUID       `json:"id"`
	CustomerName string          `json:"customer_name"`
	Description  string          `json:"description"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	DueDate      time.Time       `json:"due_date"`
	Days         int             `json:"days"`
}

// MonthlyRevenue is one bucket of the revenue chart
type MonthlyRevenue struct {
	Month        string          `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	InvoiceCount int             `json:"invoice_count"`
}

// RevenueChart covers the trailing six months of paid revenue.
// RevenueGrowth is the current month's revenue relative to the
// previous month's, as a percentage; zero when the previous month had
// no revenue.
type RevenueChart struct {
	MonthlyData          []MonthlyRevenue `json:"monthly_data"`
	CurrentMonthRevenue  decimal.Decimal  `json:"current_month_revenue"`
	PreviousMonthRevenue decimal.Decimal  `json:"previous_month_revenue"`
	RevenueGrowth        decimal.Decimal  `json:"revenue_growth"`
}

// DashboardResponse is the full dashboard snapshot
type DashboardResponse struct {
	Stats            DashboardStats      `json:"stats"`
	OverdueInvoices  []InvoiceDueSummary `json:"overdue_invoices"`
	UpcomingInvoices []InvoiceDueSummary `json:"upcoming_invoices"`
	RevenueChart     RevenueChart        `json:"revenue_chart"`
	GeneratedAt      time.Time           `json:"generated_at"`
}

const (
	upcomingWindowDays = 7
	dueListLimit       = 10
	revenueChartMonths = 6
)

// DashboardService computes the billing dashboard: headline counts,
// revenue from paid invoices, top overdue and upcoming invoices, and
// a six-month revenue chart. Snapshots are cached briefly since the
// dashboard is read far more often than the books change.
type DashboardService struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo partner.CustomerRepository
	serviceRepo  catalog.ServiceRepository
	cache        SnapshotCache
	cacheTTL     time.Duration
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService. cache may be nil
// to disable snapshot caching.
func NewDashboardService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	serviceRepo catalog.ServiceRepository,
	cache SnapshotCache,
	cacheTTL time.Duration,
) *DashboardService {
	return &DashboardService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		serviceRepo:  serviceRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the dashboard snapshot, from cache when fresh
func (s *DashboardService) Get(ctx context.Context) (*DashboardResponse, error) {
	if s.cache != nil {
		var cached DashboardResponse
		if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	snapshot, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, dashboardCacheKey, snapshot, s.cacheTTL)
	}

	return snapshot, nil
}

// Invalidate drops the cached snapshot, forcing the next Get to rebuild
func (s *DashboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, dashboardCacheKey)
}

func (s *DashboardService) build(ctx context.Context) (*DashboardResponse, error) {
	now := s.now()
	today := now.Truncate(24 * time.Hour)

	totalCustomers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalServices, err := s.serviceRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalInvoices, err := s.invoiceRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	overdue, err := s.invoiceRepo.FindOverdue(ctx, today, 0)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.invoiceRepo.FindDueBetween(ctx, today, today.AddDate(0, 0, upcomingWindowDays), 0)
	if err != nil {
		return nil, err
	}

	paid, err := s.invoiceRepo.FindPaidSince(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	totalRevenue := decimal.Zero
	for _, invoice := range paid {
		totalRevenue = totalRevenue.Add(invoice.TotalAmount())
	}

	snapshot := &DashboardResponse{
		Stats: DashboardStats{
			TotalCustomers:   totalCustomers,
			TotalServices:    totalServices,
			TotalInvoices:    totalInvoices,
			OverdueInvoices:  len(overdue),
			UpcomingInvoices: len(upcoming),
			TotalRevenue:     totalRevenue.RoundBank(2),
		},
		OverdueInvoices:  s.dueSummaries(ctx, overdue, today, true),
		UpcomingInvoices: s.dueSummaries(ctx, upcoming, today, false),
		RevenueChart:     buildRevenueChart(paid, today),
		GeneratedAt:      now,
	}

	return snapshot, nil
}

// dueSummaries maps invoices into dashboard rows, at most dueListLimit
// of them. overdue controls whether Days counts days past or days until
// the earliest due date.
func (s *DashboardService) dueSummaries(ctx context.Context, invoices []*billing.Invoice, today time.Time, overdue bool) []InvoiceDueSummary {
	summaries := make([]InvoiceDueSummary, 0, dueListLimit)
	for _, invoice := range invoices {
		if len(summaries) == dueListLimit {
			break
		}

		customerName := ""
		if customer, err := s.customerRepo.FindByID(ctx, invoice.CustomerID); err == nil {
			customerName = customer.FullName
		}

		dueDate := invoice.EarliestDueDate()
		days := int(dueDate.Sub(today).Hours() / 24)
		if overdue {
			days = -days
		}

		summaries = append(summaries, InvoiceDueSummary{
			ID:           invoice.ID,
			CustomerName: customerName,
			Description:  invoice.Description,
			TotalAmount:  invoice.TotalAmount(),
			DueDate:      dueDate,
			Days:         days,
		})
	}
	return summaries
}

// buildRevenueChart buckets paid invoices by creation month over the
// trailing six months.
func buildRevenueChart(paid []*billing.Invoice, today time.Time) RevenueChart {
	chart := RevenueChart{
		MonthlyData:          make([]MonthlyRevenue, 0, revenueChartMonths),
		CurrentMonthRevenue:  decimal.Zero,
		PreviousMonthRevenue: decimal.Zero,
		RevenueGrowth:        decimal.Zero,
	}

	currentMonthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := revenueChartMonths - 1; i >= 0; i-- {
		bucketStart := currentMonthStart.AddDate(0, -i, 0)
		bucketEnd := bucketStart.AddDate(0, 1, 0)

		revenue := decimal.Zero
		count := 0
		for _, invoice := range paid {
			created := invoice.CreatedAt.UTC()
			if created.Before(bucketStart) || !created.Before(bucketEnd) {
				continue
			}
			revenue = revenue.Add(invoice.TotalAmount())
			count++
		}

		revenue = revenue.RoundBank(2)
		chart.MonthlyData = append(chart.MonthlyData, MonthlyRevenue{
			Month:        bucketStart.Format("January 2006"),
			Revenue:      revenue,
			InvoiceCount: count,
		})

		switch i {
		case 0:
			chart.CurrentMonthRevenue = revenue
		case 1:
			chart.PreviousMonthRevenue = revenue
		}
	}

	if chart.PreviousMonthRevenue.IsPositive() {
		chart.RevenueGrowth = chart.CurrentMonthRevenue.
			Sub(chart.PreviousMonthRevenue).
			Div(chart.PreviousMonthRevenue).
			Mul(decimal.NewFromInt(100)).
			RoundBank(2)
	}

	return chart
}
