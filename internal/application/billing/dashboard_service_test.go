package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/domain/billing"
)

func newDashboardFixture(t *testing.T, cache SnapshotCache) (*DashboardService, *MockInvoiceRepository, *MockCustomerRepository, *MockServiceRepository) {
	t.Helper()
	invoiceRepo := new(MockInvoiceRepository)
	customerRepo := new(MockCustomerRepository)
	serviceRepo := new(MockServiceRepository)
	svc := NewDashboardService(invoiceRepo, customerRepo, serviceRepo, cache, time.Minute)
	return svc, invoiceRepo, customerRepo, serviceRepo
}

func TestDashboardService_Get(t *testing.T) {
	ctx := context.Background()
	svc, invoiceRepo, customerRepo, serviceRepo := newDashboardFixture(t, nil)

	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	today := now.Truncate(24 * time.Hour)
	svc.now = func() time.Time { return now }

	customer := testCustomer(t)

	// Still stored as pending: the overdue list is driven by due dates,
	// not by whether the reconciliation pass has run.
	overdueInvoice := testInvoice(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), billing.CycleMonthly)
	overdueInvoice.CustomerID = customer.ID
	require.Equal(t, billing.StatusPending, overdueInvoice.Status)

	upcomingInvoice := testInvoice(t, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), billing.CycleMonthly)
	upcomingInvoice.CustomerID = customer.ID

	paidInvoice := testInvoice(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), billing.CycleMonthly)
	require.NoError(t, paidInvoice.MarkPaid())
	paidInvoice.CreatedAt = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	customerRepo.On("Count", ctx).Return(int64(3), nil)
	serviceRepo.On("Count", ctx).Return(int64(2), nil)
	invoiceRepo.On("Count", ctx).Return(int64(5), nil)
	invoiceRepo.On("FindOverdue", ctx, today, 0).Return([]*billing.Invoice{overdueInvoice}, nil)
	invoiceRepo.On("FindDueBetween", ctx, today, today.AddDate(0, 0, 7), 0).
		Return([]*billing.Invoice{upcomingInvoice}, nil)
	invoiceRepo.On("FindPaidSince", ctx, time.Time{}).Return([]*billing.Invoice{paidInvoice}, nil)
	customerRepo.On("FindByID", ctx, customer.ID).Return(customer, nil)

	resp, err := svc.Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.Stats.TotalCustomers)
	assert.Equal(t, int64(2), resp.Stats.TotalServices)
	assert.Equal(t, int64(5), resp.Stats.TotalInvoices)
	assert.Equal(t, 1, resp.Stats.OverdueInvoices)
	assert.Equal(t, 1, resp.Stats.UpcomingInvoices)
	assert.True(t, resp.Stats.TotalRevenue.Equal(decimal.NewFromInt(120)), "got %s", resp.Stats.TotalRevenue)

	require.Len(t, resp.OverdueInvoices, 1)
	assert.Equal(t, "Ada Lovelace", resp.OverdueInvoices[0].CustomerName)
	assert.Equal(t, 134, resp.OverdueInvoices[0].Days, "overdue since Feb 1")

	require.Len(t, resp.UpcomingInvoices, 1)
	assert.Equal(t, 5, resp.UpcomingInvoices[0].Days, "due June 20")

	require.Len(t, resp.RevenueChart.MonthlyData, 6)
	june := resp.RevenueChart.MonthlyData[5]
	assert.Equal(t, "June 2025", june.Month)
	assert.True(t, june.Revenue.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, 1, june.InvoiceCount)
	assert.True(t, resp.RevenueChart.CurrentMonthRevenue.Equal(decimal.NewFromInt(120)))
	assert.True(t, resp.RevenueChart.PreviousMonthRevenue.IsZero())
	assert.True(t, resp.RevenueChart.RevenueGrowth.IsZero(), "no previous revenue, no growth")
}

func TestBuildRevenueChart_Growth(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	previous := testInvoice(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), billing.CycleMonthly)
	require.NoError(t, previous.MarkPaid())
	previous.CreatedAt = time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)

	currentA := testInvoice(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), billing.CycleMonthly)
	require.NoError(t, currentA.MarkPaid())
	currentA.CreatedAt = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	currentB := testInvoice(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), billing.CycleMonthly)
	require.NoError(t, currentB.MarkPaid())
	currentB.CreatedAt = time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)

	chart := buildRevenueChart([]*billing.Invoice{previous, currentA, currentB}, today)

	// 120 in May, 240 in June.
	assert.True(t, chart.PreviousMonthRevenue.Equal(decimal.NewFromInt(120)))
	assert.True(t, chart.CurrentMonthRevenue.Equal(decimal.NewFromInt(240)))
	assert.True(t, chart.RevenueGrowth.Equal(decimal.NewFromInt(100)),
		"got %s", chart.RevenueGrowth)
}

func TestDashboardService_Get_CacheHit(t *testing.T) {
	ctx := context.Background()
	cache := new(MockSnapshotCache)
	svc, invoiceRepo, _, _ := newDashboardFixture(t, cache)

	cache.On("Get", ctx, dashboardCacheKey, mock.Anything).Return(true, nil)

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	invoiceRepo.AssertNotCalled(t, "Count", mock.Anything)
}

func TestDashboardService_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache := new(MockSnapshotCache)
	svc, _, _, _ := newDashboardFixture(t, cache)

	cache.On("Delete", ctx, dashboardCacheKey).Return(nil)
	require.NoError(t, svc.Invalidate(ctx))
	cache.AssertExpectations(t)
}
