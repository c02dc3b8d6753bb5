package dashboard

import (
	"context"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SeriesDays is the length of the sales series
const SeriesDays = 7

// ProductCounter counts a tenant's products
type ProductCounter interface {
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// SalesPoint is one day of the sales series
type SalesPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is the admin dashboard overview
type Summary struct {
	TotalProducts int64           `json:"totalProducts"`
	TotalOrders   int64           `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	SalesOverTime []SalesPoint    `json:"salesOverTime"`
}

// SummaryService builds the dashboard overview
type SummaryService struct {
	products ProductCounter
	orders   order.Repository
	now      func() time.Time
	logger   *zap.Logger
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(products ProductCounter, orders order.Repository, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		products: products,
		orders:   orders,
		now:      time.Now,
		logger:   logger,
	}
}

// GetSummary returns counts, paid revenue and the daily paid revenue of the
// last SeriesDays days, oldest first. Days without sales are zero.
func (s *SummaryService) GetSummary(ctx context.Context, tenantID uuid.UUID) (*Summary, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(SeriesDays - 1))

	var (
		summary Summary
		daily   []order.DailyAmount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TotalProducts, err = s.products.CountForTenant(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalOrders, err = s.orders.CountForTenant(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalRevenue, err = s.orders.SumPaidRevenue(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		daily, err = s.orders.DailyRevenueSince(gctx, tenantID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to build dashboard summary", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return nil, err
	}

	byDay := make(map[string]decimal.Decimal, len(daily))
	for _, d := range daily {
		key := d.Date.UTC().Format(time.DateOnly)
		byDay[key] = byDay[key].Add(d.Amount)
	}
	summary.SalesOverTime = make([]SalesPoint, SeriesDays)
	for i := range SeriesDays {
		key := since.AddDate(0, 0, i).Format(time.DateOnly)
		summary.SalesOverTime[i] = SalesPoint{Date: key, Amount: byDay[key]}
	}
	return &summary, nil
}
