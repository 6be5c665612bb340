// Package report provides the read-only aggregation views: best
// clients, best sellers and product text search.
package report

import (
	"context"
	"fmt"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/repository"
	"github.com/montanaflynn/stats"
	"gorm.io/gorm"
)

const (
	topClientsLimit = 10
	topSellersLimit = 3
	searchLimit     = 10
)

// ClientSales ranks a client by completed-order revenue.
type ClientSales struct {
	Client domain.Client `json:"client"`
	Total  float64       `json:"total"`
}

// SellerSales ranks a salesperson by completed-order revenue.
type SellerSales struct {
	Seller domain.User `json:"seller"`
	Total  float64     `json:"total"`
}

// SalesSummary aggregates completed-order totals for the daily report
// job.
type SalesSummary struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Mean    float64 `json:"mean"`
	Largest float64 `json:"largest"`
}

type grouped struct {
	GroupID int64
	Total   float64
}

// Service runs grouping queries over the order store.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// TopClients returns up to 10 clients ranked by completed-order total.
func (s *Service) TopClients(ctx context.Context) ([]ClientSales, error) {
	var rows []grouped
	err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("client_id AS group_id, SUM(total) AS total").
		Where("status = ?", domain.OrderStatusCompleted).
		Group("client_id").
		Order("total DESC").
		Limit(topClientsLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: top clients: %v", domain.ErrInternal, err)
	}

	clients := repository.NewGormClientRepository(s.db)
	out := make([]ClientSales, 0, len(rows))
	for _, row := range rows {
		client, err := clients.GetByID(ctx, row.GroupID)
		if err != nil {
			// client rows may be gone; ranking still reflects orders
			continue
		}
		out = append(out, ClientSales{Client: *client, Total: row.Total})
	}
	return out, nil
}

// TopSellers returns up to 3 salespeople ranked by completed-order
// total.
func (s *Service) TopSellers(ctx context.Context) ([]SellerSales, error) {
	var rows []grouped
	err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("seller_id AS group_id, SUM(total) AS total").
		Where("status = ?", domain.OrderStatusCompleted).
		Group("seller_id").
		Order("total DESC").
		Limit(topSellersLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: top sellers: %v", domain.ErrInternal, err)
	}

	users := repository.NewGormUserRepository(s.db)
	out := make([]SellerSales, 0, len(rows))
	for _, row := range rows {
		seller, err := users.GetByID(ctx, row.GroupID)
		if err != nil {
			continue
		}
		out = append(out, SellerSales{Seller: *seller, Total: row.Total})
	}
	return out, nil
}

// SearchProducts is a bounded free-text catalog search.
func (s *Service) SearchProducts(ctx context.Context, text string) ([]domain.Product, error) {
	return repository.NewGormProductRepository(s.db).Search(ctx, text, searchLimit)
}

// Summary computes completed-order statistics for the daily sales
// report job.
func (s *Service) Summary(ctx context.Context) (*SalesSummary, error) {
	var totals []float64
	err := s.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusCompleted).
		Pluck("total", &totals).Error
	if err != nil {
		return nil, fmt.Errorf("%w: sales summary: %v", domain.ErrInternal, err)
	}
	summary := &SalesSummary{Orders: len(totals)}
	if len(totals) == 0 {
		return summary, nil
	}
	summary.Revenue, _ = stats.Sum(totals)
	summary.Mean, _ = stats.Mean(totals)
	summary.Largest, _ = stats.Max(totals)
	return summary, nil
}
