package services

import (
	"sync"

	"nexusstore/internal/models"
	"nexusstore/internal/repositories"
	"nexusstore/pkg/viewcache"

	"go.uber.org/zap"
)

// LowStockThreshold is the cutoff below which a record is flagged for
// attention.
const LowStockThreshold = 10

// RecentLimit is how many recently created products the overview shows.
const RecentLimit = 5

const overviewKey = "dashboard:overview"

// DashboardOverview is the composed stats view.
type DashboardOverview struct {
	TotalProducts  int64                        `json:"total_products"`
	TotalStock     int64                        `json:"total_stock"`
	LowStockCount  int64                        `json:"low_stock_count"`
	InventoryValue float64                      `json:"inventory_value"`
	ByCategory     []repositories.CategoryCount `json:"by_category"`
	Recent         []models.Product             `json:"recent"`
}

// DashboardService composes the overview from independent aggregate
// queries.
type DashboardService struct {
	repo  repositories.ProductRepository
	cache *viewcache.Cache
	log   *zap.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo repositories.ProductRepository, cache *viewcache.Cache, log *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Overview runs the aggregate queries concurrently and combines them at
// the end. The queries have no ordering dependency; each one degrades to
// its zero value on failure so the page still renders.
func (s *DashboardService) Overview() DashboardOverview {
	if cached, ok := s.cache.Get(overviewKey); ok {
		return cached.(DashboardOverview)
	}

	overview := DashboardOverview{
		ByCategory: []repositories.CategoryCount{},
		Recent:     []models.Product{},
	}

	var wg sync.WaitGroup
	wg.Add(6)

	go func() {
		defer wg.Done()
		count, err := s.repo.CountAll()
		if err != nil {
			s.log.Error("failed to count products for overview", zap.Error(err))
			return
		}
		overview.TotalProducts = count
	}()

	go func() {
		defer wg.Done()
		total, err := s.repo.SumStock()
		if err != nil {
			s.log.Error("failed to sum stock for overview", zap.Error(err))
			return
		}
		overview.TotalStock = total
	}()

	go func() {
		defer wg.Done()
		count, err := s.repo.CountLowStock(LowStockThreshold)
		if err != nil {
			s.log.Error("failed to count low stock for overview", zap.Error(err))
			return
		}
		overview.LowStockCount = count
	}()

	go func() {
		defer wg.Done()
		value, err := s.repo.InventoryValue()
		if err != nil {
			s.log.Error("failed to sum inventory value for overview", zap.Error(err))
			return
		}
		overview.InventoryValue = value
	}()

	go func() {
		defer wg.Done()
		rows, err := s.repo.CountByCategory()
		if err != nil {
			s.log.Error("failed to group categories for overview", zap.Error(err))
			return
		}
		overview.ByCategory = rows
	}()

	go func() {
		defer wg.Done()
		recent, err := s.repo.Recent(RecentLimit)
		if err != nil {
			s.log.Error("failed to load recent products for overview", zap.Error(err))
			return
		}
		overview.Recent = recent
	}()

	wg.Wait()

	s.cache.Set(overviewKey, overview, ViewDashboard)
	return overview
}
