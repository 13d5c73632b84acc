package jobs

import (
	"context"
	"log"

	"trznica/internal/models"
)

const defaultLowStockThreshold = 5

// LowStockSource provides the depleted-stock query, satisfied by
// repositories.ProductRepository.
type LowStockSource interface {
	ListLowStock(ctx context.Context, threshold int) ([]*models.LowStockProduct, error)
}

// StockAlertChecker scans listed products for depleted stock so
// farmers can be nudged to restock.
type StockAlertChecker struct {
	productRepo LowStockSource
	threshold   int
}

func NewStockAlertChecker(productRepo LowStockSource, threshold int) *StockAlertChecker {
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}
	return &StockAlertChecker{productRepo: productRepo, threshold: threshold}
}

// Check returns the products at or below the threshold.
func (a *StockAlertChecker) Check(ctx context.Context) ([]*models.LowStockProduct, error) {
	products, err := a.productRepo.ListLowStock(ctx, a.threshold)
	if err != nil {
		log.Printf("Low stock scan failed: %v", err)
		return nil, err
	}
	return products, nil
}

// LogAlerts writes the scan result to the application log.
// TODO: notify farmers by email once an outbound mail service exists.
func (a *StockAlertChecker) LogAlerts(alerts []*models.LowStockProduct) {
	if len(alerts) == 0 {
		log.Println("No low stock alerts")
		return
	}

	log.Printf("Low stock alerts (%d products):", len(alerts))
	for _, alert := range alerts {
		log.Printf("- '%s' (%s) has %d units left (threshold: %d)",
			alert.Name, alert.FarmName, alert.Stock, a.threshold)
	}
}

// ScheduledCheck is the entry point the scheduler invokes.
func (a *StockAlertChecker) ScheduledCheck(ctx context.Context) error {
	alerts, err := a.Check(ctx)
	if err != nil {
		return err
	}
	a.LogAlerts(alerts)
	return nil
}
