package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/NunoCastro30/TechFlow/internal/orders/entity"
	"github.com/NunoCastro30/TechFlow/internal/orders/repository"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"go.uber.org/zap"
)

// Shortfall is one bill-of-materials entry the current stock cannot cover.
type Shortfall struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	RawMaterialID   string `json:"raw_material_id"`
	RawMaterialName string `json:"raw_material_name"`
	Required        int    `json:"required"`
	Available       int    `json:"available"`
}

// FeasibilityReport is the outcome of checking an order against stock.
type FeasibilityReport struct {
	OrderID    string      `json:"order_id"`
	Feasible   bool        `json:"feasible"`
	Shortfalls []Shortfall `json:"shortfalls,omitempty"`
}

// FeasibilityService expands an order's products through their bills of
// materials and checks each entry against current stock. A shortage flags the
// order and raises one consolidated notification; it never blocks or fails
// the calling operation.
type FeasibilityService struct {
	orders    *repository.ClientOrderRepository
	notifier  notify.Notifier
	logger    *zap.Logger
	recipient string
}

func NewFeasibilityService(orders *repository.ClientOrderRepository, notifier notify.Notifier, logger *zap.Logger, recipient string) *FeasibilityService {
	return &FeasibilityService{
		orders:    orders,
		notifier:  notifier,
		logger:    logger,
		recipient: recipient,
	}
}

// CheckOrder computes the feasibility report for one order. Any shortfall
// moves the order to stock_shortage, whatever state it is in; the flag is
// never cleared here, restocking workflows do that explicitly.
func (s *FeasibilityService) CheckOrder(ctx context.Context, orderID string) (*FeasibilityReport, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	report := buildReport(order)
	if report.Feasible {
		return report, nil
	}

	if order.Status != entity.ClientOrderStatusStockShortage {
		order.Status = entity.ClientOrderStatusStockShortage
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, err
		}
	}

	s.notifyShortage(ctx, order, report)
	return report, nil
}

// buildReport compares every bill-of-materials entry against stock on its
// own. Two order lines drawing on the same material do not pool their demand;
// each entry stands or falls by itself.
func buildReport(order *entity.ClientOrder) *FeasibilityReport {
	report := &FeasibilityReport{OrderID: order.ID, Feasible: true}

	for _, line := range order.Items {
		if line.Product == nil {
			continue
		}
		for _, bom := range line.Product.Materials {
			required := bom.Quantity * line.Quantity
			available := 0
			name := bom.RawMaterialID
			if bom.RawMaterial != nil {
				available = bom.RawMaterial.Quantity
				name = bom.RawMaterial.Name
			}
			if required <= available {
				continue
			}
			report.Feasible = false
			report.Shortfalls = append(report.Shortfalls, Shortfall{
				ProductID:       line.ProductID,
				ProductName:     line.Product.Name,
				RawMaterialID:   bom.RawMaterialID,
				RawMaterialName: name,
				Required:        required,
				Available:       available,
			})
		}
	}
	return report
}

func (s *FeasibilityService) notifyShortage(ctx context.Context, order *entity.ClientOrder, report *FeasibilityReport) {
	var body strings.Builder
	fmt.Fprintf(&body, "Order %s cannot be fulfilled with current stock.\n\nMissing materials:\n", order.ID)
	for _, sf := range report.Shortfalls {
		fmt.Fprintf(&body, "- %s needs %d, only %d available for product %s\n", sf.RawMaterialName, sf.Required, sf.Available, sf.ProductName)
	}

	subject := "Production - Stock shortage for order " + order.ID
	if err := s.notifier.Deliver(ctx, s.recipient, subject, body.String()); err != nil {
		s.logger.Warn("Failed to deliver stock shortage notification",
			zap.String("client_order_id", order.ID),
			zap.Error(err),
		)
	}
}
