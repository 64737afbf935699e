package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/NunoCastro30/TechFlow/internal/procurement/repository"
	"github.com/NunoCastro30/TechFlow/internal/shared/notify"
	"go.uber.org/zap"
)

// StockService watches raw material quantities and alerts the purchasing
// inbox when stock crosses the critical threshold. Checks never fail the
// operation that triggered them.
type StockService struct {
	materials *repository.RawMaterialRepository
	notifier  notify.Notifier
	logger    *zap.Logger
	threshold int
	recipient string
}

func NewStockService(materials *repository.RawMaterialRepository, notifier notify.Notifier, logger *zap.Logger, threshold int, recipient string) *StockService {
	return &StockService{
		materials: materials,
		notifier:  notifier,
		logger:    logger,
		threshold: threshold,
		recipient: recipient,
	}
}

// CheckCritical alerts whenever the material's quantity sits below the
// threshold, regardless of direction. Unknown ids are ignored.
func (s *StockService) CheckCritical(ctx context.Context, materialID string) {
	m, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Stock check failed", zap.String("raw_material_id", materialID), zap.Error(err))
		}
		return
	}

	if m.Quantity >= s.threshold {
		return
	}
	s.alert(ctx, m.Name, m.Quantity)
}

// CheckCriticalDelta alerts only on a downward crossing: the quantity must be
// below the threshold and lower than it was before the triggering change.
// This keeps repeated writes at an already-critical level from re-alerting.
func (s *StockService) CheckCriticalDelta(ctx context.Context, materialID string, previousQuantity int) {
	m, err := s.materials.FindByID(ctx, materialID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Stock check failed", zap.String("raw_material_id", materialID), zap.Error(err))
		}
		return
	}

	if m.Quantity >= s.threshold || m.Quantity >= previousQuantity {
		return
	}
	s.alert(ctx, m.Name, m.Quantity)
}

func (s *StockService) alert(ctx context.Context, name string, quantity int) {
	subject := "Low Stock - " + name
	body := fmt.Sprintf("Raw material %q is below the critical threshold.\nCurrent quantity: %d (threshold %d).", name, quantity, s.threshold)
	if err := s.notifier.Deliver(ctx, s.recipient, subject, body); err != nil {
		s.logger.Warn("Failed to deliver low stock alert",
			zap.String("raw_material", name),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
	}
}
