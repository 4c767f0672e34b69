package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/entity"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/tx"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/domain/catalogs/warehouse"
	"bizdesk/pkg/logger"
)

// Service records transfers and adjustments.
type Service struct {
	transfers   TransferRepository
	adjustments AdjustmentRepository
	products    *product.Service
	warehouses  *warehouse.Service
	txm         tx.Manager
}

// NewService creates the inventory service and registers delete guards so
// products and warehouses referenced by history cannot be removed.
func NewService(
	transfers TransferRepository,
	adjustments AdjustmentRepository,
	products *product.Service,
	warehouses *warehouse.Service,
	txm tx.Manager,
) *Service {
	svc := &Service{
		transfers:   transfers,
		adjustments: adjustments,
		products:    products,
		warehouses:  warehouses,
		txm:         txm,
	}

	warehouses.Hooks().OnBeforeDelete(svc.guardWarehouse)
	products.Hooks().OnBeforeDelete(svc.guardProduct)

	return svc
}

// Transfer appends a stock transfer record.
func (s *Service) Transfer(ctx context.Context, p TransferParams) (*StockTransfer, error) {
	if p.FromWarehouseID == p.ToWarehouseID {
		return nil, apperror.NewBusinessRule(apperror.CodeSameWarehouse,
			"source and destination warehouse must differ").
			WithDetail("warehouseId", p.FromWarehouseID.String())
	}
	if p.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	t := &StockTransfer{
		BaseEntity:      entity.NewBaseEntity(),
		ProductID:       p.ProductID,
		FromWarehouseID: p.FromWarehouseID,
		ToWarehouseID:   p.ToWarehouseID,
		Quantity:        p.Quantity,
		Date:            p.Date,
		Reference:       strings.TrimSpace(p.Reference),
		Notes:           p.Notes,
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.products.GetByID(ctx, p.ProductID); err != nil {
			return err
		}
		for _, wid := range []id.ID{p.FromWarehouseID, p.ToWarehouseID} {
			if _, err := s.warehouses.GetByID(ctx, wid); err != nil {
				return err
			}
		}
		if err := s.transfers.Create(ctx, t); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Debug(ctx, "stock transfer rejected", "error", err)
		return nil, err
	}

	logger.Info(ctx, "stock transferred",
		"id", t.ID, "product_id", t.ProductID,
		"from", t.FromWarehouseID, "to", t.ToWarehouseID, "quantity", t.Quantity)
	return t, nil
}

// Adjust changes product stock by delta and records why.
func (s *Service) Adjust(ctx context.Context, productID id.ID, delta int, reason string) (*StockAdjustment, error) {
	if delta == 0 {
		return nil, apperror.NewValidation("adjustment must change stock").
			WithDetail("field", "delta")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}

	var adj *StockAdjustment
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.AdjustStock(ctx, productID, delta)
		if err != nil {
			return err
		}
		adj = &StockAdjustment{
			BaseEntity: entity.NewBaseEntity(),
			ProductID:  productID,
			Delta:      delta,
			StockAfter: p.Stock,
			Reason:     strings.TrimSpace(reason),
			Date:       time.Now().UTC(),
		}
		return s.adjustments.Create(ctx, adj)
	})
	if err != nil {
		logger.Debug(ctx, "stock adjustment rejected", "error", err)
		return nil, err
	}

	logger.Info(ctx, "stock adjusted",
		"id", adj.ID, "product_id", productID, "delta", delta, "stock", adj.StockAfter)
	return adj, nil
}

// ListTransfers returns all transfers in creation order.
func (s *Service) ListTransfers(ctx context.Context) ([]*StockTransfer, error) {
	return s.transfers.List(ctx)
}

// ListAdjustments returns all adjustments in creation order.
func (s *Service) ListAdjustments(ctx context.Context) ([]*StockAdjustment, error) {
	return s.adjustments.List(ctx)
}

func (s *Service) guardWarehouse(ctx context.Context, w *warehouse.Warehouse) error {
	n, err := s.transfers.Count(ctx, func(t *StockTransfer) bool {
		return t.FromWarehouseID == w.ID || t.ToWarehouseID == w.ID
	})
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.NewReferenced("warehouse", w.ID.String(), "stock transfers").
			WithDetail("count", n)
	}
	return nil
}

func (s *Service) guardProduct(ctx context.Context, p *product.Product) error {
	n, err := s.transfers.Count(ctx, func(t *StockTransfer) bool { return t.ProductID == p.ID })
	if err != nil {
		return err
	}
	m, err := s.adjustments.Count(ctx, func(a *StockAdjustment) bool { return a.ProductID == p.ID })
	if err != nil {
		return err
	}
	if n+m > 0 {
		return apperror.NewReferenced("product", p.ID.String(), "inventory history").
			WithDetail("count", n+m)
	}
	return nil
}
