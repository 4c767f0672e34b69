package inventory

import (
	"bizdesk/internal/domain"
)

// TransferRepository stores stock transfers.
type TransferRepository = domain.Repository[*StockTransfer]

// AdjustmentRepository stores stock adjustments.
type AdjustmentRepository = domain.Repository[*StockAdjustment]
