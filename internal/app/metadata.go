package app

import (
	"bizdesk/internal/core/entity"
	"bizdesk/internal/domain/catalogs/counterparty"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/domain/catalogs/warehouse"
	"bizdesk/internal/domain/documents"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/ledger/bank"
	"bizdesk/internal/domain/ledger/cash"
	"bizdesk/internal/metadata"
)

// newRegistry describes every entity the presentation layer lists or edits.
func newRegistry() *metadata.Registry {
	reg := metadata.NewRegistry()
	catalogStatus := []string{string(entity.StatusActive), string(entity.StatusInactive)}

	// Catalogs
	reg.Register(metadata.Inspect(counterparty.Counterparty{}, "client", metadata.TypeCatalog).
		WithOptions("status", catalogStatus...).
		WithOptions("role", string(counterparty.RoleClient)).
		ReadOnly("code", "role", "total"))
	reg.Register(metadata.Inspect(counterparty.Counterparty{}, "supplier", metadata.TypeCatalog).
		WithOptions("status", catalogStatus...).
		WithOptions("role", string(counterparty.RoleSupplier)).
		ReadOnly("code", "role", "total"))
	reg.Register(metadata.Inspect(product.Product{}, "product", metadata.TypeCatalog).
		WithOptions("status", string(product.StatusInStock), string(product.StatusLowStock), string(product.StatusOutOfStock)).
		ReadOnly("status"))
	reg.Register(metadata.Inspect(warehouse.Warehouse{}, "warehouse", metadata.TypeCatalog).
		ReadOnly("code"))

	// Documents
	reg.Register(metadata.Inspect(documents.Document{}, "document", metadata.TypeDocument).
		WithOptions("kind", string(documents.KindSales), string(documents.KindPurchase)).
		WithOptions("type",
			string(documents.TypeEstimate), string(documents.TypeOrder), string(documents.TypeDelivery),
			string(documents.TypeInvoice), string(documents.TypeIssue)).
		WithOptions("status",
			string(documents.StatusDraft), string(documents.StatusPending), string(documents.StatusCompleted),
			string(documents.StatusPaid), string(documents.StatusOverdue)).
		ReadOnly("number", "kind", "amount", "counterpartyName", "linkedDocumentId", "revenueRecognized"))
	reg.Register(metadata.Inspect(inventory.StockTransfer{}, "stockTransfer", metadata.TypeDocument))
	reg.Register(metadata.Inspect(inventory.StockAdjustment{}, "stockAdjustment", metadata.TypeDocument).
		ReadOnly("stockAfter"))

	// Ledgers
	reg.Register(metadata.Inspect(bank.Account{}, "bankAccount", metadata.TypeLedger).
		WithOptions("type",
			string(bank.AccountChecking), string(bank.AccountSavings),
			string(bank.AccountCredit), string(bank.AccountInvestment)).
		ReadOnly("balance"))
	reg.Register(metadata.Inspect(bank.Transaction{}, "bankTransaction", metadata.TypeLedger).
		WithReference("accountId", "bankAccount").
		WithOptions("type", string(bank.TxPayment), string(bank.TxDeposit), string(bank.TxTransfer), string(bank.TxFee)).
		WithOptions("status", string(bank.StatusPending), string(bank.StatusCleared), string(bank.StatusReconciled)).
		ReadOnly("transferId"))
	reg.Register(metadata.Inspect(cash.Session{}, "cashSession", metadata.TypeLedger).
		WithOptions("status", string(cash.SessionOpen), string(cash.SessionClosed)).
		ReadOnly("expectedBalance", "variance", "startTime", "endTime"))
	reg.Register(metadata.Inspect(cash.Transaction{}, "cashTransaction", metadata.TypeLedger).
		WithReference("sessionId", "cashSession").
		WithOptions("type", string(cash.TxDeposit), string(cash.TxWithdrawal)))

	return reg
}
