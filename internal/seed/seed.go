// Package seed fills an empty application with demo data.
package seed

import (
	"context"
	"fmt"
	"time"

	"bizdesk/internal/app"
	appctx "bizdesk/internal/core/context"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/catalogs/counterparty"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/domain/catalogs/warehouse"
	"bizdesk/internal/domain/documents"
	"bizdesk/internal/domain/inventory"
	"bizdesk/internal/domain/ledger/bank"
	"bizdesk/internal/domain/ledger/cash"
	"bizdesk/pkg/logger"
)

// Result holds a few of the created records for callers that print a scenario.
type Result struct {
	Estimate *documents.Document
	Order    *documents.Document
	Invoice  *documents.Document
	Session  *cash.Session
}

type clientSeed struct {
	company, contact, email string
}

type productSeed struct {
	sku, name, category string
	stock               int
	price, cost         string
}

// Demo creates the demo data set. It must run on an empty application.
func Demo(ctx context.Context, a *app.App) (*Result, error) {
	ctx = appctx.WithActor(ctx, &appctx.Actor{Name: "seed", Source: "cli"})
	today := time.Now().UTC().Truncate(24 * time.Hour)

	clients := make([]*counterparty.Counterparty, 0, 3)
	for _, s := range []clientSeed{
		{"Acme GmbH", "Anna Berg", "anna@acme.example"},
		{"Nordlicht AG", "Lars Holm", "lars@nordlicht.example"},
		{"Café Central", "Maria Rossi", "maria@central.example"},
	} {
		c := counterparty.New(counterparty.RoleClient, s.company, s.contact, s.email)
		if err := a.Clients.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("seed client %s: %w", s.company, err)
		}
		clients = append(clients, c)
	}

	suppliers := make([]*counterparty.Counterparty, 0, 2)
	for _, s := range []clientSeed{
		{"Parts Ltd", "Tom Reed", "tom@parts.example"},
		{"Office World", "Eva Klein", "eva@office.example"},
	} {
		c := counterparty.New(counterparty.RoleSupplier, s.company, s.contact, s.email)
		if err := a.Suppliers.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("seed supplier %s: %w", s.company, err)
		}
		suppliers = append(suppliers, c)
	}

	products := make([]*product.Product, 0, 4)
	for _, s := range []productSeed{
		{"WID-100", "Widget", "Hardware", 42, "10.00", "6.50"},
		{"GAD-200", "Gadget", "Hardware", 7, "24.90", "15.00"},
		{"CAB-300", "USB cable", "Accessories", 0, "4.99", "1.20"},
		{"SUP-400", "Support hour", "Services", 120, "85.00", "40.00"},
	} {
		p := product.New(s.sku, s.name, s.category, s.stock, types.MustMoney(s.price), types.MustMoney(s.cost))
		if err := a.Products.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("seed product %s: %w", s.sku, err)
		}
		products = append(products, p)
	}

	primary := warehouse.New("Main warehouse", "Berlin", true)
	outlet := warehouse.New("Outlet", "Hamburg", false)
	for _, w := range []*warehouse.Warehouse{primary, outlet} {
		if err := a.Warehouses.Create(ctx, w); err != nil {
			return nil, fmt.Errorf("seed warehouse %s: %w", w.Name, err)
		}
	}
	if _, err := a.Inventory.Transfer(ctx, inventory.TransferParams{
		ProductID:       products[0].ID,
		FromWarehouseID: primary.ID,
		ToWarehouseID:   outlet.ID,
		Quantity:        10,
		Reference:       "restock outlet",
	}); err != nil {
		return nil, fmt.Errorf("seed transfer: %w", err)
	}

	res := &Result{}
	var err error

	widget, gadget := products[0].ID, products[1].ID
	res.Estimate, err = a.Documents.Create(ctx, documents.CreateParams{
		Kind:           documents.KindSales,
		Type:           documents.TypeEstimate,
		CounterpartyID: clients[0].ID,
		Date:           today.AddDate(0, 0, -20),
		DueDate:        today.AddDate(0, 0, 10),
		Lines: []documents.Line{
			{Description: "Widget", ProductID: &widget, Quantity: types.NewQuantity(2), UnitPrice: types.MustMoney("10.00")},
			{Description: "Setup fee", Quantity: types.NewQuantity(1), UnitPrice: types.MustMoney("5.00")},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed estimate: %w", err)
	}
	if res.Order, err = a.Documents.Convert(ctx, res.Estimate.ID, documents.TypeOrder); err != nil {
		return nil, fmt.Errorf("seed order: %w", err)
	}
	if res.Invoice, err = a.Documents.Convert(ctx, res.Order.ID, documents.TypeInvoice); err != nil {
		return nil, fmt.Errorf("seed invoice: %w", err)
	}
	if res.Invoice, err = a.Documents.SetStatus(ctx, res.Invoice.ID, documents.StatusPaid); err != nil {
		return nil, fmt.Errorf("seed invoice payment: %w", err)
	}

	open, err := a.Documents.Create(ctx, documents.CreateParams{
		Kind:           documents.KindSales,
		Type:           documents.TypeInvoice,
		CounterpartyID: clients[1].ID,
		Date:           today.AddDate(0, 0, -40),
		DueDate:        today.AddDate(0, 0, -10),
		Lines: []documents.Line{
			{Description: "Gadget", ProductID: &gadget, Quantity: types.NewQuantity(3), UnitPrice: types.MustMoney("24.90")},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed open invoice: %w", err)
	}
	if _, err := a.Documents.MarkOverdue(ctx, today); err != nil {
		return nil, fmt.Errorf("seed overdue sweep: %w", err)
	}

	po, err := a.Documents.Create(ctx, documents.CreateParams{
		Kind:           documents.KindPurchase,
		Type:           documents.TypeOrder,
		CounterpartyID: suppliers[0].ID,
		Date:           today.AddDate(0, 0, -15),
		Lines: []documents.Line{
			{Description: "Widget", ProductID: &widget, Quantity: types.NewQuantity(50), UnitPrice: types.MustMoney("6.50")},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed purchase order: %w", err)
	}
	pinv, err := a.Documents.Convert(ctx, po.ID, documents.TypeInvoice)
	if err != nil {
		return nil, fmt.Errorf("seed purchase invoice: %w", err)
	}
	if _, err := a.Documents.SetStatus(ctx, pinv.ID, documents.StatusPaid); err != nil {
		return nil, fmt.Errorf("seed purchase payment: %w", err)
	}

	if err := seedBank(ctx, a, today, res.Invoice.Amount, pinv.Amount); err != nil {
		return nil, err
	}

	if res.Session, err = a.Cash.OpenSession(ctx, types.MustMoney("100"), "demo"); err != nil {
		return nil, fmt.Errorf("seed cash session: %w", err)
	}
	if _, err := a.Cash.AddTransaction(ctx, cash.TxDeposit, types.MustMoney("50"), "counter sale"); err != nil {
		return nil, fmt.Errorf("seed cash deposit: %w", err)
	}
	if _, err := a.Cash.AddTransaction(ctx, cash.TxWithdrawal, types.MustMoney("30"), "stamps"); err != nil {
		return nil, fmt.Errorf("seed cash withdrawal: %w", err)
	}

	logger.Info(ctx, "demo data seeded",
		"clients", len(clients), "suppliers", len(suppliers), "products", len(products),
		"open_invoice", open.Number)
	return res, nil
}

func seedBank(ctx context.Context, a *app.App, today time.Time, received, paid types.Money) error {
	base := a.Formatter.Base()
	checking := bank.NewAccount("Operating", "First Bank", "DE89 3704 0044 0532 0130 00", base, bank.AccountChecking, types.MustMoney("5000"))
	savings := bank.NewAccount("Reserve", "First Bank", "DE12 5001 0517 0648 4898 90", base, bank.AccountSavings, types.MustMoney("10000"))
	for _, acc := range []*bank.Account{checking, savings} {
		if err := a.Bank.AddAccount(ctx, acc); err != nil {
			return fmt.Errorf("seed bank account %s: %w", acc.Name, err)
		}
	}

	var cleared []id.ID
	for _, p := range []bank.TransactionParams{
		{AccountID: checking.ID, Type: bank.TxDeposit, Amount: bank.SignedAmount(bank.TxDeposit, received),
			Description: "Invoice payment Acme", Date: today.AddDate(0, 0, -5)},
		{AccountID: checking.ID, Type: bank.TxPayment, Amount: bank.SignedAmount(bank.TxPayment, paid),
			Description: "Parts Ltd invoice", Date: today.AddDate(0, 0, -4)},
		{AccountID: checking.ID, Type: bank.TxFee, Amount: bank.SignedAmount(bank.TxFee, types.MustMoney("4.50")),
			Description: "Account fee", Date: today.AddDate(0, 0, -1)},
	} {
		t, err := a.Bank.AddTransaction(ctx, p)
		if err != nil {
			return fmt.Errorf("seed bank transaction: %w", err)
		}
		cleared = append(cleared, t.ID)
	}
	if err := a.Bank.Clear(ctx, cleared[:2]); err != nil {
		return fmt.Errorf("seed clearing: %w", err)
	}
	if err := a.Bank.Reconcile(ctx, checking.ID, cleared[:1]); err != nil {
		return fmt.Errorf("seed reconciliation: %w", err)
	}
	if _, _, err := a.Bank.Transfer(ctx, bank.TransferParams{
		FromAccountID: checking.ID,
		ToAccountID:   savings.ID,
		Amount:        types.MustMoney("1000"),
		Description:   "Monthly reserve",
		Date:          today,
	}); err != nil {
		return fmt.Errorf("seed bank transfer: %w", err)
	}
	return nil
}
