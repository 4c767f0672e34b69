// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bizdesk/internal/app"
	"bizdesk/internal/domain/catalogs/counterparty"
	"bizdesk/internal/domain/catalogs/product"
	"bizdesk/internal/domain/catalogs/warehouse"
	"bizdesk/internal/infrastructure/http/v1/dto"
	"bizdesk/internal/infrastructure/http/v1/handlers"
	"bizdesk/internal/infrastructure/http/v1/middleware"
	"bizdesk/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// App is the application container all handlers work on
	App *app.App

	// Logger for request logging
	Logger *logger.Logger

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.Actor())
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.App)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")
	base := handlers.NewBaseHandler(cfg.App.Config.View.PageSize)

	registerCatalogRoutes(api, base, cfg.App)
	registerInventoryRoutes(api, base, cfg.App)
	registerDocumentRoutes(api, base, cfg.App)
	registerLedgerRoutes(api, base, cfg.App)
	registerReportRoutes(api, base, cfg.App)
	registerAssistantRoutes(api, base, cfg.App)

	return router
}

// registerCatalogRoutes registers client, supplier, product and warehouse endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	counterpartyHandler := func(svc *counterparty.Service) CatalogRouteHandler {
		return handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*counterparty.Counterparty, dto.CreateCounterpartyRequest, dto.UpdateCounterpartyRequest]{
			Service: svc,
			MapCreateDTO: func(req dto.CreateCounterpartyRequest) (*counterparty.Counterparty, error) {
				return req.ToEntity(svc.Role()), nil
			},
			MapUpdateDTO: func(req dto.UpdateCounterpartyRequest, existing *counterparty.Counterparty) (*counterparty.Counterparty, error) {
				req.ApplyTo(existing)
				return existing, nil
			},
		})
	}
	RegisterCatalogRoutes(rg.Group("/clients"), counterpartyHandler(a.Clients))
	RegisterCatalogRoutes(rg.Group("/suppliers"), counterpartyHandler(a.Suppliers))

	// --- PRODUCTS ---
	{
		handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
			Service: a.Products,
			MapCreateDTO: func(req dto.CreateProductRequest) (*product.Product, error) {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) (*product.Product, error) {
				return existing, req.ApplyTo(existing)
			},
			MapToDTO: func(p *product.Product) any { return dto.FromProduct(p) },
		})
		RegisterCatalogRoutes(rg.Group("/products"), handler)
	}

	// --- WAREHOUSES ---
	{
		handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*warehouse.Warehouse, dto.CreateWarehouseRequest, dto.UpdateWarehouseRequest]{
			Service: a.Warehouses,
			MapCreateDTO: func(req dto.CreateWarehouseRequest) (*warehouse.Warehouse, error) {
				return req.ToEntity(), nil
			},
			MapUpdateDTO: func(req dto.UpdateWarehouseRequest, existing *warehouse.Warehouse) (*warehouse.Warehouse, error) {
				req.ApplyTo(existing)
				return existing, nil
			},
		})
		RegisterCatalogRoutes(rg.Group("/warehouses"), handler)
	}
}

// registerInventoryRoutes registers stock transfer and adjustment endpoints.
func registerInventoryRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	handler := handlers.NewInventoryHandler(base, a.Inventory)

	inv := rg.Group("/inventory")
	inv.GET("/transfers", handler.ListTransfers)
	inv.POST("/transfers", handler.Transfer)
	inv.GET("/adjustments", handler.ListAdjustments)
	inv.POST("/adjustments", handler.Adjust)
}

// registerDocumentRoutes registers document endpoints; :kind is sales or purchase.
func registerDocumentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	handler := handlers.NewDocumentHandler(base, a.Documents)

	docs := rg.Group("/documents/:kind")
	docs.GET("", handler.List)
	docs.POST("", handler.Create)
	docs.GET("/:id", handler.Get)
	docs.DELETE("/:id", handler.Delete)
	docs.POST("/:id/convert", handler.Convert)
	docs.POST("/:id/status", handler.SetStatus)
	docs.PUT("/:id/lines", handler.UpdateLines)
	docs.GET("/:id/chain", handler.Chain)
	docs.GET("/:id/targets", handler.Targets)

	auditHandler := handlers.NewAuditHandler(base, a.Audit)
	rg.GET("/audit/:id", auditHandler.History)

	metaHandler := handlers.NewMetadataHandler(base, a.Meta)
	rg.GET("/meta", metaHandler.ListEntities)
	rg.GET("/meta/:name", metaHandler.GetEntity)
}

// registerLedgerRoutes registers bank and cash register endpoints.
func registerLedgerRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	bankHandler := handlers.NewBankHandler(base, a.Bank, a.Formatter.Base())
	bankGroup := rg.Group("/bank")
	{
		bankGroup.GET("/accounts", bankHandler.ListAccounts)
		bankGroup.POST("/accounts", bankHandler.CreateAccount)
		bankGroup.GET("/accounts/:id", bankHandler.GetAccount)
		bankGroup.PUT("/accounts/:id", bankHandler.UpdateAccount)
		bankGroup.DELETE("/accounts/:id", bankHandler.DeleteAccount)
		bankGroup.GET("/accounts/:id/transactions", bankHandler.AccountTransactions)
		bankGroup.GET("/accounts/:id/verify", bankHandler.VerifyBalance)

		bankGroup.GET("/transactions", bankHandler.ListTransactions)
		bankGroup.POST("/transactions", bankHandler.AddTransaction)
		bankGroup.DELETE("/transactions/:id", bankHandler.DeleteTransaction)
		bankGroup.POST("/transfers", bankHandler.Transfer)
		bankGroup.POST("/clear", bankHandler.Clear)
		bankGroup.POST("/reconcile", bankHandler.Reconcile)
	}

	cashHandler := handlers.NewCashHandler(base, a.Cash)
	cashGroup := rg.Group("/cash")
	{
		cashGroup.GET("/session", cashHandler.Current)
		cashGroup.POST("/session", cashHandler.Open)
		cashGroup.POST("/session/close", cashHandler.Close)
		cashGroup.GET("/sessions", cashHandler.ListSessions)
		cashGroup.GET("/sessions/:id/transactions", cashHandler.SessionTransactions)
		cashGroup.GET("/transactions", cashHandler.ListTransactions)
		cashGroup.POST("/transactions", cashHandler.AddTransaction)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	handler := handlers.NewReportsHandler(base, a.Reports, a.Config.Reports.TopClients)

	reportsGroup := rg.Group("/reports")
	reportsGroup.GET("/dashboard", handler.Dashboard)
	reportsGroup.GET("/sales-by-customer", handler.SalesByCustomer)
	reportsGroup.GET("/vat", handler.VAT)
	reportsGroup.GET("/product-performance", handler.ProductPerformance)
	reportsGroup.GET("/stock-movements", handler.StockMovements)
}

// registerAssistantRoutes registers the assistant chat endpoints.
func registerAssistantRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, a *app.App) {
	handler := handlers.NewAssistantHandler(base, a.Assistant)

	assistantGroup := rg.Group("/assistant")
	assistantGroup.GET("/context", handler.Context)
	assistantGroup.GET("/messages", handler.Messages)
	assistantGroup.POST("/messages", handler.Send)
}
