// Package server assembles the HTTP API: services, handlers, middleware and
// routes.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "expensert/internal/docs" // Import swagger docs
	"expensert/internal/handlers"
	"expensert/internal/middleware"
	"expensert/internal/services"
)

// Services bundles the services the API routes delegate to.
type Services struct {
	Transactions services.TransactionServicer
	Categories   services.CategoryServicer
	Budgets      services.BudgetServicer
	Reports      services.ReportServicer
	Data         services.DataServicer
	Settings     services.SettingsServicer
	Audit        services.AuditServicer
}

// NewServices builds every service on top of one ledger registry.
func NewServices(ledgers *services.LedgerRegistry, clock func() time.Time) Services {
	if clock == nil {
		clock = time.Now
	}
	return Services{
		Transactions: services.NewTransactionService(ledgers),
		Categories:   services.NewCategoryService(ledgers),
		Budgets:      services.NewBudgetService(ledgers, clock),
		Reports:      services.NewReportService(ledgers, clock),
		Data:         services.NewDataService(ledgers),
		Settings:     services.NewSettingsService(ledgers),
		Audit:        services.NewAuditService(),
	}
}

// Options configures NewRouter.
type Options struct {
	DefaultNamespace string
	Clock            func() time.Time
	Swagger          bool
}

// NewRouter wires middleware and all /api/v1 routes.
func NewRouter(svcs Services, opts Options) *gin.Engine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	transactionHandler := handlers.NewTransactionHandler(svcs.Transactions, svcs.Audit)
	categoryHandler := handlers.NewCategoryHandler(svcs.Categories, svcs.Audit)
	budgetHandler := handlers.NewBudgetHandler(svcs.Budgets, svcs.Audit)
	reportHandler := handlers.NewReportHandler(svcs.Reports, opts.Clock)
	dataHandler := handlers.NewDataHandler(svcs.Data, svcs.Audit)
	settingsHandler := handlers.NewSettingsHandler(svcs.Settings, svcs.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Namespace(opts.DefaultNamespace))

	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/recent", transactionHandler.GetRecentTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/progress", budgetHandler.GetAllBudgetProgress)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	reports := v1.Group("/reports")
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/monthly", reportHandler.GetMonthlyReport)
	reports.GET("/trend", reportHandler.GetTrend)
	reports.GET("/categories", reportHandler.GetCategoryTotals)
	reports.GET("/week", reportHandler.GetWeek)
	reports.GET("/year", reportHandler.GetYear)

	data := v1.Group("/data")
	data.GET("/export", dataHandler.Export)
	data.POST("/import", dataHandler.Import)
	data.POST("/clear", dataHandler.Clear)

	settings := v1.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("/payment-methods", settingsHandler.UpdatePaymentMethods)
	settings.PUT("/currency", settingsHandler.UpdateCurrency)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.NamespaceHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
