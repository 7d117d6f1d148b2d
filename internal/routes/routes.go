package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ledger-reconciliation-backend/internal/cache"
	handler "ledger-reconciliation-backend/internal/handlers"
	"ledger-reconciliation-backend/internal/repository"
	"ledger-reconciliation-backend/internal/services/ledger"
	service "ledger-reconciliation-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, log *logrus.Logger) {
	queryCache := cache.New()
	notifier := cache.InvalidatingNotifier{Cache: queryCache}

	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	linkRepo := repository.NewLinkRepository(db)

	accessor := ledger.NewAccessor(accountRepo, ledgerRepo, log, notifier)
	reconService := service.NewService(sessionRepo, linkRepo, ledgerRepo, accessor, log, notifier)

	accountHandler := handler.NewAccountHandler(accountRepo, accessor, queryCache)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	ledgerHandler := handler.NewLedgerHandler(accessor)
	reconHandler := handler.NewReconciliationHandler(reconService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.ListAccounts)
	accounts.GET("/:id/balance", accountHandler.GetBalance)
	accounts.POST("/:id/transactions", ledgerHandler.CreateTransaction)
	accounts.GET("/:id/transactions", ledgerHandler.ListTransactions)

	// Reference data
	api.GET("/categories", categoryHandler.ListCategories)

	// Reconciliation session routes
	recon := api.Group("/reconciliations")
	recon.POST("", reconHandler.CreateSession)
	recon.GET("", reconHandler.ListSessions)
	recon.GET("/:id", reconHandler.GetSession)
	recon.PUT("/:id", reconHandler.UpdateSession)
	recon.GET("/:id/summary", reconHandler.GetSummary)
	recon.POST("/:id/transactions/:txId/reconcile", reconHandler.SetReconciled)
	recon.POST("/:id/batch-reconcile", reconHandler.BatchSetReconciled)
	recon.POST("/:id/adjustments", reconHandler.PostAdjustment)
	recon.POST("/:id/complete", reconHandler.CompleteSession)
	recon.DELETE("/:id", reconHandler.DeleteSession)
}
