package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fintrack-ledger/internal/api/handler"
	"github.com/fintrack-ledger/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	expenseHandler *handler.ExpenseHandler,
	transferHandler *handler.TransferHandler,
	salaryHandler *handler.SalaryHandler,
	reconciliationHandler *handler.ReconciliationHandler,
	importHandler *handler.ImportHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints; everything below requires a resolved user
	v1 := r.Group("/api/v1")
	v1.Use(middleware.UserResolutionMiddleware())
	{
		accounts := v1.Group("/accounts")
		{
			accounts.GET("", accountHandler.List)
			accounts.POST("/:type/correction", accountHandler.Correct)
			accounts.GET("/:type/entries", accountHandler.ListEntries)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.POST("", expenseHandler.Create)
			expenses.GET("", expenseHandler.List)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
			expenses.POST("/bulk-delete", expenseHandler.BulkDelete)
			expenses.POST("/:id/convert", expenseHandler.Convert)
		}

		transfers := v1.Group("/transfers")
		{
			transfers.POST("", transferHandler.Create)
			transfers.GET("", transferHandler.List)
			transfers.DELETE("/:id", transferHandler.Delete)
		}

		salaryPayments := v1.Group("/salary-payments")
		{
			salaryPayments.POST("", salaryHandler.Create)
			salaryPayments.GET("", salaryHandler.List)
			salaryPayments.POST("/:id/received", salaryHandler.MarkReceived)
		}

		reconciliation := v1.Group("/reconciliation")
		{
			reconciliation.GET("", reconciliationHandler.Run)
			reconciliation.GET("/latest", reconciliationHandler.Latest)
			reconciliation.GET("/history", reconciliationHandler.History)
		}

		v1.POST("/imports/expenses", importHandler.Submit)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
