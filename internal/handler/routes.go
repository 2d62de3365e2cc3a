package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, expenseHandler *ExpenseHandler, categoryHandler *CategoryHandler, projectHandler *ProjectHandler, dashboardHandler *DashboardHandler, insightHandler *InsightHandler, receiptHandler *ReceiptHandler, preferenceHandler *PreferenceHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Category routes
	categories := api.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Project routes
	projects := api.Group("/projects")
	projects.GET("", projectHandler.GetProjects)
	projects.POST("", projectHandler.CreateProject)
	projects.PATCH("/:id/status", projectHandler.ToggleProjectStatus)
	projects.DELETE("/:id", projectHandler.DeleteProject)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/breakdown", dashboardHandler.GetBreakdown)
	dashboard.GET("/timeline", dashboardHandler.GetTimeline)

	// AI routes
	api.POST("/insights", insightHandler.CreateInsight)
	api.POST("/receipts/scan", receiptHandler.ScanReceipt)

	// Preference routes
	preferences := api.Group("/preferences")
	preferences.GET("/theme", preferenceHandler.GetTheme)
	preferences.PUT("/theme", preferenceHandler.UpdateTheme)

	// WebSocket endpoint for live change events
	e.GET("/ws", wsHandler.HandleWS)
}
