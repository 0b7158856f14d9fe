package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes registers credit sale and payment routes
func (h *CreditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/credit-sales")
	{
		sales.POST("", h.IssueCredit)
		sales.GET("/overdue", h.ListOverdue)
		sales.GET("/:id", h.GetCreditSale)
		sales.POST("/:id/write-off", h.WriteOff)
	}

	payments := rg.Group("/payments")
	{
		payments.POST("", h.ApplyPayment)
		payments.POST("/reverse", h.ReversePayment)
	}

	customers := rg.Group("/customers")
	{
		customers.GET("/:id/credit-sales", h.ListCustomerCreditSales)
		customers.GET("/:id/balance", h.GetCustomerBalance)
		customers.GET("/:id/credit-summary", h.GetCustomerCreditSummary)
	}
}

// RegisterRoutes registers commitment, reminder and history routes
func (h *EngagementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	commitments := rg.Group("/commitments")
	{
		commitments.POST("", h.RecordCommitment)
		commitments.POST("/sweep", h.SweepCommitments)
	}

	reminders := rg.Group("/reminders")
	{
		reminders.POST("", h.RecordReminder)
		reminders.POST("/:id/sent", h.MarkReminderSent)
		reminders.POST("/:id/responded", h.MarkReminderResponded)
	}

	sales := rg.Group("/credit-sales")
	{
		sales.GET("/:id/commitments", h.ListCommitments)
		sales.GET("/:id/reminders", h.ListReminders)
	}

	customers := rg.Group("/customers")
	{
		customers.GET("/:id/credit-history", h.ListCreditHistory)
		customers.GET("/:id/credit-history/:period", h.GetCreditHistory)
		customers.POST("/:id/credit-history/:period/regenerate", h.RegenerateCreditHistory)
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/system/info", h.GetSystemInfo)
}
