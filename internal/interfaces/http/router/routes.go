package router

import (
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted by the API
type Handlers struct {
	Reports     *handler.FinancialReportHandler
	Settlements *handler.SettlementHandler
	Attachments *handler.AttachmentHandler
	Investors   *handler.InvestorHandler
	Health      *handler.HealthHandler
}

// FinancialReportRoutes mounts the monthly records, their transactions and settlements
func FinancialReportRoutes(reports *handler.FinancialReportHandler, settlements *handler.SettlementHandler) *DomainGroup {
	g := NewDomainGroup("financial-reports", "/financial-reports/property/:propertyId")
	g.GET("", reports.ListRecords)

	month := g.Group("financial-record", "/:year/:month")
	month.GET("", reports.GetRecord)
	month.PUT("/carry-over/:investorId", reports.SetCarryOver)
	month.POST("/close", reports.Close)
	month.POST("/reopen", reports.Reopen)
	month.GET("/settlement", settlements.GetSettlement)
	month.GET("/settlement/export", settlements.Export)

	for _, bucket := range []ledger.Bucket{ledger.BucketIncome, ledger.BucketExpenses} {
		b := month.Group(bucket.String(), "/"+bucket.String())
		b.POST("", reports.AddTransaction(bucket))
		b.PUT("/:index", reports.UpdateTransaction(bucket))
		b.DELETE("/:index", reports.RemoveTransaction(bucket))
		b.PUT("/id/:txId", reports.UpdateTransactionByID(bucket))
		b.DELETE("/id/:txId", reports.RemoveTransactionByID(bucket))
	}
	return g
}

// AttachmentRoutes mounts the bill evidence upload and download URLs
func AttachmentRoutes(h *handler.AttachmentHandler) *DomainGroup {
	return NewDomainGroup("attachments", "/attachments").
		POST("/upload-url", h.InitiateUpload).
		GET("/download-url", h.DownloadURL)
}

// InvestorRoutes mounts the investor roster
func InvestorRoutes(h *handler.InvestorHandler) *DomainGroup {
	return NewDomainGroup("investors", "/investors").
		GET("", h.List).
		POST("", h.Create).
		GET("/property/:propertyId", h.ListByProperty).
		POST("/property/:propertyId", h.AddToProperty).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete).
		PUT("/:id/properties/:propertyId", h.UpdateShare).
		DELETE("/:id/properties/:propertyId", h.RemoveFromProperty)
}
