package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
)

// FinancialReportHandler handles the monthly financial record of a property
type FinancialReportHandler struct {
	BaseHandler
	service *ledgerapp.FinancialReportService
}

// NewFinancialReportHandler creates a new FinancialReportHandler
func NewFinancialReportHandler(service *ledgerapp.FinancialReportService) *FinancialReportHandler {
	return &FinancialReportHandler{service: service}
}

// RecordListQuery holds query parameters for listing the months of a property
type RecordListQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// recordKey reads :propertyId/:year/:month
func recordKey(c *gin.Context) (ledgerapp.RecordKey, error) {
	year, err := intParam(c, "year", "INVALID_YEAR")
	if err != nil {
		return ledgerapp.RecordKey{}, err
	}
	month, err := intParam(c, "month", "INVALID_MONTH")
	if err != nil {
		return ledgerapp.RecordKey{}, err
	}
	key := ledgerapp.RecordKey{PropertyID: c.Param("propertyId"), Year: year, Month: month}
	if _, err := key.Period(); err != nil {
		return ledgerapp.RecordKey{}, err
	}
	return key, nil
}

func transactionIndex(c *gin.Context) (int, error) {
	index, err := intParam(c, "index", "INVALID_INDEX")
	if err != nil {
		return 0, err
	}
	if index < 0 {
		return 0, shared.NewValidationError("INVALID_INDEX", "index cannot be negative")
	}
	return index, nil
}

func transactionID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("txId"))
	if err != nil {
		return uuid.Nil, shared.NewValidationError("INVALID_TRANSACTION_ID", "txId must be a UUID")
	}
	return id, nil
}

// GetRecord godoc
// @ID           getFinancialRecord
// @Summary      Get the financial record of a property for a month
// @Description  Returns the record, creating an empty one on first access
// @Tags         financial-reports
// @Produce      json
// @Param        propertyId path string true "Property ID"
// @Param        year       path int    true "Year"
// @Param        month      path int    true "Month (1-12)"
// @Success      200 {object} APIResponse[ledgerapp.FinancialRecordResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial-reports/property/{propertyId}/{year}/{month} [get]
func (h *FinancialReportHandler) GetRecord(c *gin.Context) {
	key, err := recordKey(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	record, err := h.service.GetOrCreate(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// ListRecords godoc
// @ID           listFinancialRecords
// @Summary      List the months recorded for a property
// @Tags         financial-reports
// @Produce      json
// @Param        propertyId path  string true  "Property ID"
// @Param        page       query int    false "Page number" default(1)
// @Param        page_size  query int    false "Page size"   default(20)
// @Success      200 {object} APIResponse[[]ledgerapp.FinancialRecordSummary]
// @Security     BearerAuth
// @Router       /financial-reports/property/{propertyId} [get]
func (h *FinancialReportHandler) ListRecords(c *gin.Context) {
	var query RecordListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	result, err := h.service.ListByProperty(c.Request.Context(), c.Param("propertyId"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// AddTransaction returns the handler appending a transaction to bucket
//
// @ID           addTransaction
// @Summary      Add an income or expense transaction
// @Tags         financial-reports
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.TransactionRequest true "Transaction"
// @Success      201 {object} APIResponse[ledgerapp.FinancialRecordResponse]
// @Failure      422 {object} ErrorResponse "Record is closed"
// @Security     BearerAuth
// @Router       /financial-reports/property/{propertyId}/{year}/{month}/income [post]
// @Router       /financial-reports/property/{propertyId}/{year}/{month}/expenses [post]
func (h *FinancialReportHandler) AddTransaction(bucket ledger.Bucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := recordKey(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		var req ledgerapp.TransactionRequest
		if !h.BindJSON(c, &req) {
			return
		}
		record, err := h.service.AddTransaction(c.Request.Context(), key, bucket, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, record)
	}
}

// UpdateTransaction returns the handler replacing the transaction at :index of bucket
func (h *FinancialReportHandler) UpdateTransaction(bucket ledger.Bucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := recordKey(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		index, err := transactionIndex(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		var req ledgerapp.TransactionRequest
		if !h.BindJSON(c, &req) {
			return
		}
		record, err := h.service.UpdateTransaction(c.Request.Context(), key, bucket, index, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, record)
	}
}

// RemoveTransaction returns the handler deleting the transaction at :index of bucket
func (h *FinancialReportHandler) RemoveTransaction(bucket ledger.Bucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := recordKey(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		index, err := transactionIndex(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		record, err := h.service.RemoveTransaction(c.Request.Context(), key, bucket, index)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, record)
	}
}

// UpdateTransactionByID returns the handler replacing the transaction :txId of bucket
func (h *FinancialReportHandler) UpdateTransactionByID(bucket ledger.Bucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := recordKey(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		txID, err := transactionID(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		var req ledgerapp.TransactionRequest
		if !h.BindJSON(c, &req) {
			return
		}
		record, err := h.service.UpdateTransactionByID(c.Request.Context(), key, bucket, txID, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, record)
	}
}

// RemoveTransactionByID returns the handler deleting the transaction :txId of bucket
func (h *FinancialReportHandler) RemoveTransactionByID(bucket ledger.Bucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := recordKey(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		txID, err := transactionID(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		record, err := h.service.RemoveTransactionByID(c.Request.Context(), key, bucket, txID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, record)
	}
}

// SetCarryOver godoc
// @ID           setCarryOver
// @Summary      Set what an investor already paid or received this month
// @Tags         financial-reports
// @Accept       json
// @Produce      json
// @Param        investorId path string true "Investor ID"
// @Param        request body ledgerapp.CarryOverRequest true "Carry-over amounts"
// @Success      200 {object} APIResponse[ledgerapp.FinancialRecordResponse]
// @Security     BearerAuth
// @Router       /financial-reports/property/{propertyId}/{year}/{month}/carry-over/{investorId} [put]
func (h *FinancialReportHandler) SetCarryOver(c *gin.Context) {
	key, err := recordKey(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var req ledgerapp.CarryOverRequest
	if !h.BindJSON(c, &req) {
		return
	}
	record, err := h.service.SetCarryOver(c.Request.Context(), key, c.Param("investorId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Close godoc
// @ID           closeFinancialRecord
// @Summary      Close a month against further edits
// @Tags         financial-reports
// @Produce      json
// @Success      200 {object} APIResponse[ledgerapp.FinancialRecordResponse]
// @Failure      422 {object} ErrorResponse "Already closed"
// @Security     BearerAuth
// @Router       /financial-reports/property/{propertyId}/{year}/{month}/close [post]
func (h *FinancialReportHandler) Close(c *gin.Context) {
	key, err := recordKey(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	record, err := h.service.Close(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Reopen godoc
// @ID           reopenFinancialRecord
// @Summary      Reopen a closed month
// @Tags         financial-reports
// @Produce      json
// @Success      200 {object} APIResponse[ledgerapp.FinancialRecordResponse]
// @Security     BearerAuth
// @Router       /financial-reports/property/{propertyId}/{year}/{month}/reopen [post]
func (h *FinancialReportHandler) Reopen(c *gin.Context) {
	key, err := recordKey(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	record, err := h.service.Reopen(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}
