package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	settlementapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/settlement"
)

// SettlementHandler serves investor settlements as JSON and as PDF statements
type SettlementHandler struct {
	BaseHandler
	service *settlementapp.Service
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(service *settlementapp.Service) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// ExportQuery selects between streaming the PDF and storing it
type ExportQuery struct {
	Store bool `form:"store"`
}

// GetSettlement godoc
// @ID           getSettlement
// @Summary      Compute the investor settlement of a month
// @Description  Amounts keep full precision; display strings are cut to cents
// @Tags         settlements
// @Produce      json
// @Param        propertyId path string true "Property ID"
// @Param        year       path int    true "Year"
// @Param        month      path int    true "Month (1-12)"
// @Success      200 {object} APIResponse[settlementapp.StatementResponse]
// @Security     BearerAuth
// @Router       /financial-reports/property/{propertyId}/{year}/{month}/settlement [get]
func (h *SettlementHandler) GetSettlement(c *gin.Context) {
	key, err := recordKey(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	stmt, err := h.service.Compute(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stmt)
}

// Export godoc
// @ID           exportSettlement
// @Summary      Export the settlement of a month as PDF
// @Description  Streams the PDF, or with store=true uploads it and returns a download URL
// @Tags         settlements
// @Produce      application/pdf
// @Produce      json
// @Param        store query bool false "Store the PDF and return a download URL"
// @Success      200 {file}   binary
// @Success      201 {object} APIResponse[settlementapp.StoredStatement]
// @Failure      503 {object} ErrorResponse "Export not configured"
// @Security     BearerAuth
// @Router       /financial-reports/property/{propertyId}/{year}/{month}/settlement/export [get]
func (h *SettlementHandler) Export(c *gin.Context) {
	key, err := recordKey(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var query ExportQuery
	if !h.BindQuery(c, &query) {
		return
	}

	if query.Store {
		stored, err := h.service.ExportAndStore(c.Request.Context(), key)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, stored)
		return
	}

	exported, err := h.service.Export(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exported.FileName))
	c.Header("Content-Length", strconv.Itoa(len(exported.Data)))
	c.Data(http.StatusOK, exported.ContentType, exported.Data)
}
