package handler

import (
	"github.com/gin-gonic/gin"
	investorapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/investor"
)

// InvestorHandler handles the investor roster
type InvestorHandler struct {
	BaseHandler
	service *investorapp.RosterService
}

// NewInvestorHandler creates a new InvestorHandler
func NewInvestorHandler(service *investorapp.RosterService) *InvestorHandler {
	return &InvestorHandler{service: service}
}

// List godoc
// @ID           listInvestors
// @Summary      List investors
// @Tags         investors
// @Produce      json
// @Param        search      query string false "Search by name, username or email"
// @Param        property_id query string false "Only investors of this property"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size"   default(20)
// @Success      200 {object} APIResponse[[]investorapp.InvestorResponse]
// @Security     BearerAuth
// @Router       /investors [get]
func (h *InvestorHandler) List(c *gin.Context) {
	var filter investorapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Create godoc
// @ID           createInvestor
// @Summary      Create an investor
// @Tags         investors
// @Accept       json
// @Produce      json
// @Param        request body investorapp.CreateInvestorRequest true "Investor"
// @Success      201 {object} APIResponse[investorapp.InvestorResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investors [post]
func (h *InvestorHandler) Create(c *gin.Context) {
	var req investorapp.CreateInvestorRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// Get godoc
// @ID           getInvestor
// @Summary      Get an investor
// @Tags         investors
// @Produce      json
// @Param        id path string true "Investor ID"
// @Success      200 {object} APIResponse[investorapp.InvestorResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investors/{id} [get]
func (h *InvestorHandler) Get(c *gin.Context) {
	inv, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Update godoc
// @ID           updateInvestor
// @Summary      Update an investor's profile
// @Tags         investors
// @Accept       json
// @Produce      json
// @Param        id      path string true "Investor ID"
// @Param        request body investorapp.ProfileRequest true "Profile"
// @Success      200 {object} APIResponse[investorapp.InvestorResponse]
// @Security     BearerAuth
// @Router       /investors/{id} [put]
func (h *InvestorHandler) Update(c *gin.Context) {
	var req investorapp.ProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Delete godoc
// @ID           deleteInvestor
// @Summary      Delete an investor with all its property shares
// @Tags         investors
// @Param        id path string true "Investor ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investors/{id} [delete]
func (h *InvestorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListByProperty godoc
// @ID           listPropertyInvestors
// @Summary      List the investors of a property
// @Tags         investors
// @Produce      json
// @Param        propertyId path string true "Property ID"
// @Success      200 {object} APIResponse[[]investorapp.InvestorResponse]
// @Security     BearerAuth
// @Router       /investors/property/{propertyId} [get]
func (h *InvestorHandler) ListByProperty(c *gin.Context) {
	investors, err := h.service.ListByProperty(c.Request.Context(), c.Param("propertyId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, investors)
}

// AddToProperty godoc
// @ID           addInvestorToProperty
// @Summary      Add an investor to a property
// @Description  Reuses an investor whose username or name matches, otherwise creates one
// @Tags         investors
// @Accept       json
// @Produce      json
// @Param        propertyId path string true "Property ID"
// @Param        request body investorapp.AddToPropertyRequest true "Candidate"
// @Success      201 {object} APIResponse[investorapp.AddToPropertyResponse] "New investor"
// @Success      200 {object} APIResponse[investorapp.AddToPropertyResponse] "Existing investor"
// @Failure      409 {object} ErrorResponse "Already associated"
// @Security     BearerAuth
// @Router       /investors/property/{propertyId} [post]
func (h *InvestorHandler) AddToProperty(c *gin.Context) {
	var req investorapp.AddToPropertyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.AddToProperty(c.Request.Context(), c.Param("propertyId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.Created {
		h.Created(c, resp)
		return
	}
	h.Success(c, resp)
}

// UpdateShare godoc
// @ID           updateInvestorShare
// @Summary      Change the percentage an investor holds in a property
// @Tags         investors
// @Accept       json
// @Produce      json
// @Param        id         path string true "Investor ID"
// @Param        propertyId path string true "Property ID"
// @Param        request body investorapp.UpdateShareRequest true "Share"
// @Success      200 {object} APIResponse[investorapp.InvestorResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /investors/{id}/properties/{propertyId} [put]
func (h *InvestorHandler) UpdateShare(c *gin.Context) {
	var req investorapp.UpdateShareRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv, err := h.service.UpdateShare(c.Request.Context(), c.Param("id"), c.Param("propertyId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// RemoveFromProperty godoc
// @ID           removeInvestorFromProperty
// @Summary      Remove an investor from a property
// @Description  Deletes the investor when it was its last property
// @Tags         investors
// @Produce      json
// @Param        id         path string true "Investor ID"
// @Param        propertyId path string true "Property ID"
// @Success      200 {object} APIResponse[investorapp.RemovalResponse]
// @Security     BearerAuth
// @Router       /investors/{id}/properties/{propertyId} [delete]
func (h *InvestorHandler) RemoveFromProperty(c *gin.Context) {
	resp, err := h.service.RemoveFromProperty(c.Request.Context(), c.Param("id"), c.Param("propertyId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
