package investor

import (
	"time"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/investor"
	"github.com/shopspring/decimal"
)

// ProfileRequest carries the contact details of an investor
type ProfileRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"max=100"`
	Phone    string `json:"phone" binding:"max=50"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Avatar   string `json:"avatar" binding:"max=500"`
}

func (r ProfileRequest) toProfile() investor.Profile {
	return investor.Profile{
		Name:     r.Name,
		Username: r.Username,
		Phone:    r.Phone,
		Email:    r.Email,
		Avatar:   r.Avatar,
	}
}

// PropertyShareDTO is a share in one property
type PropertyShareDTO struct {
	PropertyID string          `json:"property_id" binding:"required,max=100"`
	Percentage decimal.Decimal `json:"percentage"`
}

// CreateInvestorRequest creates an investor, optionally with initial shares
type CreateInvestorRequest struct {
	ProfileRequest
	Properties []PropertyShareDTO `json:"properties" binding:"omitempty,dive"`
}

// AddToPropertyRequest adds a candidate investor to a property.
// An existing investor is reused when username or name matches.
type AddToPropertyRequest struct {
	ProfileRequest
	Percentage decimal.Decimal `json:"percentage"`
}

// UpdateShareRequest changes the percentage held in a property
type UpdateShareRequest struct {
	Percentage decimal.Decimal `json:"percentage"`
}

// ListFilter holds query parameters for listing investors
type ListFilter struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search     string `form:"search" binding:"max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	PropertyID string `form:"property_id"`
}

// InvestorResponse is an investor as returned to clients
type InvestorResponse struct {
	InvestorID string             `json:"investor_id"`
	Name       string             `json:"name"`
	Username   string             `json:"username"`
	Phone      string             `json:"phone"`
	Email      string             `json:"email"`
	Avatar     string             `json:"avatar"`
	Properties []PropertyShareDTO `json:"properties"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// AddToPropertyResponse reports the investor and whether it was newly created
type AddToPropertyResponse struct {
	Investor InvestorResponse `json:"investor"`
	Created  bool             `json:"created"`
}

// RemovalResponse reports the outcome of removing an investor from a property
type RemovalResponse struct {
	InvestorID string                 `json:"investor_id"`
	PropertyID string                 `json:"property_id"`
	Action     investor.RemovalAction `json:"action"`
}

// ToInvestorResponse converts a domain investor
func ToInvestorResponse(inv *investor.Investor) InvestorResponse {
	shares := make([]PropertyShareDTO, len(inv.Properties))
	for i, s := range inv.Properties {
		shares[i] = PropertyShareDTO{PropertyID: s.PropertyID, Percentage: s.Percentage}
	}
	return InvestorResponse{
		InvestorID: inv.InvestorID,
		Name:       inv.Name,
		Username:   inv.Username,
		Phone:      inv.Phone,
		Email:      inv.Email,
		Avatar:     inv.Avatar,
		Properties: shares,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
}

// ToInvestorResponses converts a list of domain investors
func ToInvestorResponses(investors []*investor.Investor) []InvestorResponse {
	out := make([]InvestorResponse, len(investors))
	for i, inv := range investors {
		out[i] = ToInvestorResponse(inv)
	}
	return out
}
