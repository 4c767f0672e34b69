package dto

import (
	"bizdesk/internal/core/entity"
	"bizdesk/internal/domain/catalogs/counterparty"
)

// CreateCounterpartyRequest is the request body for creating a client or supplier.
type CreateCounterpartyRequest struct {
	Code        string        `json:"code"`
	CompanyName string        `json:"companyName" binding:"required"`
	ContactName string        `json:"contactName"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Address     string        `json:"address"`
	Status      entity.Status `json:"status"`
}

// ToEntity converts the request into a counterparty with the given role.
func (r *CreateCounterpartyRequest) ToEntity(role counterparty.Role) *counterparty.Counterparty {
	cp := counterparty.New(role, r.CompanyName, r.ContactName, r.Email)
	cp.Code = r.Code
	cp.Phone = r.Phone
	cp.Address = r.Address
	if r.Status != "" {
		cp.Status = r.Status
	}
	return cp
}

// UpdateCounterpartyRequest is the request body for updating a counterparty.
// The accumulated total is not writable.
type UpdateCounterpartyRequest struct {
	CompanyName string        `json:"companyName" binding:"required"`
	ContactName string        `json:"contactName"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Address     string        `json:"address"`
	Status      entity.Status `json:"status" binding:"required"`
}

// ApplyTo applies the update onto an existing counterparty.
func (r *UpdateCounterpartyRequest) ApplyTo(cp *counterparty.Counterparty) {
	cp.Name = r.CompanyName
	cp.ContactName = r.ContactName
	cp.Email = r.Email
	cp.Phone = r.Phone
	cp.Address = r.Address
	cp.Status = r.Status
}
