package model

import "time"

// Lead is a contact request submitted from the public site. Leads are kept as
// an audit trail: they can be updated but never deleted.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateLeadInput struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=40"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
	Source  string `json:"source" validate:"max=80"`
}

func (in CreateLeadInput) Normalize() CreateLeadInput {
	in.Name = trim(in.Name)
	in.Email = trim(in.Email)
	in.Phone = trim(in.Phone)
	in.Subject = trim(in.Subject)
	in.Message = trim(in.Message)
	in.Source = trim(in.Source)
	if in.Source == "" {
		in.Source = "website"
	}
	return in
}

func (in CreateLeadInput) Validate() error { return validate(in) }

type UpdateLeadInput struct {
	Status  *string `json:"status" validate:"omitempty,oneof=new contacted closed"`
	Subject *string `json:"subject" validate:"omitempty,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=40"`
}

func (in UpdateLeadInput) Normalize() UpdateLeadInput {
	in.Status = trimPtr(in.Status)
	in.Subject = trimPtr(in.Subject)
	in.Phone = trimPtr(in.Phone)
	return in
}

func (in UpdateLeadInput) Validate() error { return validate(in) }

// LeadFilter narrows lead listings. Search matches name, email and message.
type LeadFilter struct {
	ListFilter
}
