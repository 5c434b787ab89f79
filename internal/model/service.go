package model

// Service is an offering listed on the site, shown in OrderNum order.
type Service struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Body     string `json:"body"`
	Icon     string `json:"icon"`
	OrderNum int    `json:"order_num"`
	Status   string `json:"status"`
	Audit
}

// CreateServiceInput represents fields accepted when creating a service.
type CreateServiceInput struct {
	Slug     string `json:"slug" validate:"required,slug"`
	Title    string `json:"title" validate:"required,max=200"`
	Summary  string `json:"summary" validate:"max=500"`
	Body     string `json:"body"`
	Icon     string `json:"icon" validate:"max=200"`
	OrderNum int    `json:"order_num" validate:"gte=0"`
	Status   string `json:"status" validate:"oneof=draft published"`
}

func (in CreateServiceInput) Normalize() CreateServiceInput {
	in.Slug = trim(in.Slug)
	in.Title = trim(in.Title)
	in.Summary = trim(in.Summary)
	in.Icon = trim(in.Icon)
	in.Status = defaultStatus(in.Status, StatusDraft)
	return in
}

func (in CreateServiceInput) Validate() error { return validate(in) }

// UpdateServiceInput carries optional changes; nil fields are left untouched.
type UpdateServiceInput struct {
	Slug     *string `json:"slug" validate:"omitempty,slug"`
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	Summary  *string `json:"summary" validate:"omitempty,max=500"`
	Body     *string `json:"body"`
	Icon     *string `json:"icon" validate:"omitempty,max=200"`
	OrderNum *int    `json:"order_num" validate:"omitempty,gte=0"`
	Status   *string `json:"status" validate:"omitempty,oneof=draft published"`
}

func (in UpdateServiceInput) Normalize() UpdateServiceInput {
	in.Slug = trimPtr(in.Slug)
	in.Title = trimPtr(in.Title)
	in.Summary = trimPtr(in.Summary)
	in.Icon = trimPtr(in.Icon)
	in.Status = trimPtr(in.Status)
	return in
}

func (in UpdateServiceInput) Validate() error { return validate(in) }

// ServiceFilter narrows service listings. Search matches title, summary and slug.
type ServiceFilter struct {
	ListFilter
}
