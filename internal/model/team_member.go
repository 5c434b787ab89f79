package model

// TeamMember is a person shown on the team page.
type TeamMember struct {
	ID       string            `json:"id"`
	Slug     string            `json:"slug"`
	Name     string            `json:"name"`
	Role     string            `json:"role"`
	Bio      string            `json:"bio"`
	PhotoURL string            `json:"photo_url"`
	Socials  map[string]string `json:"socials"`
	OrderNum int               `json:"order_num"`
	Status   string            `json:"status"`
	Audit
}

type CreateTeamMemberInput struct {
	Slug     string            `json:"slug" validate:"required,slug"`
	Name     string            `json:"name" validate:"required,max=120"`
	Role     string            `json:"role" validate:"max=120"`
	Bio      string            `json:"bio"`
	PhotoURL string            `json:"photo_url" validate:"omitempty,urlorpath"`
	Socials  map[string]string `json:"socials" validate:"max=12,dive,keys,min=1,max=40,endkeys,urlorpath"`
	OrderNum int               `json:"order_num" validate:"gte=0"`
	Status   string            `json:"status" validate:"oneof=draft published"`
}

func (in CreateTeamMemberInput) Normalize() CreateTeamMemberInput {
	in.Slug = trim(in.Slug)
	in.Name = trim(in.Name)
	in.Role = trim(in.Role)
	in.PhotoURL = trim(in.PhotoURL)
	in.Status = defaultStatus(in.Status, StatusPublished)
	return in
}

func (in CreateTeamMemberInput) Validate() error { return validate(in) }

type UpdateTeamMemberInput struct {
	Slug     *string            `json:"slug" validate:"omitempty,slug"`
	Name     *string            `json:"name" validate:"omitempty,min=1,max=120"`
	Role     *string            `json:"role" validate:"omitempty,max=120"`
	Bio      *string            `json:"bio"`
	PhotoURL *string            `json:"photo_url" validate:"omitempty,urlorpath"`
	Socials  *map[string]string `json:"socials" validate:"omitempty,max=12,dive,keys,min=1,max=40,endkeys,urlorpath"`
	OrderNum *int               `json:"order_num" validate:"omitempty,gte=0"`
	Status   *string            `json:"status" validate:"omitempty,oneof=draft published"`
}

func (in UpdateTeamMemberInput) Normalize() UpdateTeamMemberInput {
	in.Slug = trimPtr(in.Slug)
	in.Name = trimPtr(in.Name)
	in.Role = trimPtr(in.Role)
	in.PhotoURL = trimPtr(in.PhotoURL)
	in.Status = trimPtr(in.Status)
	return in
}

func (in UpdateTeamMemberInput) Validate() error { return validate(in) }

// TeamFilter narrows the team listing. Search matches name, role and bio.
type TeamFilter struct {
	ListFilter
}
