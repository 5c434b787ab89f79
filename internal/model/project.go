package model

// Project is a portfolio case study.
type Project struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Client   string   `json:"client"`
	Summary  string   `json:"summary"`
	Body     string   `json:"body"`
	CoverURL string   `json:"cover_url"`
	Gallery  []string `json:"gallery"`
	Tech     []string `json:"tech"`
	Featured bool     `json:"featured"`
	Status   string   `json:"status"`
	Audit
}

type CreateProjectInput struct {
	Slug     string   `json:"slug" validate:"required,slug"`
	Title    string   `json:"title" validate:"required,max=200"`
	Client   string   `json:"client" validate:"max=200"`
	Summary  string   `json:"summary" validate:"max=500"`
	Body     string   `json:"body"`
	CoverURL string   `json:"cover_url" validate:"omitempty,urlorpath"`
	Gallery  []string `json:"gallery" validate:"max=50,dive,urlorpath"`
	Tech     []string `json:"tech" validate:"max=30,dive,max=60"`
	Featured bool     `json:"featured"`
	Status   string   `json:"status" validate:"oneof=draft published"`
}

func (in CreateProjectInput) Normalize() CreateProjectInput {
	in.Slug = trim(in.Slug)
	in.Title = trim(in.Title)
	in.Client = trim(in.Client)
	in.Summary = trim(in.Summary)
	in.CoverURL = trim(in.CoverURL)
	in.Gallery = trimAll(in.Gallery)
	in.Tech = trimAll(in.Tech)
	in.Status = defaultStatus(in.Status, StatusDraft)
	return in
}

func (in CreateProjectInput) Validate() error { return validate(in) }

type UpdateProjectInput struct {
	Slug     *string   `json:"slug" validate:"omitempty,slug"`
	Title    *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Client   *string   `json:"client" validate:"omitempty,max=200"`
	Summary  *string   `json:"summary" validate:"omitempty,max=500"`
	Body     *string   `json:"body"`
	CoverURL *string   `json:"cover_url" validate:"omitempty,urlorpath"`
	Gallery  *[]string `json:"gallery" validate:"omitempty,max=50,dive,urlorpath"`
	Tech     *[]string `json:"tech" validate:"omitempty,max=30,dive,max=60"`
	Featured *bool     `json:"featured"`
	Status   *string   `json:"status" validate:"omitempty,oneof=draft published"`
}

func (in UpdateProjectInput) Normalize() UpdateProjectInput {
	in.Slug = trimPtr(in.Slug)
	in.Title = trimPtr(in.Title)
	in.Client = trimPtr(in.Client)
	in.Summary = trimPtr(in.Summary)
	in.CoverURL = trimPtr(in.CoverURL)
	in.Status = trimPtr(in.Status)
	if in.Gallery != nil {
		g := trimAll(*in.Gallery)
		in.Gallery = &g
	}
	if in.Tech != nil {
		t := trimAll(*in.Tech)
		in.Tech = &t
	}
	return in
}

func (in UpdateProjectInput) Validate() error { return validate(in) }

// ProjectFilter narrows project listings. Search matches title, client and summary.
type ProjectFilter struct {
	ListFilter
	Featured *bool `json:"featured,omitempty" form:"featured"`
}
