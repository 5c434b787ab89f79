package model

import "time"

// BlogPost is an article. Views is bumped each time the public site reads it.
type BlogPost struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `json:"body"`
	CoverURL    string     `json:"cover_url"`
	AuthorID    string     `json:"author_id"`
	Tags        []string   `json:"tags"`
	Featured    bool       `json:"featured"`
	Status      string     `json:"status"`
	Views       int64      `json:"views"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Audit
}

type CreateBlogPostInput struct {
	Slug     string   `json:"slug" validate:"required,slug"`
	Title    string   `json:"title" validate:"required,max=200"`
	Excerpt  string   `json:"excerpt" validate:"max=500"`
	Body     string   `json:"body"`
	CoverURL string   `json:"cover_url" validate:"omitempty,urlorpath"`
	AuthorID string   `json:"author_id" validate:"max=64"`
	Tags     []string `json:"tags" validate:"max=20,dive,max=40"`
	Featured bool     `json:"featured"`
	Status   string   `json:"status" validate:"oneof=draft published"`
}

func (in CreateBlogPostInput) Normalize() CreateBlogPostInput {
	in.Slug = trim(in.Slug)
	in.Title = trim(in.Title)
	in.Excerpt = trim(in.Excerpt)
	in.CoverURL = trim(in.CoverURL)
	in.AuthorID = trim(in.AuthorID)
	in.Tags = trimAll(in.Tags)
	in.Status = defaultStatus(in.Status, StatusDraft)
	return in
}

func (in CreateBlogPostInput) Validate() error { return validate(in) }

type UpdateBlogPostInput struct {
	Slug     *string   `json:"slug" validate:"omitempty,slug"`
	Title    *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Excerpt  *string   `json:"excerpt" validate:"omitempty,max=500"`
	Body     *string   `json:"body"`
	CoverURL *string   `json:"cover_url" validate:"omitempty,urlorpath"`
	AuthorID *string   `json:"author_id" validate:"omitempty,max=64"`
	Tags     *[]string `json:"tags" validate:"omitempty,max=20,dive,max=40"`
	Featured *bool     `json:"featured"`
	Status   *string   `json:"status" validate:"omitempty,oneof=draft published"`
}

func (in UpdateBlogPostInput) Normalize() UpdateBlogPostInput {
	in.Slug = trimPtr(in.Slug)
	in.Title = trimPtr(in.Title)
	in.Excerpt = trimPtr(in.Excerpt)
	in.CoverURL = trimPtr(in.CoverURL)
	in.AuthorID = trimPtr(in.AuthorID)
	in.Status = trimPtr(in.Status)
	if in.Tags != nil {
		t := trimAll(*in.Tags)
		in.Tags = &t
	}
	return in
}

func (in UpdateBlogPostInput) Validate() error { return validate(in) }

// BlogPostFilter narrows post listings. Search matches title, excerpt and body.
type BlogPostFilter struct {
	ListFilter
	Featured *bool  `json:"featured,omitempty" form:"featured"`
	Tag      string `json:"tag,omitempty" form:"tag"`
}
