package model

import "time"

// Media is an uploaded asset. It has no publication status.
type Media struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Alt       string    `json:"alt"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Type      string    `json:"type"`
	Folder    string    `json:"folder"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateMediaInput struct {
	URL       string `json:"url" validate:"required,urlorpath"`
	Alt       string `json:"alt" validate:"max=300"`
	Width     int    `json:"width" validate:"gte=0"`
	Height    int    `json:"height" validate:"gte=0"`
	Type      string `json:"type" validate:"max=100"`
	Folder    string `json:"folder" validate:"max=80"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`
}

func (in CreateMediaInput) Normalize() CreateMediaInput {
	in.URL = trim(in.URL)
	in.Alt = trim(in.Alt)
	in.Type = trim(in.Type)
	in.Folder = trim(in.Folder)
	if in.Folder == "" {
		in.Folder = "general"
	}
	return in
}

func (in CreateMediaInput) Validate() error { return validate(in) }

type UpdateMediaInput struct {
	Alt    *string `json:"alt" validate:"omitempty,max=300"`
	Folder *string `json:"folder" validate:"omitempty,min=1,max=80"`
}

func (in UpdateMediaInput) Normalize() UpdateMediaInput {
	in.Alt = trimPtr(in.Alt)
	in.Folder = trimPtr(in.Folder)
	return in
}

func (in UpdateMediaInput) Validate() error { return validate(in) }

// MediaFilter narrows the media library. Search matches alt text and URL.
// Status is ignored.
type MediaFilter struct {
	ListFilter
	Folder string `json:"folder,omitempty" form:"folder"`
	Type   string `json:"type,omitempty" form:"type"`
}
