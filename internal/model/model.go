// Package model declares the entity shapes returned by repositories, the DTOs
// accepted for writes (with their schema rules) and the list filters.
package model

import (
	"strings"
	"time"

	"github.com/devmart/internal/validation"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"

	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusClosed    = "closed"
)

const (
	// MaxLimit caps every list query.
	MaxLimit = 100
)

// Audit holds who touched a row and when.
type Audit struct {
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter is embedded by every entity filter. Status is an equality
// predicate, Search a case-insensitive substring match over a few text fields.
type ListFilter struct {
	Status string `json:"status,omitempty" form:"status"`
	Search string `json:"search,omitempty" form:"search"`
	Limit  int    `json:"limit,omitempty" form:"limit"`
	Offset int    `json:"offset,omitempty" form:"offset"`
}

// Window returns the effective limit and offset, applying the entity default
// when no limit was given and clamping to MaxLimit.
func (f ListFilter) Window(defaultLimit int) (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Normalized trims user supplied predicates.
func (f ListFilter) Normalized() ListFilter {
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	f.Search = strings.TrimSpace(f.Search)
	return f
}

func validate(v any) error {
	return validation.Struct(v)
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func defaultStatus(status, fallback string) string {
	if s := strings.ToLower(strings.TrimSpace(status)); s != "" {
		return s
	}
	return fallback
}
