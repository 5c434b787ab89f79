// Package repository is the data-access layer: one interface per entity, one
// gorm adapter implementing it, and a Registry that hands out a single adapter
// instance per entity type.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devmart/internal/errs"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ErrSlugTaken matches, via errors.Is, the error reported when a slug is already used.
var ErrSlugTaken = errors.New("slug already exists")

// SlugTakenError names the conflicting slug.
type SlugTakenError struct {
	Slug string
}

func (e *SlugTakenError) Error() string {
	return fmt.Sprintf("slug %q already exists", e.Slug)
}

func (e *SlugTakenError) Is(target error) bool {
	return target == ErrSlugTaken
}

// Session resolves the identifier of the authenticated actor for audit fields.
type Session interface {
	CurrentActor(ctx context.Context) (string, error)
}

type anonymousSession struct{}

func (anonymousSession) CurrentActor(context.Context) (string, error) { return "", nil }

// base bundles what every adapter needs.
type base struct {
	db      *gorm.DB
	session Session
	log     zerolog.Logger
	entity  string
}

func (b base) conn(ctx context.Context) *gorm.DB {
	return b.db.WithContext(ctx)
}

// fail logs the backend error once and wraps it with the operation name.
func (b base) fail(op string, err error) error {
	b.log.Error().Err(err).Str("entity", b.entity).Str("op", op).Msg("repository operation failed")
	return errs.Wrap(op, b.entity, err)
}

func (b base) actor(ctx context.Context) (string, error) {
	id, err := b.session.CurrentActor(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	return id, nil
}

// ensureSlugFree fails with ErrSlugTaken when another row of table already uses slug.
func (b base) ensureSlugFree(ctx context.Context, table any, slug, exceptID string) error {
	query := b.conn(ctx).Model(table).Where("slug = ?", slug)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &SlugTakenError{Slug: slug}
	}
	return nil
}

// first loads one row matching query, returning nil when nothing matches.
func first[R any](ctx context.Context, gdb *gorm.DB, query string, args ...any) (*R, error) {
	var row R
	if err := gdb.WithContext(ctx).Where(query, args...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// mustFirst is first for writes: a missing row is errs.ErrNotFound.
func mustFirst[R any](ctx context.Context, gdb *gorm.DB, id string) (*R, error) {
	row, err := first[R](ctx, gdb, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, id)
	}
	return row, nil
}

func mapRows[R, E any](rows []R, fn func(R) E) []E {
	out := make([]E, 0, len(rows))
	for _, row := range rows {
		out = append(out, fn(row))
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applySearch adds a case-insensitive substring predicate OR-ed across columns.
func applySearch(q *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return q
	}
	like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		clauses = append(clauses, "LOWER("+column+`) LIKE ? ESCAPE '\'`)
		args = append(args, like)
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func applyEq(q *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return q
	}
	return q.Where(column+" = ?", value)
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func mapOrEmpty(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
