package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/devmart/internal/errs"
	"github.com/devmart/internal/repository"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondErr maps the error taxonomy onto HTTP status codes.
func (a *API) respondErr(c *gin.Context, err error) {
	var opErr *errs.OperationError
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "errors": errs.FieldsOf(err)})
	case errors.Is(err, errs.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrSlugTaken):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, errs.ErrTimeout.Error())
	case errors.As(err, &opErr):
		respondError(c, http.StatusInternalServerError, err.Error())
	default:
		a.log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected handler error")
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func respondNotFound(c *gin.Context, entity string) {
	respondError(c, http.StatusNotFound, entity+" not found")
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// bindFilter reads list filters from the query string.
func bindFilter(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid query parameters")
		return false
	}
	return true
}

func idParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, "invalid id")
		return "", false
	}
	return id, true
}

func handleCreate[T, I any](a *API, c *gin.Context, create func(context.Context, I) (*T, []T, error)) {
	var in I
	if !bindJSON(c, &in, "invalid request body") {
		return
	}
	item, items, err := create(c.Request.Context(), in)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "items": items})
}

func handleUpdate[T, I any](a *API, c *gin.Context, update func(context.Context, string, I) (*T, []T, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in I
	if !bindJSON(c, &in, "invalid request body") {
		return
	}
	item, items, err := update(c.Request.Context(), id, in)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "items": items})
}

func handleDelete[T any](a *API, c *gin.Context, remove func(context.Context, string) ([]T, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	items, err := remove(c.Request.Context(), id)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func handleGet[T any](a *API, c *gin.Context, entity string, find func(context.Context, string) (*T, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := find(c.Request.Context(), id)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	if item == nil {
		respondNotFound(c, entity)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// handleList reads the filtered page through the hook and adds the total
// count of matching rows.
func handleList[T, F any](a *API, c *gin.Context, apply func(context.Context, F) ([]T, error), filter F, count func(context.Context, F) (int64, error)) {
	items, err := apply(c.Request.Context(), filter)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	total, err := count(c.Request.Context(), filter)
	if err != nil {
		a.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}
