package domain

import (
	"errors"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

var (
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageSuccessPing          = "pong"

	ErrParseID       = errors.New("failed to parse id")
	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")

	// ErrNotFound is returned when a referenced recipe, user, tag or
	// ingredient does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRelationNotFound is returned when a favorite, cart or subscription
	// row that should be removed does not exist.
	ErrRelationNotFound = errors.New("relation not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrSelfReference    = errors.New("self reference not allowed")
	// ErrDuplicate is reported by storage when a unique constraint rejects
	// an insert.
	ErrDuplicate = errors.New("duplicate key")
	ErrForbidden = errors.New("forbidden")
	// ErrValidation is wrapped by every input error a service rejects.
	ErrValidation = errors.New("validation failed")
)

type (
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}

	PageRequest struct {
		Page  int
		Limit int
	}
)

// Normalize clamps page to >= 1 and limit to [1, MaxPageSize], using def
// when no limit was given.
func (p PageRequest) Normalize(def int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = def
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPagination(req PageRequest, total int64) Pagination {
	if req.Limit < 1 {
		return Pagination{Page: req.Page, Total: total}
	}
	return Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: (total + int64(req.Limit) - 1) / int64(req.Limit),
	}
}
