package handlers

import (
	"errors"
	"strconv"
	"strings"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/relation"
	"foodgram/pkg/shortlink"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var relErr *relation.Error
	switch {
	case errors.As(err, &relErr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrParseID),
		errors.Is(err, shortlink.ErrInvalidCharacter),
		errors.Is(err, shortlink.ErrOverflow):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func failed(c *fiber.Ctx, message string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorw(message, "path", c.Path(), "error", err)
		return presenters.ErrorResponse(c, status, message, errors.New(domain.MessageFailedProcessRequest))
	}
	return presenters.ErrorResponse(c, status, message, err)
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 0)
	if err != nil || id == 0 {
		return 0, domain.ErrParseID
	}
	return uint(id), nil
}

func pageRequest(c *fiber.Ctx, pageSize int) domain.PageRequest {
	return domain.PageRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", pageSize),
	}.Normalize(pageSize)
}

// recipesLimit reads ?recipes_limit; absent or invalid means no cap.
func recipesLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return -1
	}
	return limit
}

// optionalBool parses 1/0/true/false; anything else means "not set".
func optionalBool(c *fiber.Ctx, key string) *bool {
	var v bool
	switch strings.ToLower(c.Query(key)) {
	case "1", "true":
		v = true
	case "0", "false":
		v = false
	default:
		return nil
	}
	return &v
}

func queryAll(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		if s := strings.TrimSpace(string(v)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
