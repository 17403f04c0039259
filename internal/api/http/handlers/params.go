package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-center/internal/auth"
	"github.com/spec-kit/member-center/internal/domain"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

const dateLayout = "2006-01-02"

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}

// requireSelf loads the authenticated member and checks it matches the path
// parameter. Member identity is always an explicit parameter, never ambient
// session state, but members may only read their own records.
func requireSelf(c *fiber.Ctx, paramName string) (*domain.Member, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Member == nil {
		return nil, apperrors.NewUnauthorized("member authentication required")
	}
	id, err := parseIDParam(c, paramName)
	if err != nil {
		return nil, err
	}
	if principal.Member.ID != id {
		return nil, apperrors.NewForbidden("access to another member's records is not allowed")
	}
	return principal.Member, nil
}

func parseDate(val *string) (*time.Time, error) {
	if val == nil || *val == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *val)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", map[string]any{"value": *val})
	}
	return &t, nil
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
