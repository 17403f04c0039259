package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-center/internal/api/dto"
	"github.com/spec-kit/member-center/internal/domain"
	"github.com/spec-kit/member-center/internal/service"
)

// BenefitsHandler serves catalog reads.
type BenefitsHandler struct {
	benefits *service.BenefitService
}

// NewBenefitsHandler constructs handler.
func NewBenefitsHandler(benefits *service.BenefitService) *BenefitsHandler {
	return &BenefitsHandler{benefits: benefits}
}

// ListBenefits GET /api/benefits.
func (h *BenefitsHandler) ListBenefits(c *fiber.Ctx) error {
	category := categoryQuery(c)
	benefits, err := h.benefits.ListBenefits(c.UserContext(), category)
	if err != nil {
		return err
	}
	items := make([]dto.BenefitResponse, 0, len(benefits))
	for i := range benefits {
		items = append(items, benefitResponse(&benefits[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetBenefit GET /api/benefits/:id.
func (h *BenefitsHandler) GetBenefit(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	benefit, err := h.benefits.GetBenefit(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": benefitResponse(benefit)})
}

// ListForMember GET /api/members/:id/benefits. Returns the catalog with each
// entry's evaluated eligibility for the authenticated member.
func (h *BenefitsHandler) ListForMember(c *fiber.Ctx) error {
	member, err := requireSelf(c, "id")
	if err != nil {
		return err
	}
	category := categoryQuery(c)
	eligible, err := h.benefits.ListForMember(c.UserContext(), member.ID, category)
	if err != nil {
		return err
	}
	items := make([]dto.EligibleBenefitResponse, 0, len(eligible))
	for i := range eligible {
		items = append(items, dto.EligibleBenefitResponse{
			Benefit:  benefitResponse(&eligible[i].Benefit),
			Eligible: eligible[i].Decision.Eligible,
			Reasons:  eligible[i].Decision.Reasons,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func categoryQuery(c *fiber.Ctx) *domain.BenefitCategory {
	if raw := c.Query("category"); raw != "" {
		category := domain.BenefitCategory(raw)
		return &category
	}
	return nil
}

func benefitResponse(benefit *domain.Benefit) dto.BenefitResponse {
	return dto.BenefitResponse{
		ID:                 benefit.ID,
		Name:               benefit.Name,
		Description:        benefit.Description,
		Category:           benefit.Category,
		CoverageAmount:     benefit.CoverageAmount,
		MonthlyPremium:     benefit.MonthlyPremium,
		Deductible:         benefit.Deductible,
		MinAge:             benefit.MinAge,
		MaxAge:             benefit.MaxAge,
		RequiresActiveDuty: benefit.RequiresActiveDuty,
		PlanCode:           benefit.PlanCode,
		IsActive:           benefit.IsActive,
		EffectiveDate:      dateString(benefit.EffectiveDate),
	}
}
