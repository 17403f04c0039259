package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-center/internal/api/dto"
	"github.com/spec-kit/member-center/internal/domain"
	"github.com/spec-kit/member-center/internal/service"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

// EnrollmentsHandler manages enrollment ledger endpoints.
type EnrollmentsHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentsHandler constructs handler.
func NewEnrollmentsHandler(enrollments *service.EnrollmentService) *EnrollmentsHandler {
	return &EnrollmentsHandler{enrollments: enrollments}
}

// ListEnrollments GET /api/members/:id/enrollments.
func (h *EnrollmentsHandler) ListEnrollments(c *fiber.Ctx) error {
	member, err := requireSelf(c, "id")
	if err != nil {
		return err
	}
	activeOnly := true
	if raw := c.Query("active_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.NewValidationError("invalid active_only", nil)
		}
		activeOnly = parsed
	}

	enrollments, err := h.enrollments.ListEnrollments(c.UserContext(), member.ID, activeOnly)
	if err != nil {
		return err
	}
	items := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		items = append(items, enrollmentResponse(&enrollments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateEnrollment POST /api/members/:id/enrollments.
func (h *EnrollmentsHandler) CreateEnrollment(c *fiber.Ctx) error {
	member, err := requireSelf(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateEnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.BenefitID <= 0 {
		return apperrors.NewValidationError("benefit_id required", nil)
	}

	var beneficiary *service.BeneficiaryInput
	if req.BeneficiaryName != nil || req.BeneficiaryRelationship != nil {
		beneficiary = &service.BeneficiaryInput{
			Name:         req.BeneficiaryName,
			Relationship: req.BeneficiaryRelationship,
		}
	}

	enrollment, err := h.enrollments.Enroll(c.UserContext(), member.ID, req.BenefitID, beneficiary)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": enrollmentResponse(enrollment)})
}

// CancelEnrollment DELETE /api/members/:id/enrollments/:enrollmentID.
func (h *EnrollmentsHandler) CancelEnrollment(c *fiber.Ctx) error {
	member, err := requireSelf(c, "id")
	if err != nil {
		return err
	}
	enrollmentID, err := parseIDParam(c, "enrollmentID")
	if err != nil {
		return err
	}
	if err := h.enrollments.Cancel(c.UserContext(), member.ID, enrollmentID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "enrollment cancelled"}})
}

func enrollmentResponse(enrollment *domain.Enrollment) dto.EnrollmentResponse {
	resp := dto.EnrollmentResponse{
		ID:                      enrollment.ID,
		MemberID:                enrollment.MemberID,
		BenefitID:               enrollment.BenefitID,
		EnrollmentDate:          enrollment.EnrollmentDate.Format(dateLayout),
		EffectiveDate:           enrollment.EffectiveDate.Format(dateLayout),
		TerminationDate:         dateString(enrollment.TerminationDate),
		IsActive:                enrollment.IsActive,
		CoverageAmount:          enrollment.CoverageAmount,
		MonthlyPremium:          enrollment.MonthlyPremium,
		BeneficiaryName:         enrollment.BeneficiaryName,
		BeneficiaryRelationship: enrollment.BeneficiaryRelationship,
	}
	if enrollment.Benefit != nil {
		benefit := benefitResponse(enrollment.Benefit)
		resp.Benefit = &benefit
	}
	return resp
}
