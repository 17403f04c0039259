package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-center/internal/api/dto"
	"github.com/spec-kit/member-center/internal/domain"
	"github.com/spec-kit/member-center/internal/service"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

// MembersHandler manages registration, login and member profile endpoints.
type MembersHandler struct {
	members  *service.MemberService
	coverage *service.CoverageService
}

// NewMembersHandler constructs handler.
func NewMembersHandler(members *service.MemberService, coverage *service.CoverageService) *MembersHandler {
	return &MembersHandler{members: members, coverage: coverage}
}

// Register POST /auth/members/register.
func (h *MembersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return err
	}
	serviceStart, err := parseDate(req.ServiceStartDate)
	if err != nil {
		return err
	}
	serviceEnd, err := parseDate(req.ServiceEndDate)
	if err != nil {
		return err
	}

	input := service.RegisterInput{
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      dob,
		Phone:            req.Phone,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		ZipCode:          req.ZipCode,
		MilitaryBranch:   req.MilitaryBranch,
		ServiceStartDate: serviceStart,
		ServiceEndDate:   serviceEnd,
		Rank:             req.Rank,
		IsActiveDuty:     req.IsActiveDuty,
	}
	member, token, exp, err := h.members.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{
		Member:    memberResponse(member),
		Token:     token,
		ExpiresAt: exp,
	}})
}

// Login POST /auth/members/login.
func (h *MembersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	member, token, exp, err := h.members.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Member:    memberResponse(member),
		Token:     token,
		ExpiresAt: exp,
	}})
}

// GetMember GET /api/members/:id.
func (h *MembersHandler) GetMember(c *fiber.Ctx) error {
	member, err := requireSelf(c, "id")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": memberResponse(member)})
}

// Dashboard GET /api/members/:id/dashboard.
func (h *MembersHandler) Dashboard(c *fiber.Ctx) error {
	member, err := requireSelf(c, "id")
	if err != nil {
		return err
	}
	dashboard, err := h.coverage.MemberDashboard(c.UserContext(), member.ID)
	if err != nil {
		return err
	}

	enrollments := make([]dto.EnrollmentResponse, 0, len(dashboard.Enrollments))
	for i := range dashboard.Enrollments {
		enrollments = append(enrollments, enrollmentResponse(&dashboard.Enrollments[i]))
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Member:      memberResponse(dashboard.Member),
		Enrollments: enrollments,
		Summary:     coverageSummaryResponse(dashboard.Summary),
	}})
}

func memberResponse(member *domain.Member) dto.MemberResponse {
	return dto.MemberResponse{
		ID:                  member.ID,
		Email:               member.Email,
		FirstName:           member.FirstName,
		LastName:            member.LastName,
		DateOfBirth:         dateString(member.DateOfBirth),
		Phone:               member.Phone,
		Address:             member.Address,
		City:                member.City,
		State:               member.State,
		ZipCode:             member.ZipCode,
		MilitaryBranch:      member.MilitaryBranch,
		ServiceStartDate:    dateString(member.ServiceStartDate),
		ServiceEndDate:      dateString(member.ServiceEndDate),
		Rank:                member.Rank,
		IsActiveDuty:        member.IsActiveDuty,
		MemberNumber:        member.MemberNumber,
		MembershipStatus:    member.MembershipStatus,
		MembershipStartDate: dateString(member.MembershipStartDate),
		CreatedAt:           member.CreatedAt,
	}
}

func coverageSummaryResponse(summary domain.CoverageSummary) dto.CoverageSummaryResponse {
	byCategory := make(map[domain.BenefitCategory]dto.CategoryTotalsResponse, len(summary.ByCategory))
	for category, totals := range summary.ByCategory {
		byCategory[category] = dto.CategoryTotalsResponse{
			Coverage: totals.Coverage,
			Premium:  totals.Premium,
			Count:    totals.Count,
		}
	}
	return dto.CoverageSummaryResponse{
		TotalCoverage:       summary.TotalCoverage,
		TotalMonthlyPremium: summary.TotalMonthlyPremium,
		ByCategory:          byCategory,
	}
}
