package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	accountdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type RegisterInput struct {
	BusinessName    string
	BusinessSlug    string
	BusinessPhone   string
	BusinessAddress string
	Timezone        string

	Name     string
	Email    string
	Password string
	Phone    string
}

type Session struct {
	User     *models.User     `json:"user"`
	Business *models.Business `json:"business"`
	Token    string           `json:"token"`
}

// ======================================================
// USE CASE
// ======================================================

// RegisterBusiness creates a tenant together with its owner admin.
type RegisterBusiness struct {
	repo   accountdomain.Repository
	tokens TokenSigner
	emails EmailChecker
	audit  Auditor
}

func NewRegisterBusiness(
	repo accountdomain.Repository,
	tokens TokenSigner,
	emails EmailChecker,
	auditor Auditor,
) *RegisterBusiness {
	return &RegisterBusiness{repo: repo, tokens: tokens, emails: emails, audit: auditor}
}

func (uc *RegisterBusiness) Execute(ctx context.Context, in RegisterInput) (*Session, error) {
	slug := strings.ToLower(strings.TrimSpace(in.BusinessSlug))
	email := normalizeEmail(in.Email)

	// --------------------------------------------------
	// 1. Shape
	// --------------------------------------------------
	var fields []httperr.FieldError
	if !slugPattern.MatchString(slug) || len(slug) > 100 {
		fields = append(fields, httperr.FieldError{Field: "business_slug", Rule: "slug", Message: "business_slug must be lowercase letters, digits and dashes"})
	}
	if in.Timezone != "" && !timezone.IsValid(in.Timezone) {
		fields = append(fields, httperr.FieldError{Field: "timezone", Rule: "timezone", Message: "timezone must be an IANA name"})
	}
	if len(fields) > 0 {
		return nil, httperr.ErrValidation(fields...)
	}

	if uc.emails != nil && !uc.emails.Valid(ctx, email) {
		return nil, httperr.ErrValidation(httperr.FieldError{Field: "email", Rule: "email_domain", Message: "email domain does not accept mail"})
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// --------------------------------------------------
	// 2. Business + owner, atomically
	// --------------------------------------------------
	business := &models.Business{
		Name:     strings.TrimSpace(in.BusinessName),
		Slug:     slug,
		Phone:    in.BusinessPhone,
		Email:    email,
		Address:  in.BusinessAddress,
		Timezone: in.Timezone,
	}
	owner := &models.User{
		Name:          strings.TrimSpace(in.Name),
		Email:         &email,
		PasswordHash:  hashed,
		Phone:         in.Phone,
		Role:          models.RoleAdmin,
		NotifyEnabled: true,
	}

	if err := uc.repo.CreateBusinessWithOwner(ctx, business, owner); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, httperr.ErrBusinessf(httperr.CodeConflict, "slug or email already registered")
		}
		return nil, fmt.Errorf("create business: %w", err)
	}

	token, err := uc.tokens.Issue(auth.Identity{UserID: owner.ID, BusinessID: business.ID, Role: owner.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: business.ID,
		UserID:     uintPtr(owner.ID),
		Action:     "business_registered",
		Entity:     "business",
		EntityID:   uintPtr(business.ID),
	})

	return &Session{User: owner, Business: business, Token: token}, nil
}
