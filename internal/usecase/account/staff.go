package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	accountdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type CreateStaffInput struct {
	BusinessID    uint
	ActorID       uint
	Name          string
	Email         string
	Password      string
	Phone         string
	Role          string
	NotifyEnabled bool
}

type CreateStaff struct {
	repo  accountdomain.Repository
	audit Auditor
}

func NewCreateStaff(repo accountdomain.Repository, auditor Auditor) *CreateStaff {
	return &CreateStaff{repo: repo, audit: auditor}
}

func (uc *CreateStaff) Execute(ctx context.Context, in CreateStaffInput) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleWorker
	}
	if role != models.RoleWorker && role != models.RoleAdmin {
		return nil, httperr.ErrValidation(httperr.FieldError{Field: "role", Rule: "oneof", Message: "role must be one of [admin worker]"})
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	email := normalizeEmail(in.Email)
	u := &models.User{
		BusinessID:    in.BusinessID,
		Name:          strings.TrimSpace(in.Name),
		Email:         &email,
		PasswordHash:  hashed,
		Phone:         in.Phone,
		Role:          role,
		NotifyEnabled: in.NotifyEnabled && role == models.RoleAdmin,
	}

	if err := uc.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, httperr.ErrBusinessf(httperr.CodeConflict, "email already registered")
		}
		return nil, fmt.Errorf("create staff: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     uintPtr(in.ActorID),
		Action:     "staff_created",
		Entity:     "user",
		EntityID:   uintPtr(u.ID),
		Metadata:   map[string]any{"role": role},
	})
	return u, nil
}
