package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	accountdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/notify"
)

const minClientPassword = 8

type SignupInput struct {
	BusinessSlug string
	Name         string
	Phone        string
	Password     string
}

// ======================================================
// SIGNUP
// ======================================================

// SignupClient creates a client of a business, identified by phone within
// that business. An existing phone is a CONFLICT and yields no token;
// returning clients go through ClientLogin. Phones are stored as given.
type SignupClient struct {
	repo   accountdomain.Repository
	tokens TokenSigner
	notify Notifier
	audit  Auditor
}

func NewSignupClient(
	repo accountdomain.Repository,
	tokens TokenSigner,
	notifier Notifier,
	auditor Auditor,
) *SignupClient {
	return &SignupClient{repo: repo, tokens: tokens, notify: notifier, audit: auditor}
}

func (uc *SignupClient) Execute(ctx context.Context, in SignupInput) (*Session, error) {
	if len(in.Password) < minClientPassword {
		return nil, httperr.ErrValidation(httperr.FieldError{
			Field:   "password",
			Rule:    "min",
			Message: fmt.Sprintf("password must be at least %d characters", minClientPassword),
		})
	}

	business, err := businessBySlug(ctx, uc.repo, in.BusinessSlug)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	client := &models.User{
		BusinessID:   business.ID,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := uc.repo.CreateUser(ctx, client); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, httperr.ErrBusinessf(httperr.CodeConflict, "phone already registered")
		}
		return nil, fmt.Errorf("create client: %w", err)
	}

	token, err := uc.tokens.Issue(auth.Identity{UserID: client.ID, BusinessID: business.ID, Role: client.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: business.ID,
		UserID:     uintPtr(client.ID),
		Action:     "client_signup",
		Entity:     "user",
		EntityID:   uintPtr(client.ID),
	})

	uc.notify.Notify(ctx, notify.Message{
		BusinessID: business.ID,
		Type:       notify.EventUserSignup,
		Title:      "New client",
		Body:       fmt.Sprintf("%s signed up", client.Name),
		Data: map[string]any{
			"client_id": client.ID,
			"name":      client.Name,
		},
	})

	return &Session{User: client, Business: business, Token: token}, nil
}

// ======================================================
// CLIENT LOGIN
// ======================================================

// ClientLogin authenticates a client by business, phone and password.
// Clients without a stored password cannot log in.
type ClientLogin struct {
	repo   accountdomain.Repository
	tokens TokenSigner
}

func NewClientLogin(repo accountdomain.Repository, tokens TokenSigner) *ClientLogin {
	return &ClientLogin{repo: repo, tokens: tokens}
}

func (uc *ClientLogin) Execute(ctx context.Context, slug, phone, password string) (*Session, error) {
	business, err := businessBySlug(ctx, uc.repo, slug)
	if err != nil {
		return nil, err
	}

	client, err := uc.repo.FindClientByPhone(ctx, business.ID, strings.TrimSpace(phone))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusinessf(httperr.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}

	if client.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password)) != nil {
		return nil, httperr.ErrBusinessf(httperr.CodeUnauthorized, "invalid credentials")
	}

	token, err := uc.tokens.Issue(auth.Identity{UserID: client.ID, BusinessID: business.ID, Role: client.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: client, Business: business, Token: token}, nil
}

func businessBySlug(ctx context.Context, repo accountdomain.Repository, slug string) (*models.Business, error) {
	business, err := repo.GetBusinessBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load business: %w", err)
	}
	return business, nil
}
