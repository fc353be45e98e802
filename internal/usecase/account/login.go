package account

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	accountdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
)

// Login authenticates staff by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
type Login struct {
	repo   accountdomain.Repository
	tokens TokenSigner
}

func NewLogin(repo accountdomain.Repository, tokens TokenSigner) *Login {
	return &Login{repo: repo, tokens: tokens}
}

func (uc *Login) Execute(ctx context.Context, email, password string) (*Session, error) {
	user, err := uc.repo.FindStaffByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusinessf(httperr.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("find staff: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, httperr.ErrBusinessf(httperr.CodeUnauthorized, "invalid credentials")
	}

	token, err := uc.tokens.Issue(auth.Identity{UserID: user.ID, BusinessID: user.BusinessID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	business := user.Business
	return &Session{User: user, Business: &business, Token: token}, nil
}
