package account

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/notify"
)

type TokenSigner interface {
	Issue(id auth.Identity) (string, error)
}

// EmailChecker rejects addresses whose domain cannot receive mail. Nil
// disables the check.
type EmailChecker interface {
	Valid(ctx context.Context, email string) bool
}

type Notifier interface {
	Notify(ctx context.Context, msg notify.Message)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

// passwordCost is a variable so tests can trade strength for speed.
var passwordCost = bcrypt.DefaultCost

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func uintPtr(v uint) *uint {
	return &v
}
