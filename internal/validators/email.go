package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// EmailDomainChecker accepts an address when its domain publishes an MX
// record or at least resolves to an IP.
type EmailDomainChecker struct {
	resolver *net.Resolver
	timeout  time.Duration
}

func NewEmailDomainChecker(timeout time.Duration) *EmailDomainChecker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &EmailDomainChecker{resolver: net.DefaultResolver, timeout: timeout}
}

func (c *EmailDomainChecker) Valid(ctx context.Context, email string) bool {
	domain, ok := EmailDomain(email)
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if mx, err := c.resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := c.resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}

// EmailDomain returns the part after the last '@'.
func EmailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	return email[at+1:], true
}
