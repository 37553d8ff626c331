package collector

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/profilescan/profilescan/internal/model"
)

// emailPattern accepts the common mailbox@domain.tld shape. Full RFC 5322
// validation is deliberately out of scope; addresses that fail this check
// are not worth analyzing.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// disposableDomains are throwaway mail providers. A disposable address
// carries no lasting exposure signal.
var disposableDomains = map[string]bool{
	"10minutemail.com":  true,
	"guerrillamail.com": true,
	"mailinator.com":    true,
	"yopmail.com":       true,
	"tempmail.org":      true,
	"throwawaymail.com": true,
}

// consumerDomains are major consumer mail providers. Any other domain is
// treated as corporate, which raises phishing exposure downstream.
var consumerDomains = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"aol.com":        true,
	"icloud.com":     true,
	"protonmail.com": true,
}

// EmailCollector analyzes an email address without any network access:
// syntax validation, domain extraction, and disposable and corporate
// domain heuristics.
type EmailCollector struct {
	now func() time.Time
}

// EmailOption configures an EmailCollector.
type EmailOption func(*EmailCollector)

// WithEmailClock overrides the time source.
func WithEmailClock(now func() time.Time) EmailOption {
	return func(c *EmailCollector) {
		c.now = now
	}
}

// NewEmail creates an email collector.
func NewEmail(opts ...EmailOption) *EmailCollector {
	c := &EmailCollector{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Platform returns the platform this collector serves.
func (c *EmailCollector) Platform() model.Platform {
	return model.PlatformEmail
}

// Collect analyzes the address. An invalid address is an error, not a
// payload: there is nothing downstream can fuse from it.
func (c *EmailCollector) Collect(_ context.Context, handle string) (*model.PlatformPayload, error) {
	addr := strings.TrimSpace(handle)
	if !emailPattern.MatchString(addr) {
		return nil, fmt.Errorf("invalid email address %q", addr)
	}

	domain := strings.ToLower(addr[strings.LastIndexByte(addr, '@')+1:])

	return &model.PlatformPayload{
		Platform: model.PlatformEmail,
		Extras: map[string]any{
			"data": map[string]any{
				"email":      addr,
				"valid":      true,
				"domain":     domain,
				"disposable": disposableDomains[domain],
				"corporate":  !consumerDomains[domain] && !disposableDomains[domain],
			},
		},
		CollectedAt: c.now(),
	}, nil
}
