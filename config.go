package folio

import "time"

// Config holds all configuration for a folio server.
type Config struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description
	Author      string // Owner name

	Addr        string // Listen address (default ":3000")
	Environment string // "production" enables strict bot verification

	ContentDir   string // Content file directory (default "content")
	WatchContent bool   // Invalidate the content cache on file changes

	CMSToken      string        // CMS integration token
	CMSDatabaseID string        // CMS database holding blog posts
	ListCacheTTL  time.Duration // Post listing cache TTL (default 5min)
	PostCacheTTL  time.Duration // Per-slug post cache TTL (default 30min)

	RevalidationSecret string // Shared secret for the revalidation endpoint

	RecaptchaSecret   string  // Bot verification secret; empty disables verification
	RecaptchaMinScore float64 // Minimum assessment score (default 0.5)

	RateLimitDBPath    string        // SQLite counter store; empty uses in-memory limits
	ContactIPLimit     int           // Submissions per IP per window (default 5)
	ContactGlobalLimit int           // Submissions overall per window (default 25)
	ContactLimitWindow time.Duration // Rate limit window (default 24h)

	ContactFromEmail      string // Sender address for notifications
	ContactRecipientEmail string // Recipient address for notifications
	ResendAPIKey          string // Transactional email API key
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.ListCacheTTL == 0 {
		c.ListCacheTTL = 5 * time.Minute
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 30 * time.Minute
	}
	if c.RecaptchaMinScore == 0 {
		c.RecaptchaMinScore = 0.5
	}
	if c.ContactIPLimit == 0 {
		c.ContactIPLimit = 5
	}
	if c.ContactGlobalLimit == 0 {
		c.ContactGlobalLimit = 25
	}
	if c.ContactLimitWindow == 0 {
		c.ContactLimitWindow = 24 * time.Hour
	}
}

// Production reports whether the server runs with production policies.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
