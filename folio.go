// Package folio is a headless content server for a personal portfolio and
// blog site. It normalizes hand-authored JSON content into stable view
// models, fronts a third-party CMS with a TTL cache for blog posts, and
// runs a spam-resistant contact-form pipeline — all exposed as JSON
// endpoints consumed by a separate rendering layer.
package folio

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/folio/blog"
	"github.com/eringen/folio/contact"
	"github.com/eringen/folio/content"
)

// App is the central folio application. It wires together the content
// resolver, the post cache, the contact pipeline, and the HTTP layer.
type App struct {
	Config   Config
	Echo     *echo.Echo
	Content  *content.Resolver
	Posts    *blog.Cache
	Pipeline *contact.Pipeline

	log          *zap.Logger
	watcher      *content.Watcher
	counters     *contact.CounterStore
	customRoutes []func(*App)
}

// New creates a folio App from the given configuration. Pass a nil logger
// to disable logging.
func New(cfg Config, log *zap.Logger, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		Config:  cfg,
		Echo:    echo.New(),
		Content: content.NewResolver(cfg.ContentDir, log.Named("content")),
		log:     log,
	}

	client := blog.NewClient(cfg.CMSToken, cfg.CMSDatabaseID)
	a.Posts = blog.NewCache(client, cfg.ListCacheTTL, cfg.PostCacheTTL, log.Named("blog"))

	pipeline, err := a.buildPipeline(cfg, log.Named("contact"))
	if err != nil {
		return nil, err
	}
	a.Pipeline = pipeline

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *App) buildPipeline(cfg Config, log *zap.Logger) (*contact.Pipeline, error) {
	p := &contact.Pipeline{
		Production: cfg.Production(),
		Log:        log,
		Mailer: &contact.ResendMailer{
			APIKey: cfg.ResendAPIKey,
			From:   cfg.ContactFromEmail,
			To:     cfg.ContactRecipientEmail,
		},
	}
	if cfg.RecaptchaSecret != "" {
		p.Verifier = &contact.RecaptchaVerifier{
			Secret:   cfg.RecaptchaSecret,
			MinScore: cfg.RecaptchaMinScore,
		}
	}
	if cfg.RateLimitDBPath != "" {
		store, err := contact.OpenCounterStore(cfg.RateLimitDBPath)
		if err != nil {
			return nil, err
		}
		a.counters = store
		p.IPLimiter = &contact.WindowLimiter{
			Store:  store,
			Prefix: "ratelimit:ip",
			Max:    cfg.ContactIPLimit,
			Window: cfg.ContactLimitWindow,
		}
		p.GlobalLimiter = &contact.WindowLimiter{
			Store:  store,
			Prefix: "ratelimit:daily",
			Max:    cfg.ContactGlobalLimit,
			Window: cfg.ContactLimitWindow,
		}
	} else {
		p.IPLimiter = contact.NewMemoryLimiter(cfg.ContactIPLimit, cfg.ContactLimitWindow)
		p.GlobalLimiter = contact.NewMemoryLimiter(cfg.ContactGlobalLimit, cfg.ContactLimitWindow)
	}
	return p, nil
}

// Start sets up middleware and routes, optionally starts the content
// watcher, and serves until the listener fails or the server is shut down.
func (a *App) Start() error {
	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if a.Config.WatchContent {
		w, err := content.NewWatcher(a.Content, a.Config.ContentDir, a.log.Named("watcher"))
		if err != nil {
			return err
		}
		a.watcher = w
	}

	a.log.Info("listening", zap.String("addr", a.Config.Addr))
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.counters != nil {
		a.counters.Close()
	}
	return nil
}
