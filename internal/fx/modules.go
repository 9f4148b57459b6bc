package fx

import (
	"context"

	"github.com/amityadav/newsdigest/internal/composio"
	"github.com/amityadav/newsdigest/internal/config"
	"github.com/amityadav/newsdigest/internal/core"
	"github.com/amityadav/newsdigest/internal/gmail"
	"github.com/amityadav/newsdigest/internal/gnews"
	"github.com/amityadav/newsdigest/internal/mail"
	"github.com/amityadav/newsdigest/internal/render"
	"github.com/amityadav/newsdigest/internal/search"
	"github.com/amityadav/newsdigest/internal/serpapi"
	"github.com/amityadav/newsdigest/internal/tavily"
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration and applies log settings
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
	fx.Invoke(ConfigureLogging),
)

// SearchModule provides the session opener and the search provider for the
// configured backend
var SearchModule = fx.Module("search",
	fx.Provide(
		NewComposioClient,
		NewSessionOpener,
		NewSearchProvider,
	),
)

// MailModule provides the draft-then-send mail provider
var MailModule = fx.Module("mail",
	fx.Provide(NewMailProvider),
)

// RenderModule provides the HTML digest renderer
var RenderModule = fx.Module("render",
	fx.Provide(NewRenderer),
)

// CoreModule provides the digest pipeline
var CoreModule = fx.Module("core",
	fx.Provide(NewDigestCore),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// ConfigureLogging sets the logrus level and formatter
func ConfigureLogging(cfg config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// NewComposioClient creates the Composio client (nil unless the composio
// backend is selected)
func NewComposioClient(cfg config.Config) *composio.Client {
	if cfg.Backend != config.BackendComposio {
		return nil
	}

	client := composio.NewClient(composio.Options{
		APIKey:        cfg.ComposioAPIKey,
		BaseURL:       cfg.ComposioBaseURL,
		Recipient:     cfg.TargetEmail,
		WindowHours:   cfg.RecencyWindowHours,
		Timeout:       cfg.HTTPTimeout(),
		SearchTimeout: cfg.SearchTimeout(),
	})
	log.Infof("[FX] ComposioClient initialized (%s)", cfg.ComposioBaseURL)
	return client
}

// NewSessionOpener returns the Composio session opener, or local sessions for
// the direct backend
func NewSessionOpener(cfg config.Config, cc *composio.Client) search.SessionOpener {
	if cc != nil {
		log.Info("[FX] SessionOpener initialized (Composio)")
		return cc
	}
	log.Info("[FX] SessionOpener initialized (local)")
	return search.LocalSessions{}
}

// NewSearchProvider returns the search provider for the configured backend
func NewSearchProvider(cfg config.Config, cc *composio.Client) search.Provider {
	if cc != nil {
		log.Info("[FX] SearchProvider initialized (Composio)")
		return cc
	}
	return NewSearchRegistry(cfg)
}

// NewSearchRegistry creates search registry with all available direct providers
func NewSearchRegistry(cfg config.Config) *search.Registry {
	registry := search.NewRegistry()
	registry.SetTimeout(cfg.SearchTimeout())

	if cfg.SerpAPIKey != "" {
		registry.Register(serpapi.NewClient(cfg.SerpAPIKey))
		log.Info("[FX] SearchRegistry: SerpApi registered")
	}

	if cfg.GoogleNewsRSS {
		registry.Register(gnews.NewClient(cfg.HTTPTimeout()))
		log.Info("[FX] SearchRegistry: Google News RSS registered")
	}

	if cfg.TavilyAPIKey != "" {
		registry.Register(tavily.NewClient(cfg.TavilyAPIKey, cfg.HTTPTimeout()))
		log.Info("[FX] SearchRegistry: Tavily registered")
	}

	log.Infof("[FX] SearchRegistry initialized with %d providers", registry.Count())
	return registry
}

// NewMailProvider returns the Composio Gmail tools or the Gmail API sender
func NewMailProvider(cfg config.Config, cc *composio.Client) (mail.Provider, error) {
	if cc != nil {
		log.Info("[FX] MailProvider initialized (Composio Gmail tools)")
		return cc, nil
	}

	sender, err := gmail.NewSender(context.Background(), cfg.GmailCredentialsFile, cfg.GmailTokenFile, cfg.GmailUser)
	if err != nil {
		return nil, err
	}
	log.Info("[FX] MailProvider initialized (Gmail API)")
	return sender, nil
}

// NewRenderer creates the digest renderer
func NewRenderer(cfg config.Config) (*render.Renderer, error) {
	r, err := render.NewRenderer(cfg.Topic, cfg.RecencyWindowHours)
	if err != nil {
		return nil, err
	}
	log.Info("[FX] Renderer initialized")
	return r, nil
}

// DigestCoreParams groups dependencies for DigestCore
type DigestCoreParams struct {
	fx.In
	Config   config.Config
	Sessions search.SessionOpener
	Searcher search.Provider
	Mailer   mail.Provider
	Renderer *render.Renderer
}

// NewDigestCore creates the digest pipeline
func NewDigestCore(p DigestCoreParams) *core.DigestCore {
	c := core.NewDigestCore(core.DigestConfig{
		Topic:       p.Config.Topic,
		Recipient:   p.Config.TargetEmail,
		WindowHours: p.Config.RecencyWindowHours,
		Request: search.Request{
			Topic:      p.Config.Topic,
			NewsQuery:  p.Config.NewsQuery,
			WebQuery:   p.Config.WebQuery,
			Depth:      p.Config.SearchDepth,
			MaxResults: p.Config.SearchMaxResults,
		},
	}, p.Sessions, p.Searcher, p.Mailer, p.Renderer)
	log.Info("[FX] DigestCore initialized")
	return c
}
