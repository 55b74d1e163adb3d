package telematics

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-telematics/core"
	"github.com/goliatone/go-telematics/identity"
	"github.com/goliatone/go-telematics/kamereon"
	"github.com/goliatone/go-telematics/locales"
	filestore "github.com/goliatone/go-telematics/store/file"
	"github.com/goliatone/go-telematics/transport"
)

type Config = core.Config

type EndpointConfig = core.EndpointConfig

type Credential = core.Credential

type Keyring = core.Keyring

type Session = core.Session

type Persistence = core.Persistence

type IdentityClient = core.IdentityClient

type Logger = core.Logger

type LoggerProvider = core.LoggerProvider

type MetricsRecorder = core.MetricsRecorder

var (
	PermanentCredential         = core.PermanentCredential
	ExpiringCredentialFromToken = core.ExpiringCredentialFromToken
	NewKeyring                  = core.NewKeyring
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// Option configures the composition root built by New.
type Option func(*clientBuilder)

type clientBuilder struct {
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	httpClient      transport.HTTPDoer
	adapter         transport.Adapter
	persistence     Persistence
	keyring         *Keyring
	identity        IdentityClient
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	localeFetcher   *locales.Fetcher
}

func WithLogger(logger Logger) Option {
	return func(b *clientBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *clientBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *clientBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithHTTPClient(client transport.HTTPDoer) Option {
	return func(b *clientBuilder) {
		b.httpClient = client
	}
}

func WithTransportAdapter(adapter transport.Adapter) Option {
	return func(b *clientBuilder) {
		b.adapter = adapter
	}
}

func WithPersistence(persistence Persistence) Option {
	return func(b *clientBuilder) {
		b.persistence = persistence
	}
}

func WithKeyring(keyring *Keyring) Option {
	return func(b *clientBuilder) {
		b.keyring = keyring
	}
}

func WithIdentityClient(client IdentityClient) Option {
	return func(b *clientBuilder) {
		b.identity = client
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *clientBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(b *clientBuilder) {
		b.optionsResolver = resolver
	}
}

func WithLocaleFetcher(fetcher *locales.Fetcher) Option {
	return func(b *clientBuilder) {
		b.localeFetcher = fetcher
	}
}

// Client wires the identity client, resource client, keyring, and session
// into one entry point. Endpoint roots and API keys missing from the config
// are resolved from the locale table.
type Client struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	adapter         transport.Adapter
	keyring         *Keyring
	session         *Session
	resource        *kamereon.Client
}

func New(cfg Config, opts ...Option) (*Client, error) {
	builder := clientBuilder{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("telematics", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("telematics"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = core.NopMetricsRecorder{}
	}
	if builder.configProvider == nil {
		builder.configProvider = core.NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = core.GoOptionsResolver{}
	}

	defaults := core.DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, err
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, cfg)
	if err != nil {
		return nil, err
	}

	adapter := builder.adapter
	if adapter == nil {
		adapter = transport.NewRESTAdapter(builder.httpClient)
	}

	finalConfig, err = fillEndpoints(context.Background(), finalConfig, adapter, builder.localeFetcher)
	if err != nil {
		return nil, err
	}

	keyring := builder.keyring
	if keyring == nil {
		persistence := builder.persistence
		if persistence == nil {
			path, pathErr := filestore.DefaultPath()
			if pathErr != nil {
				return nil, pathErr
			}
			store, storeErr := filestore.New(path)
			if storeErr != nil {
				return nil, storeErr
			}
			persistence = store
		}
		keyring, err = core.NewKeyring(persistence)
		if err != nil {
			return nil, err
		}
	}

	identityClient := builder.identity
	if identityClient == nil {
		identityClient, err = identity.NewClient(identity.Config{
			URL:    finalConfig.Identity.URL,
			APIKey: finalConfig.Identity.APIKey,
		}, adapter)
		if err != nil {
			return nil, err
		}
	}

	resource, err := kamereon.NewClient(kamereon.Config{
		URL:     finalConfig.Resource.URL,
		APIKey:  finalConfig.Resource.APIKey,
		Country: finalConfig.CountryCode(),
	}, adapter)
	if err != nil {
		return nil, err
	}

	session, err := core.NewSession(keyring, identityClient,
		core.WithSessionLogger(logger),
		core.WithSessionMetricsRecorder(builder.metricsRecorder),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		adapter:         adapter,
		keyring:         keyring,
		session:         session,
		resource:        resource,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg, opts...)
}

// fillEndpoints leaves explicitly configured endpoints untouched and fills
// the gaps from the static locale table, falling back to the published
// per-locale configuration document for unknown locales.
func fillEndpoints(ctx context.Context, cfg Config, adapter transport.Adapter, fetcher *locales.Fetcher) (Config, error) {
	if cfg.Identity.URL != "" && cfg.Identity.APIKey != "" &&
		cfg.Resource.URL != "" && cfg.Resource.APIKey != "" {
		return cfg, nil
	}

	endpoints, err := locales.Resolve(cfg.Locale)
	if err != nil {
		if fetcher == nil {
			fetcher = locales.NewFetcher(adapter)
		}
		endpoints, err = fetcher.Fetch(ctx, cfg.Locale)
		if err != nil {
			return Config{}, err
		}
	}

	if cfg.Identity.URL == "" {
		cfg.Identity.URL = endpoints.IdentityURL
	}
	if cfg.Identity.APIKey == "" {
		cfg.Identity.APIKey = endpoints.IdentityAPIKey
	}
	if cfg.Resource.URL == "" {
		cfg.Resource.URL = endpoints.ResourceURL
	}
	if cfg.Resource.APIKey == "" {
		cfg.Resource.APIKey = endpoints.ResourceAPIKey
	}
	return cfg, nil
}

func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

func (c *Client) Session() *Session {
	if c == nil {
		return nil
	}
	return c.session
}

func (c *Client) Keyring() *Keyring {
	if c == nil {
		return nil
	}
	return c.keyring
}

func (c *Client) Resource() *kamereon.Client {
	if c == nil {
		return nil
	}
	return c.resource
}

func (c *Client) LoggedIn() bool {
	if c == nil {
		return false
	}
	return c.session.LoggedIn()
}

func (c *Client) Login(ctx context.Context, loginID, password string) error {
	if c == nil {
		return core.BadInputError("telematics: client is nil")
	}
	return c.session.Login(ctx, loginID, password)
}

func (c *Client) Logout() error {
	if c == nil {
		return nil
	}
	return c.session.Logout()
}

func (c *Client) Profile() *Profile {
	if c == nil {
		return nil
	}
	return &Profile{session: c.session, resource: c.resource}
}
