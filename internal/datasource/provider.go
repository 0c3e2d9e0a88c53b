package datasource

import (
	"errors"

	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap"
)

// Environment variables read by the provider
const (
	EnvURL         = "SPRING_DATASOURCE_URL"
	EnvURLUser     = "SPRING_DATASOURCE_USERNAME"
	EnvURLPassword = "SPRING_DATASOURCE_PASSWORD"

	EnvHost     = "MYSQL_HOST"
	EnvUser     = "MYSQL_USER"
	EnvPassword = "MYSQL_PASSWORD"
	EnvDatabase = "MYSQL_DATABASE"
)

// Provider resolves a Descriptor from an environment
type Provider struct {
	env      envconfig.Lookuper
	log      *zap.Logger
	strategy Strategy
}

// ProviderOption configures a Provider
type ProviderOption func(*Provider)

// WithStrategy pins the resolution strategy. The default is StrategyAuto.
func WithStrategy(s Strategy) ProviderOption {
	return func(p *Provider) { p.strategy = s }
}

// NewProvider creates a provider reading from env.
// A nil env reads the process environment; a nil log discards output.
func NewProvider(env envconfig.Lookuper, log *zap.Logger, opts ...ProviderOption) *Provider {
	if env == nil {
		env = envconfig.OsLookuper()
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &Provider{env: env, log: log, strategy: StrategyAuto}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve builds the descriptor using the configured strategy
func (p *Provider) Resolve() (Descriptor, error) {
	switch p.strategy {
	case StrategyURL:
		return p.fromURL()
	case StrategyFields:
		return p.fromFields()
	case StrategyAuto, "":
		if v, ok := p.env.Lookup(EnvURL); ok && v != "" {
			return p.fromURL()
		}
		d, err := p.fromFields()
		if err != nil {
			var cfgErr *ConfigurationError
			if errors.As(err, &cfgErr) {
				return Descriptor{}, &ConfigurationError{
					Strategy: StrategyAuto,
					Missing:  append([]string{EnvURL}, cfgErr.Missing...),
					Msg:      "neither a connection URL nor the MySQL environment variables are set",
				}
			}
			return Descriptor{}, err
		}
		return d, nil
	default:
		return Descriptor{}, &ConfigurationError{Strategy: p.strategy, Msg: "unknown strategy"}
	}
}

func (p *Provider) fromURL() (Descriptor, error) {
	url, ok := p.env.Lookup(EnvURL)
	if !ok || url == "" {
		return Descriptor{}, &ConfigurationError{
			Strategy: StrategyURL,
			Missing:  []string{EnvURL},
			Msg:      "missing required connection URL",
		}
	}

	// The URL is logged verbatim, credentials included if the deployment embeds them.
	p.log.Info("jdbc url", zap.String("url", url))

	d := Descriptor{
		URL:      url,
		Driver:   DriverClass,
		Strategy: StrategyURL,
	}
	if v, ok := p.env.Lookup(EnvURLUser); ok {
		d.Username = v
	}
	if v, ok := p.env.Lookup(EnvURLPassword); ok {
		d.Password = v
	}
	return d, nil
}

func (p *Provider) fromFields() (Descriptor, error) {
	values := make(map[string]string, 4)
	var missing []string
	for _, key := range []string{EnvHost, EnvUser, EnvPassword, EnvDatabase} {
		v, ok := p.env.Lookup(key)
		if !ok {
			missing = append(missing, key)
			continue
		}
		values[key] = v
	}
	if len(missing) > 0 {
		return Descriptor{}, &ConfigurationError{
			Strategy: StrategyFields,
			Missing:  missing,
			Msg:      "missing required MySQL environment variables",
		}
	}

	url := ComposeURL(values[EnvHost], values[EnvDatabase])
	p.log.Info("jdbc url", zap.String("url", url))

	return Descriptor{
		Host:     values[EnvHost],
		Port:     DefaultPort,
		Database: values[EnvDatabase],
		Username: values[EnvUser],
		Password: values[EnvPassword],
		URL:      url,
		Driver:   DriverClass,
		Strategy: StrategyFields,
	}, nil
}

// Resolve reads the process environment with the given strategy
func Resolve(strategy Strategy, log *zap.Logger) (Descriptor, error) {
	return NewProvider(nil, log, WithStrategy(strategy)).Resolve()
}
