// Package config builds the deployment configuration once at startup.
// A Config never changes after construction and is shared by pointer with
// every stage.
package config

import (
	"io/ioutil"
	"net/url"
	"strings"
	"time"

	"github.com/DeganAI/Autonate/pkg/image"
	"github.com/DeganAI/Autonate/pkg/secrets"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Environment tags the deployment target.
type Environment string

const (
	Staging    Environment = "staging"
	Production Environment = "production"
)

// Names of the variables consulted while loading.
const (
	EnvAPIKey      = "COMPUTE3_API_KEY"
	EnvEndpoint    = "COMPUTE3_ENDPOINT"
	EnvWorkspace   = "COMPUTE3_WORKSPACE"
	EnvEnvironment = "AUTONATE_ENVIRONMENT"
)

const (
	DefaultEndpoint       = "https://launch.comput3.ai"
	DefaultWorkspace      = "autonate-liberation"
	DefaultPlatformDomain = "compute3.ai"
	DefaultOrg            = "autonate"
	DefaultManifestPath   = "./compute3-deploy.yaml"
	DefaultBuildRoot      = "./docker"
	DefaultPollInterval   = 5 * time.Second
	DefaultReadyTimeout   = 5 * time.Minute
)

// Values is the settable form of a Config, as read from the TOML file.
// Durations are Go duration strings ("5s", "5m").
type Values struct {
	Endpoint       string `toml:"endpoint"`
	Workspace      string `toml:"workspace"`
	Environment    string `toml:"environment"`
	PlatformDomain string `toml:"platform_domain"`
	AgentsURL      string `toml:"agents_url"`
	Org            string `toml:"org"`
	ManifestPath   string `toml:"manifest"`
	BuildRoot      string `toml:"build_root"`
	PollInterval   string `toml:"poll_interval"`
	ReadyTimeout   string `toml:"ready_timeout"`

	// APIKey is never read from the file, only from the credential source.
	APIKey string `toml:"-"`
}

// Config holds the platform credential and topology for one run.
type Config struct {
	apiKey         string
	endpoint       string
	workspace      string
	environment    Environment
	platformDomain string
	agentsURL      string
	org            string
	manifestPath   string
	buildRoot      string
	pollInterval   time.Duration
	readyTimeout   time.Duration
}

// Load reads the optional TOML file at path, applies overrides found in
// src, and builds the Config. The API key comes from src only.
func Load(path string, src secrets.Source) (*Config, error) {
	var v Values
	if path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := toml.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}
	if src != nil {
		override := func(dst *string, name string) {
			if s, ok := src.Lookup(name); ok {
				*dst = s
			}
		}
		override(&v.Endpoint, EnvEndpoint)
		override(&v.Workspace, EnvWorkspace)
		override(&v.Environment, EnvEnvironment)
		override(&v.APIKey, EnvAPIKey)
	}
	return New(v)
}

// New validates v, fills defaults and returns the Config. An empty APIKey
// is accepted here; its absence is reported by environment validation.
func New(v Values) (*Config, error) {
	c := &Config{
		apiKey:         v.APIKey,
		endpoint:       strings.TrimRight(orDefault(v.Endpoint, DefaultEndpoint), "/"),
		workspace:      orDefault(v.Workspace, DefaultWorkspace),
		environment:    Environment(orDefault(v.Environment, string(Staging))),
		platformDomain: orDefault(v.PlatformDomain, DefaultPlatformDomain),
		org:            orDefault(v.Org, DefaultOrg),
		manifestPath:   orDefault(v.ManifestPath, DefaultManifestPath),
		buildRoot:      orDefault(v.BuildRoot, DefaultBuildRoot),
		pollInterval:   DefaultPollInterval,
		readyTimeout:   DefaultReadyTimeout,
	}

	switch c.environment {
	case Staging, Production:
	default:
		return nil, errors.Errorf("unknown environment %q, want %q or %q", c.environment, Staging, Production)
	}

	if err := image.ValidateOrg(c.org); err != nil {
		return nil, errors.WithMessage(err, "org")
	}

	if _, err := url.ParseRequestURI(c.endpoint); err != nil {
		return nil, errors.Wrapf(err, "invalid endpoint %q", c.endpoint)
	}

	c.agentsURL = strings.TrimRight(v.AgentsURL, "/")
	if _, err := url.ParseRequestURI(c.AgentsURL()); err != nil {
		return nil, errors.Wrapf(err, "invalid agents url %q", c.AgentsURL())
	}

	var err error
	if c.pollInterval, err = duration(v.PollInterval, DefaultPollInterval); err != nil {
		return nil, errors.WithMessage(err, "poll_interval")
	}
	if c.readyTimeout, err = duration(v.ReadyTimeout, DefaultReadyTimeout); err != nil {
		return nil, errors.WithMessage(err, "ready_timeout")
	}
	return c, nil
}

// With returns a copy of c with the non-empty fields of v applied on top.
// It is used for command line flags that take precedence over the file.
func (c *Config) With(v Values) (*Config, error) {
	merged := c.Values()
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&merged.Endpoint, v.Endpoint},
		{&merged.Workspace, v.Workspace},
		{&merged.Environment, v.Environment},
		{&merged.PlatformDomain, v.PlatformDomain},
		{&merged.AgentsURL, v.AgentsURL},
		{&merged.Org, v.Org},
		{&merged.ManifestPath, v.ManifestPath},
		{&merged.BuildRoot, v.BuildRoot},
		{&merged.PollInterval, v.PollInterval},
		{&merged.ReadyTimeout, v.ReadyTimeout},
		{&merged.APIKey, v.APIKey},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
	return New(merged)
}

// Values returns the settable form of c.
func (c *Config) Values() Values {
	return Values{
		Endpoint:       c.endpoint,
		Workspace:      c.workspace,
		Environment:    string(c.environment),
		PlatformDomain: c.platformDomain,
		AgentsURL:      c.agentsURL,
		Org:            c.org,
		ManifestPath:   c.manifestPath,
		BuildRoot:      c.buildRoot,
		PollInterval:   c.pollInterval.String(),
		ReadyTimeout:   c.readyTimeout.String(),
		APIKey:         c.apiKey,
	}
}

func (c *Config) APIKey() string { return c.apiKey }
func (c *Config) Endpoint() string { return c.endpoint }
func (c *Config) Workspace() string { return c.workspace }
func (c *Config) Environment() Environment { return c.environment }
func (c *Config) PlatformDomain() string { return c.platformDomain }
func (c *Config) Org() string { return c.org }
func (c *Config) ManifestPath() string { return c.manifestPath }
func (c *Config) BuildRoot() string { return c.buildRoot }
func (c *Config) PollInterval() time.Duration { return c.pollInterval }
func (c *Config) ReadyTimeout() time.Duration { return c.readyTimeout }

// Registry is the image registry host of the workspace.
func (c *Config) Registry() string {
	return c.workspace + "." + c.platformDomain
}

// AgentsURL is the base URL of the deployed agents' endpoints, the
// workspace registry host unless overridden.
func (c *Config) AgentsURL() string {
	if c.agentsURL != "" {
		return c.agentsURL
	}
	return "https://" + c.Registry()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func duration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}
