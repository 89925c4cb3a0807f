package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client tracks usage events. task.Tracker and focus.Recorder hooks accept it.
type Client interface {
	// Track enqueues an event and returns immediately.
	Track(event string, properties map[string]any)
	// Close flushes queued events.
	Close() error
}

// Properties are event properties.
type Properties = map[string]any

type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient sends events through the PostHog SDK.
type PostHogClient struct {
	client  enqueuer
	config  *Config
	version string

	mu     sync.RWMutex
	closed bool
}

// ClientConfig configures New.
type ClientConfig struct {
	APIKey  string
	Version string
	Config  *Config
	// Endpoint overrides the PostHog host, for self-hosted instances.
	Endpoint string
}

// New returns a PostHog client, or a NoopClient when there is no key, no
// consent file or consent was refused.
func New(cfg ClientConfig) (Client, error) {
	if cfg.APIKey == "" || cfg.Config == nil || !cfg.Config.IsEnabled() {
		return NewNoopClient(), nil
	}

	phConfig := posthog.Config{
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    quietLogger{},
	}
	if cfg.Endpoint != "" {
		phConfig.Endpoint = cfg.Endpoint
	}
	ph, err := posthog.NewWithConfig(cfg.APIKey, phConfig)
	if err != nil {
		return nil, err
	}
	return newPostHogClient(ph, cfg.Config, cfg.Version), nil
}

func newPostHogClient(enq enqueuer, cfg *Config, version string) *PostHogClient {
	return &PostHogClient{client: enq, config: cfg, version: version}
}

// Track implements Client. It is a no-op after Close or once consent is
// withdrawn.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || c.config == nil || !c.config.IsEnabled() {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("app_version", c.version)
	// Anonymous events only; no person profiles.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.config.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes and shuts down the SDK client. Safe to call twice.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// NoopClient drops every event.
type NoopClient struct{}

// NewNoopClient returns a client that does nothing.
func NewNoopClient() *NoopClient { return &NoopClient{} }

func (*NoopClient) Track(string, map[string]any) {}
func (*NoopClient) Close() error                 { return nil }

type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
