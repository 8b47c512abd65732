package pagerduty

import (
	"context"

	"github.com/pkg/errors"
)

// AlarmCallback is what the host platform needs from an alert callback
// plugin.
type AlarmCallback interface {
	// Initialize hands the callback its configuration. It is called once,
	// before any other method.
	Initialize(raw RawConfiguration) error
	// Handle forwards a fired alert.
	Handle(ctx context.Context, event AlertEvent) error
	// RequestedConfiguration describes the options the callback accepts.
	RequestedConfiguration() ConfigurationRequest
	// Attributes is the configuration as it may be displayed or audited.
	Attributes() map[string]any
	// CheckConfiguration reports the first problem with the configuration.
	CheckConfiguration() error
	Name() string
}

const callbackName = "PagerDuty alarm callback"

// Callback is the PagerDuty AlarmCallback.
type Callback struct {
	raw      RawConfiguration
	notifier *Notifier

	transport Transport
	opts      []Option
}

var _ AlarmCallback = (*Callback)(nil)

// NewCallback returns an uninitialised Callback that will deliver through
// transport once Initialize succeeds.
func NewCallback(transport Transport, opts ...Option) *Callback {
	return &Callback{
		transport: transport,
		opts:      opts,
	}
}

func (c *Callback) Name() string { return callbackName }

// Initialize keeps a private copy of raw. An invalid configuration is still
// kept, so it can be displayed and checked, but Handle will refuse to send.
func (c *Callback) Initialize(raw RawConfiguration) error {
	c.raw = make(RawConfiguration, len(raw))
	for k, v := range raw {
		c.raw[k] = v
	}

	cfg, err := ParseConfiguration(c.raw)
	if err != nil {
		c.notifier = nil
		return err
	}
	c.notifier = NewNotifier(cfg, c.transport, c.opts...)
	return nil
}

func (c *Callback) CheckConfiguration() error {
	return Validate(c.raw)
}

// Handle sends event to PagerDuty. Configuration problems are reported
// before any network activity.
func (c *Callback) Handle(ctx context.Context, event AlertEvent) error {
	if c.notifier == nil {
		if err := c.CheckConfiguration(); err != nil {
			return errors.Wrap(err, "refusing to notify")
		}
		return errors.New("refusing to notify: callback is not initialized")
	}
	_, err := c.notifier.Notify(ctx, event)
	return err
}

func (c *Callback) Attributes() map[string]any {
	return Redact(c.raw)
}
