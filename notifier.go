package pagerduty

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Notifier turns alert events into PagerDuty triggers for one validated
// Configuration. It holds no mutable state and is safe for concurrent use.
type Notifier struct {
	cfg       Configuration
	transport Transport
	endpoint  string

	log *logrus.Entry
}

type Option func(*Notifier)

func WithEndpoint(url string) Option {
	return func(n *Notifier) { n.endpoint = url }
}

func WithLogger(log *logrus.Entry) Option {
	return func(n *Notifier) { n.log = log }
}

// NewNotifier returns a Notifier for cfg, which must come from
// ParseConfiguration. A nil transport means a default HTTPTransport.
func NewNotifier(cfg Configuration, transport Transport, opts ...Option) *Notifier {
	if transport == nil {
		transport = NewHTTPTransport(nil)
	}
	n := &Notifier{
		cfg:       cfg,
		transport: transport,
		endpoint:  EventsAPI,
		log:       logrus.WithField("system", "notifier"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify sends a trigger for event. Failed deliveries are returned as a
// *TransportError and are not retried.
func (n *Notifier) Notify(ctx context.Context, event AlertEvent) (*Response, error) {
	t := NewTrigger(n.cfg, event)
	log := n.log.WithFields(logrus.Fields{
		"stream.id":    event.Stream.ID,
		"condition.id": event.Result.ConditionID,
		"incident.key": t.IncidentKey,
	})

	body, err := json.Marshal(t)
	if err != nil {
		return nil, &TransportError{Message: "encode trigger", Err: err}
	}

	resp, err := n.transport.Send(ctx, n.endpoint, body)
	if err != nil {
		log.WithField("err", err).Error("failed to trigger incident")
		if KindOf(err) != TransportFailure {
			err = &TransportError{Err: err}
		}
		return nil, err
	}

	log.WithField("pagerduty.incident_key", resp.IncidentKey).Debug("triggered incident")
	return resp, nil
}
