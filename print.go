package pagerduty

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// PrintTransport logs triggers instead of delivering them. The service key
// is never written out.
type PrintTransport struct {
	Log *logrus.Entry
}

func (p *PrintTransport) Send(_ context.Context, url string, body []byte) (*Response, error) {
	log := p.Log
	if log == nil {
		log = logrus.WithField("system", "print")
	}

	var t Trigger
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, &TransportError{Message: "undecodable trigger", Err: err}
	}

	log.WithFields(logrus.Fields{
		"url":          url,
		"incident_key": t.IncidentKey,
		"description":  t.Description,
		"client":       t.Client,
		"client_url":   t.ClientURL,
		"details":      t.Details,
	}).Info("trigger")
	return &Response{Status: "success", Message: "printed", IncidentKey: t.IncidentKey}, nil
}
