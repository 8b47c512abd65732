package pagerduty

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// Transport delivers an encoded trigger to url. Implementations return a
// *TransportError for anything other than a successful delivery.
type Transport interface {
	Send(ctx context.Context, url string, body []byte) (*Response, error)
}

const (
	defaultTimeout = 10 * time.Second

	// Bound on how much of a reply we are willing to read.
	maxResponseBody = 64 << 10
)

type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client. A nil client gets a default one with a
// ten second timeout.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Send(ctx context.Context, url string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "create request")}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "send request")}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: errors.Wrap(err, "read response")}
	}

	pr := new(Response)
	decodeErr := json.Unmarshal(data, pr)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		te := &TransportError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			te.Message = pr.Message
			te.Errors = pr.Errors
		} else {
			te.Message = string(bytes.TrimSpace(data))
		}
		return nil, te
	}

	// A 2xx is a delivery; the body is informational only.
	if decodeErr != nil {
		return &Response{}, nil
	}
	return pr, nil
}
