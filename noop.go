package pagerduty

import "context"

type NoopTransport struct {
}

func (NoopTransport) Send(context.Context, string, []byte) (*Response, error) {
	return &Response{Status: "success", Message: "discarded"}, nil
}
