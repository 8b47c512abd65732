package pagerduty

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// EventsAPI is the PagerDuty Events API v1 endpoint.
const EventsAPI = "https://events.pagerduty.com/generic/2010-04-15/create_event.json"

const (
	eventTypeTrigger = "trigger"

	// PagerDuty rejects descriptions longer than this.
	maxDescriptionLength = 1024
)

// Trigger is the Events API v1 request body.
type Trigger struct {
	ServiceKey  string         `json:"service_key"`
	EventType   string         `json:"event_type"`
	Description string         `json:"description"`
	IncidentKey string         `json:"incident_key,omitempty"`
	Client      string         `json:"client,omitempty"`
	ClientURL   string         `json:"client_url,omitempty"`
	Details     TriggerDetails `json:"details"`
}

// TriggerDetails is shown verbatim on the PagerDuty incident.
type TriggerDetails struct {
	StreamID             string `json:"stream_id"`
	StreamTitle          string `json:"stream_title,omitempty"`
	ConditionID          string `json:"condition_id"`
	ConditionTitle       string `json:"condition_title,omitempty"`
	ConditionDescription string `json:"condition_description,omitempty"`
	ResultDescription    string `json:"result_description,omitempty"`
	TriggeredAt          string `json:"triggered_at"`
	MatchedMessages      int    `json:"matched_messages"`
}

// Response is the Events API v1 reply.
type Response struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	IncidentKey string   `json:"incident_key"`
	Errors      []string `json:"errors,omitempty"`
}

// NewTrigger builds the trigger payload for event. It returns a new value on
// every call.
func NewTrigger(cfg Configuration, event AlertEvent) Trigger {
	var key string
	if cfg.UseCustomIncidentKey {
		key = incidentKey(cfg.IncidentKeyPrefix, event.Stream.ID, event.Result.ConditionID)
	}

	r := event.Result
	return Trigger{
		ServiceKey:  cfg.ServiceKey,
		EventType:   eventTypeTrigger,
		Description: describe(event),
		IncidentKey: key,
		Client:      cfg.Client,
		ClientURL:   cfg.ClientURL,
		Details: TriggerDetails{
			StreamID:             event.Stream.ID,
			StreamTitle:          event.Stream.Title,
			ConditionID:          r.ConditionID,
			ConditionTitle:       r.ConditionTitle,
			ConditionDescription: r.ConditionDescription,
			ResultDescription:    r.ResultDescription,
			TriggeredAt:          formatTime(r.TriggeredAt),
			MatchedMessages:      r.MatchedMessages,
		},
	}
}

func describe(event AlertEvent) string {
	stream := event.Stream.Title
	if stream == "" {
		stream = event.Stream.ID
	}
	what := event.Result.ConditionDescription
	if what == "" {
		what = event.Result.ResultDescription
	}
	if what == "" {
		what = "alert condition " + event.Result.ConditionID + " triggered"
	}

	var desc string
	if event.Result.TriggeredAt.IsZero() {
		desc = fmt.Sprintf("[%s] %s (%d matching messages)", stream, what, event.Result.MatchedMessages)
	} else {
		desc = fmt.Sprintf("[%s] %s (triggered at %s, %d matching messages)",
			stream, what, formatTime(event.Result.TriggeredAt), event.Result.MatchedMessages)
	}
	return truncate(desc, maxDescriptionLength)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
