package pagerduty

import "time"

// AlertEvent is a single fired alert condition on a stream, as delivered by
// the host platform.
type AlertEvent struct {
	Stream Stream      `json:"stream"`
	Result CheckResult `json:"check_result"`
}

// Stream identifies the log stream the condition was evaluated against.
type Stream struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CheckResult describes what triggered.
type CheckResult struct {
	ConditionID          string    `json:"condition_id"`
	ConditionTitle       string    `json:"condition_title"`
	ConditionDescription string    `json:"condition_description"`
	TriggeredAt          time.Time `json:"triggered_at"`
	ResultDescription    string    `json:"result_description"`
	MatchedMessages      int       `json:"matched_messages"`
}
