package pagerduty

const redactedValue = "****"

// Redact returns a copy of raw that is safe to display: the service key is
// replaced by a fixed mask and every other option is passed through. raw is
// not modified.
func Redact(raw RawConfiguration) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == KeyServiceKey {
			out[k] = redactedValue
			continue
		}
		out[k] = v
	}
	return out
}
