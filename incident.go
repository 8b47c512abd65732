package pagerduty

import "strings"

// incidentKeySeparator joins the stream and condition identifiers.
const incidentKeySeparator = "-"

var streamIDEscaper = strings.NewReplacer("%", "%25", incidentKeySeparator, "%2D")

// incidentKey derives the deduplication key for a stream and condition.
// The stream identifier is escaped so the first bare separator always marks
// where it ends; two different pairs can therefore never share a key.
func incidentKey(prefix, streamID, conditionID string) string {
	return prefix + streamIDEscaper.Replace(streamID) + incidentKeySeparator + conditionID
}
