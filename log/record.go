package log

import "time"

// Record is a single log event.
//
// Records are values; nothing holds on to one after dispatch. Only the rendered
// line or the serialized [RecordPayload] outlives it.
type Record struct {
	// Time is the capture time in local civil time.
	Time time.Time
	// Origin is a free-text module or source tag.
	Origin  string
	Message string
	Level   Level
}

// NewRecord creates a [Record] stamped with the current local time.
func NewRecord(origin string, level Level, msg string) Record {
	return Record{
		Time:    time.Now(),
		Origin:  origin,
		Level:   level,
		Message: msg,
	}
}

// RecordPayload is the structured form of a [Record] delivered to the UI as the
// payload of [EventName].
type RecordPayload struct {
	Message string `json:"message"`
	Level   Level  `json:"level"`
}

// Payload returns the UI payload for r.
func (r Record) Payload() RecordPayload {
	return RecordPayload{
		Message: r.Message,
		Level:   r.Level,
	}
}
