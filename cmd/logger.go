package cmd

import (
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
)

// RawFormatter does nothing with the message besides printing it; useful
// for piping into other log-aggregation tools that add their own framing.
type RawFormatter struct{}

// Format renders a single log entry as its bare message.
func (f RawFormatter) Format(entry *log.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

// LogstashJSONFormatter defines a logstash json formatter.
type LogstashJSONFormatter struct{}

// Format returns a formatted logstash message
func (f *LogstashJSONFormatter) Format(entry *log.Entry) ([]byte, error) {
	e := make(map[string]interface{})
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			// Store error string value instead of error.
			e[k] = err.Error()
		} else {
			e[k] = v
		}
	}

	e["@timestamp"] = entry.Time.Format(time.RFC3339)
	e["@version"] = "1"

	v, ok := entry.Data["message"]
	if ok {
		e["fields.message"] = v
	}
	e["message"] = entry.Message

	v, ok = entry.Data["level"]
	if ok {
		e["fields.level"] = v
	}
	e["level_name"] = entry.Level.String()

	serialised, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return append(serialised, '\n'), nil
}
