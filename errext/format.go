package errext

import "errors"

// Format reduces err to the text that should be logged (preferring an
// Exception's StackTrace() over its plain message) and a set of structured
// fields to attach alongside it (currently just "hint", when present).
func Format(err error) (string, map[string]interface{}) {
	if err == nil {
		return "", nil
	}

	text := err.Error()
	var exc Exception
	if errors.As(err, &exc) {
		text = exc.StackTrace()
	}

	fields := map[string]interface{}{}
	var hinted HasHint
	if errors.As(err, &hinted) {
		fields["hint"] = hinted.Hint()
	}
	if len(fields) == 0 {
		fields = nil
	}
	return text, fields
}
