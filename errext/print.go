package errext

import "github.com/sirupsen/logrus"

// Fprint logs err at error level through logger, using Format to recover
// the right message text and sidecar fields. It is a no-op for a nil err.
func Fprint(logger logrus.FieldLogger, err error) {
	if err == nil {
		return
	}
	text, fields := Format(err)
	logger.WithFields(fields).Error(text)
}
