package model

//
// Logger
//

// Logger is what the connector, the resolvers and the client use to
// report each step of a request. Both log.Log and *log.Entry from
// github.com/apex/log implement it, so callers can attach fields.
type Logger interface {
	Debug(msg string)
	Debugf(format string, v ...interface{})
	Info(msg string)
	Infof(format string, v ...interface{})
	Warn(msg string)
	Warnf(format string, v ...interface{})
}

// DiscardLogger is the logger we use when the caller does not
// configure one.
var DiscardLogger Logger = discardLogger{}

// discardLogger drops every message.
type discardLogger struct{}

func (discardLogger) Debug(string)                  {}
func (discardLogger) Debugf(string, ...interface{}) {}
func (discardLogger) Info(string)                   {}
func (discardLogger) Infof(string, ...interface{})  {}
func (discardLogger) Warn(string)                   {}
func (discardLogger) Warnf(string, ...interface{})  {}

// ValidLoggerOrDefault returns logger or, when it is nil, DiscardLogger.
func ValidLoggerOrDefault(logger Logger) Logger {
	if logger == nil {
		return DiscardLogger
	}
	return logger
}

// ErrorToStringOrOK returns the outcome of a step as we log it: the
// error string (e.g., "read_error: connection_reset") or "ok".
func ErrorToStringOrOK(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}
