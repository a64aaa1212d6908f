package publishers

import "context"

// Publisher sends transaction events to a downstream sink (HTTP, SQS, SNS, Pub/Sub, Kafka).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt TransactionEvent) error
}

// Closer is implemented by publishers holding connections that must be released.
type Closer interface {
	Close() error
}

// Logger is the structured logging surface publishers report delivery outcomes through.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}
