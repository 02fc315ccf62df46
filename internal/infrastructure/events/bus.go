package events

import (
	"context"
	"errors"
	"strconv"
)

// Header names carried on every broker message.
const (
	HeaderMessageID     = "x-message-id"
	HeaderEventType     = "x-event-type"
	HeaderCorrelationID = "x-correlation-id"
	HeaderRetryCount    = "x-retry-count"
	HeaderError         = "x-error"
)

// Message is a broker neutral envelope. Key is the routing key, subject or
// topic the message is sent to.
type Message struct {
	Key     string
	Body    []byte
	Headers map[string]string
}

// RetryCount reads HeaderRetryCount, treating a missing or bad value as 0.
func (m Message) RetryCount() int {
	n, err := strconv.Atoi(m.Headers[HeaderRetryCount])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// WithRetry returns a copy of m with the retry count incremented.
func (m Message) WithRetry(cause error) Message {
	headers := make(map[string]string, len(m.Headers)+2)
	for k, v := range m.Headers {
		headers[k] = v
	}
	headers[HeaderRetryCount] = strconv.Itoa(m.RetryCount() + 1)
	if cause != nil {
		headers[HeaderError] = cause.Error()
	}
	return Message{Key: m.Key, Body: m.Body, Headers: headers}
}

// Bus publishes messages to the broker.
type Bus interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Handler processes one delivered message.
type Handler func(ctx context.Context, msg Message) error

// Subscriber delivers messages to h until ctx is done.
type Subscriber interface {
	Consume(ctx context.Context, h Handler) error
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as one that redelivery can't fix. Consumers
// dead-letter such messages immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// RetryDecision tells a consumer what to do with a failed message.
type RetryDecision int

const (
	Ack RetryDecision = iota
	Retry
	DeadLetter
)

// Decide maps a handler result to an action. Retriable failures are retried
// until the message has been redelivered maxRetries times.
func Decide(err error, retries, maxRetries int) RetryDecision {
	switch {
	case err == nil:
		return Ack
	case IsPermanent(err):
		return DeadLetter
	case retries >= maxRetries:
		return DeadLetter
	default:
		return Retry
	}
}
