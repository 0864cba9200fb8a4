// Package notify fans a new registration out to a pub/sub topic. Every mode is best-effort:
// callers log and count a returned error but never fail the registration on it.
package notify

// Mode selects how a registration is announced. The modes are mutually exclusive.
type Mode string

const (
	// ModePublish publishes the record as a one-shot message for audit consumers.
	ModePublish Mode = "publish"
	// ModeSubscribe subscribes the registrant's email to the announcement topic.
	ModeSubscribe Mode = "subscribe"
	// ModeKafka writes the record to a Kafka topic.
	ModeKafka Mode = "kafka"
)
