package models

// MessagePublisher interface for publishing ingested incidents
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}
