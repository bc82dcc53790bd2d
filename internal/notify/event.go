// Package notify carries request lifecycle facts to subscribers outside the core (mail, chat, Loki).
// Publishing happens after commit and never affects the outcome of the operation that produced it.
package notify

import "time"

// EventType names a request lifecycle fact.
type EventType string

const (
	RequestCreated   EventType = "request.created"
	RequestApproved  EventType = "request.approved"
	RequestRejected  EventType = "request.rejected"
	RequestCancelled EventType = "request.cancelled"
	AddressExpired   EventType = "address.expired"
)

// Event is the JSON payload written to the notification topic.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	RequestID   string    `json:"request_id,omitempty"`
	RequestType string    `json:"request_type,omitempty"`
	Status      string    `json:"status,omitempty"`
	CompanyID   string    `json:"company_id,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	AddressID   string    `json:"address_id,omitempty"`
	IP          string    `json:"ip,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Key is the partition key: events for one request stay ordered.
func (e *Event) Key() []byte {
	if e.RequestID != "" {
		return []byte(e.RequestID)
	}
	return []byte(e.AddressID)
}
