package models

// Notification is the generic payload handed to the notification dispatch
// collaborator. Delivery-channel mechanics (push/email/SMS) live behind that
// collaborator; the core only chooses content and priority.
type Notification struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Priority string            `json:"priority,omitempty"` // "normal" or "high"
}
