package models

// NotificationTypeNewEvent marks a notification about a newly created event.
const NotificationTypeNewEvent = "NEW_EVENT"

// Notification is a server-pushed message announcing a new calendar entry.
// It is never persisted.
type Notification struct {
	Type      string `json:"type"`
	GroupID   string `json:"groupId"`
	BakerName string `json:"bakerName"`
	Date      string `json:"date"`
}
