package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationRejection NotificationType = "rejection"
	NotificationApproval  NotificationType = "approval"
)

// Notification is created only as a side effect of workflow resolutions
// (approval, rejection, return request, transfer resolution). It is
// never deleted in scope, except indirectly by user-deletion cascade.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    string           `json:"user_id"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	IsRead    bool             `json:"is_read"`
	Type      NotificationType `json:"type"`
}
