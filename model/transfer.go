package model

import (
	"time"

	"github.com/google/uuid"
)

// PendingTransfer is a custody move of a loaned record awaiting
// acceptance by the destination service. Like Request it is terminal.
type PendingTransfer struct {
	ID               uuid.UUID `json:"id"`
	RecordID         uuid.UUID `json:"record_id"`
	HCNumber         string    `json:"hc_number"`
	FromService      string    `json:"from_service"`
	ToService        string    `json:"to_service"`
	RequesterName    string    `json:"requester_name"`
	RequestTimestamp time.Time `json:"request_timestamp"`
}
