package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request is a guest-submitted loan request covering one or more
// clinical history numbers. It is terminal: approval converts it into
// Records, rejection into a Notification; either way it is deleted.
type Request struct {
	ID                 uuid.UUID `json:"id"`
	HCNumbers          []string  `json:"hc_numbers"`
	DestinationService string    `json:"destination_service"`
	RequesterName      string    `json:"requester_name"`
	RequestTimestamp   time.Time `json:"request_timestamp"`
}

// Contains reports whether the request covers the given hcNumber.
func (r *Request) Contains(hcNumber string) bool {
	for _, hc := range r.HCNumbers {
		if hc == hcNumber {
			return true
		}
	}
	return false
}

// HCNumbersLabel joins the requested numbers for display in messages.
func (r *Request) HCNumbersLabel() string {
	return strings.Join(r.HCNumbers, ", ")
}
