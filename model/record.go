package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecordStatus tracks where a clinical history folder is in its loan
// lifecycle.
type RecordStatus string

const (
	StatusLoaned        RecordStatus = "loaned"
	StatusReturned      RecordStatus = "returned"
	StatusPendingReturn RecordStatus = "pending_return"
	StatusTransferred   RecordStatus = "transferred"
)

var statusLabels = map[RecordStatus]string{
	StatusLoaned:        "Prestado",
	StatusReturned:      "Devuelto",
	StatusPendingReturn: "Pendiente de Devolución",
	StatusTransferred:   "Transferido",
}

// Label returns the user-facing Spanish name of the status.
func (s RecordStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Record is one loan cycle of a physical clinical history folder. The
// same hcNumber appears in many Records over time; at most one of them
// may be loaned out (loaned or pending return) at any moment.
type Record struct {
	ID                     uuid.UUID    `json:"id"`
	HCNumber               string       `json:"hc_number"`
	DestinationService     string       `json:"destination_service"`
	Responsible            string       `json:"responsible"`
	ResponsiblePhoneNumber string       `json:"responsible_phone_number"`
	RequestDate            time.Time    `json:"request_date"`
	Status                 RecordStatus `json:"status"`
	ReturnDate             *time.Time   `json:"return_date,omitempty"`
	ReceivingStaffName     string       `json:"receiving_staff_name,omitempty"`
}

// IsOut reports whether the folder is physically outside the archive.
func (r *Record) IsOut() bool {
	return r.Status == StatusLoaned || r.Status == StatusPendingReturn
}

// ParseHCNumbers splits a comma-separated list of clinical history
// numbers, trimming whitespace and dropping empty entries. Duplicates
// are preserved.
func ParseHCNumbers(input string) []string {
	var out []string
	for _, hc := range strings.Split(input, ",") {
		if hc = strings.TrimSpace(hc); hc != "" {
			out = append(out, hc)
		}
	}
	return out
}

// DedupeHCNumbers removes duplicates preserving first-seen order.
func DedupeHCNumbers(hcNumbers []string) []string {
	seen := make(map[string]struct{}, len(hcNumbers))
	var out []string
	for _, hc := range hcNumbers {
		if _, ok := seen[hc]; ok {
			continue
		}
		seen[hc] = struct{}{}
		out = append(out, hc)
	}
	return out
}
