// Package query exposes the derived views: pure recomputations over the
// state aggregate, never cached, so every read reflects the latest
// committed mutation.
package query

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/hcquillabamba/custodia/model"
	"github.com/hcquillabamba/custodia/state"
)

type Views struct {
	state *state.State
}

func NewViews(st *state.State) *Views {
	return &Views{state: st}
}

// RecordFilter narrows the record list. Search matches against the
// hcNumber, service, responsible, and status label, case-insensitively.
type RecordFilter struct {
	Search  string
	Service string
}

// Users returns a snapshot of the user collection.
func (v *Views) Users() []model.User {
	v.state.RLock()
	defer v.state.RUnlock()
	return append([]model.User(nil), v.state.Users...)
}

// Services lists every destination service seen in records, sorted.
func (v *Views) Services() []string {
	v.state.RLock()
	defer v.state.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, rec := range v.state.Records {
		if rec.DestinationService == "" {
			continue
		}
		if _, ok := seen[rec.DestinationService]; ok {
			continue
		}
		seen[rec.DestinationService] = struct{}{}
		out = append(out, rec.DestinationService)
	}
	sort.Strings(out)
	return out
}

// GuestServices lists services assigned to guest accounts, sorted. Used
// as the transfer destination choices.
func (v *Views) GuestServices() []string {
	v.state.RLock()
	defer v.state.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for i := range v.state.Users {
		u := &v.state.Users[i]
		if !u.IsGuest() || u.Service == "" {
			continue
		}
		if _, ok := seen[u.Service]; ok {
			continue
		}
		seen[u.Service] = struct{}{}
		out = append(out, u.Service)
	}
	sort.Strings(out)
	return out
}

// VisibleRequests shows all open requests to admins and the own-service
// ones to guests, newest first.
func (v *Views) VisibleRequests(viewer *model.User) []*model.Request {
	if viewer == nil {
		return nil
	}
	v.state.RLock()
	defer v.state.RUnlock()

	var out []*model.Request
	for _, req := range v.state.Requests {
		if viewer.IsAdmin() ||
			(viewer.IsGuest() && viewer.Service != "" && strings.EqualFold(req.DestinationService, viewer.Service)) {
			copied := *req
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestTimestamp.After(out[j].RequestTimestamp)
	})
	return out
}

// IncomingTransfers lists pending transfers addressed to the guest's
// service, newest first.
func (v *Views) IncomingTransfers(viewer *model.User) []*model.PendingTransfer {
	if viewer == nil || !viewer.IsGuest() || viewer.Service == "" {
		return nil
	}
	v.state.RLock()
	defer v.state.RUnlock()

	var out []*model.PendingTransfer
	for _, tr := range v.state.Transfers {
		if strings.EqualFold(tr.ToService, viewer.Service) {
			copied := *tr
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestTimestamp.After(out[j].RequestTimestamp)
	})
	return out
}

// PendingTransferRecordIDs marks which records currently have an
// outstanding transfer, for flagging in the list.
func (v *Views) PendingTransferRecordIDs() map[uuid.UUID]struct{} {
	v.state.RLock()
	defer v.state.RUnlock()

	out := make(map[uuid.UUID]struct{}, len(v.state.Transfers))
	for _, tr := range v.state.Transfers {
		out[tr.RecordID] = struct{}{}
	}
	return out
}

var statusPriority = map[model.RecordStatus]int{
	model.StatusPendingReturn: 1,
	model.StatusLoaned:        2,
	model.StatusReturned:      3,
	model.StatusTransferred:   4,
}

// FilteredRecords returns the viewer's record list: admins and users
// without a service see everything, guests see only their own service.
// Pending returns sort first, then loans, then history, each newest
// first.
func (v *Views) FilteredRecords(viewer *model.User, filter RecordFilter) []*model.Record {
	if viewer == nil {
		return nil
	}
	v.state.RLock()
	defer v.state.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	restrictService := !viewer.IsAdmin() && viewer.Service != ""

	var out []*model.Record
	for _, rec := range v.state.Records {
		if restrictService && !strings.EqualFold(rec.DestinationService, viewer.Service) {
			continue
		}
		if filter.Service != "" && rec.DestinationService != filter.Service {
			continue
		}
		if search != "" && !matchesSearch(rec, search) {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priorityOf(out[i].Status), priorityOf(out[j].Status)
		if pi != pj {
			return pi < pj
		}
		return out[i].RequestDate.After(out[j].RequestDate)
	})
	return out
}

func priorityOf(status model.RecordStatus) int {
	if p, ok := statusPriority[status]; ok {
		return p
	}
	return 99
}

func matchesSearch(rec *model.Record, search string) bool {
	return strings.Contains(strings.ToLower(rec.HCNumber), search) ||
		strings.Contains(strings.ToLower(rec.DestinationService), search) ||
		strings.Contains(strings.ToLower(rec.Responsible), search) ||
		strings.Contains(strings.ToLower(rec.Status.Label()), search)
}

// HistoryMovements lists every loan cycle of an hcNumber, for the
// detail view.
func (v *Views) HistoryMovements(hcNumber string) []*model.Record {
	v.state.RLock()
	defer v.state.RUnlock()

	var out []*model.Record
	for _, rec := range v.state.Records {
		if rec.HCNumber == hcNumber {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out
}

// ClinicalDetails returns the stored background for an hcNumber.
func (v *Views) ClinicalDetails(hcNumber string) (model.ClinicalDetails, bool) {
	v.state.RLock()
	defer v.state.RUnlock()
	details, ok := v.state.Details[hcNumber]
	return details, ok
}

// UserNotifications returns the viewer's notifications without marking
// them read.
func (v *Views) UserNotifications(viewer *model.User) []*model.Notification {
	if viewer == nil {
		return nil
	}
	v.state.RLock()
	defer v.state.RUnlock()

	var out []*model.Notification
	for _, n := range v.state.Notifications {
		if n.UserID == viewer.Username {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out
}

// UnreadCount is the badge number next to the bell.
func (v *Views) UnreadCount(viewer *model.User) int {
	if viewer == nil {
		return 0
	}
	v.state.RLock()
	defer v.state.RUnlock()

	count := 0
	for _, n := range v.state.Notifications {
		if n.UserID == viewer.Username && !n.IsRead {
			count++
		}
	}
	return count
}
