// Package state holds the application-state aggregate: every collection
// in memory, mirrored slot-by-slot to the snapshot store after each
// mutation. In-memory state is the source of truth for the session;
// persistence is best-effort and never rolls a mutation back.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hcquillabamba/custodia/model"
	"github.com/hcquillabamba/custodia/pkg/metrics"
	"github.com/hcquillabamba/custodia/store"
)

// AdminSeed is the default administrator created when the users slot is
// missing, unreadable, or empty.
type AdminSeed struct {
	Username string
	Password string
}

// State aggregates all collections behind one lock. Workflow operations
// take the write lock for their full duration, so readers only ever
// observe fully applied transitions.
type State struct {
	sync.RWMutex

	Users         []model.User
	Records       []*model.Record
	Details       map[string]model.ClinicalDetails
	Requests      []*model.Request
	Transfers     []*model.PendingTransfer
	Notifications []*model.Notification

	defaultAdmin string

	kv      store.KV
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// DefaultAdmin returns the username of the protected default
// administrator, as configured by the seed. Set once at Load.
func (s *State) DefaultAdmin() string {
	return s.defaultAdmin
}

// Load reads every slot once. A missing or corrupt slot falls back to
// its empty default, except Users which seeds the default admin.
func Load(ctx context.Context, kv store.KV, logger zerolog.Logger, m *metrics.Metrics, seed AdminSeed) *State {
	adminName := seed.Username
	if adminName == "" {
		adminName = model.DefaultAdminUsername
	}
	s := &State{
		Details:      make(map[string]model.ClinicalDetails),
		defaultAdmin: adminName,
		kv:           kv,
		logger:       logger,
		metrics:      m,
	}

	s.loadSlot(ctx, store.SlotUsers, &s.Users)
	s.loadSlot(ctx, store.SlotRecords, &s.Records)
	s.loadSlot(ctx, store.SlotDetails, &s.Details)
	s.loadSlot(ctx, store.SlotRequests, &s.Requests)
	s.loadSlot(ctx, store.SlotTransfers, &s.Transfers)
	s.loadSlot(ctx, store.SlotNotifications, &s.Notifications)

	if s.Details == nil {
		s.Details = make(map[string]model.ClinicalDetails)
	}

	if len(s.Users) == 0 {
		password := seed.Password
		if password == "" {
			password = model.DefaultAdminUsername
		}
		s.Users = []model.User{{Username: adminName, Password: password, Role: model.RoleAdmin}}
		s.SaveUsers(ctx)
	}

	return s
}

func (s *State) loadSlot(ctx context.Context, key string, target interface{}) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("slot", key).Msg("failed to read snapshot slot, using empty default")
		return
	}
	if err := json.Unmarshal(raw, target); err != nil {
		s.logger.Warn().Err(err).Str("slot", key).Msg("corrupt snapshot slot, using empty default")
	}
}

func (s *State) saveSlot(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().Err(err).Str("slot", key).Msg("failed to serialize snapshot slot")
		s.metrics.StoreWriteFailures.WithLabelValues(key).Inc()
		return
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		s.logger.Error().Err(err).Str("slot", key).Msg("failed to write snapshot slot")
		s.metrics.StoreWriteFailures.WithLabelValues(key).Inc()
	}
}

func (s *State) SaveUsers(ctx context.Context)    { s.saveSlot(ctx, store.SlotUsers, s.Users) }
func (s *State) SaveDetails(ctx context.Context)  { s.saveSlot(ctx, store.SlotDetails, s.Details) }
func (s *State) SaveRequests(ctx context.Context) { s.saveSlot(ctx, store.SlotRequests, s.Requests) }
func (s *State) SaveTransfers(ctx context.Context) {
	s.saveSlot(ctx, store.SlotTransfers, s.Transfers)
}
func (s *State) SaveNotifications(ctx context.Context) {
	s.saveSlot(ctx, store.SlotNotifications, s.Notifications)
}

func (s *State) SaveRecords(ctx context.Context) {
	s.saveSlot(ctx, store.SlotRecords, s.Records)
	active := 0
	for _, rec := range s.Records {
		if rec.IsOut() {
			active++
		}
	}
	s.metrics.RecordsActive.Set(float64(active))
}

// UserByUsername looks a user up case-insensitively.
func (s *State) UserByUsername(username string) *model.User {
	for i := range s.Users {
		if strings.EqualFold(s.Users[i].Username, username) {
			return &s.Users[i]
		}
	}
	return nil
}

func (s *State) RecordByID(id uuid.UUID) *model.Record {
	for _, rec := range s.Records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func (s *State) RequestByID(id uuid.UUID) *model.Request {
	for _, req := range s.Requests {
		if req.ID == id {
			return req
		}
	}
	return nil
}

func (s *State) TransferByID(id uuid.UUID) *model.PendingTransfer {
	for _, tr := range s.Transfers {
		if tr.ID == id {
			return tr
		}
	}
	return nil
}

// OutRecordExists reports whether hcNumber currently has a record that
// is loaned out or pending return, ignoring excludeID (the record being
// edited, when applicable).
func (s *State) OutRecordExists(hcNumber string, excludeID uuid.UUID) bool {
	for _, rec := range s.Records {
		if rec.HCNumber == hcNumber && rec.IsOut() && rec.ID != excludeID {
			return true
		}
	}
	return false
}

// RequestedElsewhere reports whether hcNumber already appears in any
// unresolved request.
func (s *State) RequestedElsewhere(hcNumber string) bool {
	for _, req := range s.Requests {
		if req.Contains(hcNumber) {
			return true
		}
	}
	return false
}

// TransferPendingForRecord reports whether the record already has an
// outstanding transfer.
func (s *State) TransferPendingForRecord(recordID uuid.UUID) bool {
	for _, tr := range s.Transfers {
		if tr.RecordID == recordID {
			return true
		}
	}
	return false
}
