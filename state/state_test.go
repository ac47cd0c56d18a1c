package state

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcquillabamba/custodia/model"
	"github.com/hcquillabamba/custodia/pkg/logger"
	"github.com/hcquillabamba/custodia/pkg/metrics"
	"github.com/hcquillabamba/custodia/store"
)

func load(t *testing.T, kv store.KV) *State {
	t.Helper()
	return Load(context.Background(), kv, logger.Nop(), metrics.NewNop(),
		AdminSeed{Username: "admin", Password: "admin"})
}

func TestLoadSeedsDefaultAdmin(t *testing.T) {
	kv := store.NewMemory()
	st := load(t, kv)

	require.Len(t, st.Users, 1)
	assert.Equal(t, "admin", st.Users[0].Username)
	assert.Equal(t, model.RoleAdmin, st.Users[0].Role)

	// the seed is persisted immediately
	raw, err := kv.Get(context.Background(), store.SlotUsers)
	require.NoError(t, err)
	var users []model.User
	require.NoError(t, json.Unmarshal(raw, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
}

func TestLoadRecordsSeededAdminName(t *testing.T) {
	st := Load(context.Background(), store.NewMemory(), logger.Nop(), metrics.NewNop(),
		AdminSeed{Username: "jefatura", Password: "pw"})
	assert.Equal(t, "jefatura", st.DefaultAdmin())
	require.Len(t, st.Users, 1)
	assert.Equal(t, "jefatura", st.Users[0].Username)

	// an empty seed falls back to the stock name
	st = Load(context.Background(), store.NewMemory(), logger.Nop(), metrics.NewNop(), AdminSeed{})
	assert.Equal(t, model.DefaultAdminUsername, st.DefaultAdmin())
}

func TestLoadCorruptSlotFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, store.SlotRecords, []byte("{not json")))
	require.NoError(t, kv.Set(ctx, store.SlotUsers, []byte("[]")))

	st := load(t, kv)
	assert.Empty(t, st.Records)
	// empty users slot still seeds the admin
	require.Len(t, st.Users, 1)
}

func TestRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	st := load(t, kv)

	returnDate := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	st.Records = append(st.Records, &model.Record{
		ID:          uuid.New(),
		HCNumber:    "111",
		Status:      model.StatusReturned,
		RequestDate: returnDate.Add(-24 * time.Hour),
		ReturnDate:  &returnDate,
	})
	st.Details["111"] = model.ClinicalDetails{Antecedents: "ninguno", Notes: "ok"}
	st.SaveRecords(ctx)
	st.SaveDetails(ctx)

	reloaded := load(t, kv)
	require.Len(t, reloaded.Records, 1)
	assert.Equal(t, "111", reloaded.Records[0].HCNumber)
	require.NotNil(t, reloaded.Records[0].ReturnDate)
	assert.True(t, reloaded.Records[0].ReturnDate.Equal(returnDate))
	assert.Equal(t, "ok", reloaded.Details["111"].Notes)
}

func TestOutRecordExists(t *testing.T) {
	kv := store.NewMemory()
	st := load(t, kv)

	loaned := &model.Record{ID: uuid.New(), HCNumber: "111", Status: model.StatusLoaned}
	pending := &model.Record{ID: uuid.New(), HCNumber: "222", Status: model.StatusPendingReturn}
	returned := &model.Record{ID: uuid.New(), HCNumber: "333", Status: model.StatusReturned}
	st.Records = append(st.Records, loaned, pending, returned)

	assert.True(t, st.OutRecordExists("111", uuid.Nil))
	assert.True(t, st.OutRecordExists("222", uuid.Nil))
	assert.False(t, st.OutRecordExists("333", uuid.Nil))
	assert.False(t, st.OutRecordExists("111", loaned.ID), "the edited record is ignored")
}

func TestUserByUsernameIsCaseInsensitive(t *testing.T) {
	st := load(t, store.NewMemory())
	require.NotNil(t, st.UserByUsername("ADMIN"))
	assert.Nil(t, st.UserByUsername("nobody"))
}
