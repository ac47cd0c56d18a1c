package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcquillabamba/custodia/model"
)

func TestSessionLifecycle(t *testing.T) {
	store := New(0)
	assert.Nil(t, store.Current())

	store.Set(&model.User{Username: "ana", Role: model.RoleGuest, Service: "Pediatría"})
	current := store.Current()
	require.NotNil(t, current)
	assert.Equal(t, "ana", current.Username)

	// the stored user is isolated from later caller mutation
	current.Username = "other"
	assert.Equal(t, "ana", store.Current().Username)

	store.Clear()
	assert.Nil(t, store.Current())
}

func TestSessionExpires(t *testing.T) {
	store := New(10 * time.Millisecond)
	store.Set(&model.User{Username: "ana"})
	require.NotNil(t, store.Current())

	time.Sleep(30 * time.Millisecond)
	assert.Nil(t, store.Current())
}
