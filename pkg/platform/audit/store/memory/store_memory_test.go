package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "idverify/pkg/domain"
	audit "idverify/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	alice := id.UserID(uuid.New())
	bob := id.UserID(uuid.New())

	require.NoError(t, store.Append(ctx, audit.Event{UserID: alice, Action: string(audit.EventVerificationCompleted), Subject: "v1"}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: alice, Action: string(audit.EventVerificationViewed), Subject: "v1"}))
	require.NoError(t, store.Append(ctx, audit.Event{UserID: bob, Action: string(audit.EventVerificationAccessDenied), Subject: "v1"}))

	t.Run("list by user keeps append order", func(t *testing.T) {
		events, err := store.ListByUser(ctx, alice)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, string(audit.EventVerificationCompleted), events[0].Action)
		assert.Equal(t, string(audit.EventVerificationViewed), events[1].Action)

		events[0].Subject = "mutated"
		again, err := store.ListByUser(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, "v1", again[0].Subject)
	})

	t.Run("list by action spans users", func(t *testing.T) {
		denied, err := store.ListByAction(ctx, audit.EventVerificationAccessDenied)
		require.NoError(t, err)
		require.Len(t, denied, 1)
		assert.Equal(t, bob, denied[0].UserID)
	})
}
