package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "idverify/pkg/domain"
	audit "idverify/pkg/platform/audit"
	"idverify/pkg/platform/audit/store/memory"
)

type failingStore struct{ calls int }

func (s *failingStore) Append(context.Context, audit.Event) error {
	s.calls++
	return errors.New("disk full")
}

func (s *failingStore) ListByUser(context.Context, id.UserID) ([]audit.Event, error) {
	return nil, nil
}

func TestRunDrainsUntilClosed(t *testing.T) {
	store := memory.NewInMemoryStore()
	inbox := make(chan audit.Event, 3)
	userID := id.UserID(uuid.New())
	for range 3 {
		inbox <- audit.Event{UserID: userID, Action: string(audit.EventVerificationCompleted)}
	}
	close(inbox)

	NewWorker(store, inbox, nil).Run(context.Background())

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestRunContinuesPastStoreErrors(t *testing.T) {
	store := &failingStore{}
	inbox := make(chan audit.Event, 2)
	inbox <- audit.Event{Action: "a"}
	inbox <- audit.Event{Action: "b"}
	close(inbox)

	NewWorker(store, inbox, nil).Run(context.Background())

	assert.Equal(t, 2, store.calls)
}
