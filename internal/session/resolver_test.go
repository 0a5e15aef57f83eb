package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/ports"
)

// memoryRecordStore is an in-memory ports.RecordStore for resolver tests.
type memoryRecordStore struct {
	mu      sync.Mutex
	records map[string]ports.RoleRecord
	getErr  error
	creates int
}

func newMemoryRecordStore() *memoryRecordStore {
	return &memoryRecordStore{records: map[string]ports.RoleRecord{}}
}

func (s *memoryRecordStore) GetRecord(_ context.Context, key string) (ports.RoleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return ports.RoleRecord{}, s.getErr
	}
	rec, ok := s.records[key]
	if !ok {
		return ports.RoleRecord{}, ports.ErrRecordNotFound
	}
	return rec, nil
}

func (s *memoryRecordStore) CreateRecord(_ context.Context, key string, rec ports.RoleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.records[key] = rec
	return nil
}

func TestResolver_ExistingRecord(t *testing.T) {
	store := newMemoryRecordStore()
	store.records["u1"] = ports.RoleRecord{Role: "programmer"}
	r := NewResolver(store, nil)

	assert.Equal(t, domainauth.RoleProgrammer, r.Resolve(context.Background(), "u1"))
}

func TestResolver_PrefixedRoleSpelling(t *testing.T) {
	store := newMemoryRecordStore()
	store.records["u1"] = ports.RoleRecord{Role: "ROLE_ADMIN"}
	r := NewResolver(store, nil)

	assert.Equal(t, domainauth.RoleAdmin, r.Resolve(context.Background(), "u1"))
}

func TestResolver_InvalidRoleFieldDefaultsToUser(t *testing.T) {
	store := newMemoryRecordStore()
	store.records["u1"] = ports.RoleRecord{Role: "wizard"}
	r := NewResolver(store, nil)

	assert.Equal(t, domainauth.RoleUser, r.Resolve(context.Background(), "u1"))
}

func TestResolver_AutoProvisionIsIdempotent(t *testing.T) {
	store := newMemoryRecordStore()
	r := NewResolver(store, nil)
	ctx := context.Background()

	first := r.Resolve(ctx, "new-user")
	second := r.Resolve(ctx, "new-user")

	assert.Equal(t, domainauth.RoleUser, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.creates, "second resolve must reuse the provisioned record")

	rec, err := store.GetRecord(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, string(domainauth.RoleUser), rec.Role)
}

func TestResolver_StoreFailureResolvesToUser(t *testing.T) {
	store := newMemoryRecordStore()
	store.getErr = errors.New("connection refused")
	r := NewResolver(store, nil)

	// A failed lookup must still yield a role so guards are never stranded.
	assert.Equal(t, domainauth.RoleUser, r.Resolve(context.Background(), "u1"))
}

func TestResolver_EmptyKey(t *testing.T) {
	r := NewResolver(newMemoryRecordStore(), nil)
	assert.Equal(t, domainauth.RoleUser, r.Resolve(context.Background(), ""))
}
