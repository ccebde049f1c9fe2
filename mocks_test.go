package accounts_test

import (
	"context"
	"database/sql"
	"sync"

	"github.com/goliatone/go-accounts"
	"github.com/google/uuid"
)

// memUsers is an in-memory Users double. It records every call so tests can
// assert which repository operations an operation did (or did not) reach.
type memUsers struct {
	mu       sync.Mutex
	byID     map[string]*accounts.User
	calls    []string
	failures map[string]error
}

func newMemUsers() *memUsers {
	return &memUsers{
		byID:     map[string]*accounts.User{},
		failures: map[string]error{},
	}
}

// failWith injects a fault for one repository call, e.g. "Create".
func (m *memUsers) failWith(call string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[call] = err
}

func (m *memUsers) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *memUsers) record(call string) error {
	m.calls = append(m.calls, call)
	return m.failures[call]
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*accounts.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetByID"); err != nil {
		return nil, err
	}
	user, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*accounts.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetByEmail"); err != nil {
		return nil, err
	}
	for _, user := range m.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ExistsByEmail"); err != nil {
		return false, err
	}
	for _, user := range m.byID {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Create(ctx context.Context, record *accounts.User) (*accounts.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Create"); err != nil {
		return nil, err
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m.byID[record.ID.String()] = record
	return record, nil
}

func (m *memUsers) DeleteByID(ctx context.Context, id string) (*accounts.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteByID"); err != nil {
		return nil, err
	}
	user, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(m.byID, id)
	return user, nil
}

var _ accounts.Users = (*memUsers)(nil)

// testConfig satisfies accounts.Config for tests.
type testConfig struct {
	key     string
	ttl     int
	lookup  string
	timeout int
}

func newTestConfig() *testConfig {
	return &testConfig{
		key:     "test-signing-key",
		ttl:     72,
		lookup:  "header:x-auth-token",
		timeout: 5,
	}
}

func (c *testConfig) GetSigningKey() string     { return c.key }
func (c *testConfig) GetTokenTTL() int          { return c.ttl }
func (c *testConfig) GetTokenLookup() string    { return c.lookup }
func (c *testConfig) GetRepositoryTimeout() int { return c.timeout }
