package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
)

// Memory is an in-memory identity provider for development and tests
type Memory struct {
	mu    sync.Mutex
	users map[string]*memoryUser

	// FailCreateAfter, when > 0, makes CreateUser fail once that many
	// users exist. Used to exercise cleanup paths in tests.
	FailCreateAfter int
}

type memoryUser struct {
	id       string
	email    string
	password string
}

var _ interfaces.IdentityClient = &Memory{}

// NewMemory creates an in-memory identity provider
func NewMemory() *Memory {
	return &Memory{users: make(map[string]*memoryUser)}
}

func (m *Memory) CreateUser(ctx context.Context, email, password string) (*interfaces.IdentityUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreateAfter > 0 && len(m.users) >= m.FailCreateAfter {
		return nil, goerr.New("identity provider unavailable")
	}

	for _, u := range m.users {
		if strings.EqualFold(u.email, email) {
			return nil, goerr.Wrap(interfaces.ErrEmailRegistered, "provider account exists", goerr.V("email", email))
		}
	}

	user := &memoryUser{
		id:       uuid.NewString(),
		email:    email,
		password: password,
	}
	m.users[user.id] = user
	return &interfaces.IdentityUser{ID: user.id, Email: user.email}, nil
}

func (m *Memory) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)
	return nil
}

func (m *Memory) SignIn(ctx context.Context, email, password string) (*interfaces.IdentityUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.email, email) {
			// An empty stored password means the account was provisioned
			// by invitation and cannot log in yet
			if u.password == "" || u.password != password {
				return nil, goerr.New("invalid credentials", goerr.V("email", email))
			}
			return &interfaces.IdentityUser{ID: u.id, Email: u.email}, nil
		}
	}
	return nil, goerr.New("invalid credentials", goerr.V("email", email))
}

// Has reports whether a provider account exists for the ID
func (m *Memory) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.users[id]
	return ok
}

// Len returns the number of provider accounts
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.users)
}
