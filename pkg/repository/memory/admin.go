package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
)

type adminRepository struct {
	mu       sync.RWMutex
	accounts map[string]*model.AdminAccount
}

func newAdminRepository() *adminRepository {
	return &adminRepository{
		accounts: make(map[string]*model.AdminAccount),
	}
}

func copyAdmin(a *model.AdminAccount) *model.AdminAccount {
	copied := *a
	return &copied
}

func (r *adminRepository) Create(ctx context.Context, account *model.AdminAccount) (*model.AdminAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == "" {
		return nil, goerr.New("admin account ID is required")
	}
	if _, exists := r.accounts[account.ID]; exists {
		return nil, goerr.New("admin account already exists", goerr.V("id", account.ID))
	}

	created := copyAdmin(account)
	created.CreatedAt = time.Now().UTC()
	r.accounts[created.ID] = created
	return copyAdmin(created), nil
}

func (r *adminRepository) Get(ctx context.Context, id string) (*model.AdminAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "admin account not found", goerr.V("id", id))
	}
	return copyAdmin(account), nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if strings.EqualFold(account.Email, email) {
			return copyAdmin(account), nil
		}
	}
	return nil, goerr.Wrap(ErrNotFound, "admin account not found", goerr.V("email", email))
}

func (r *adminRepository) List(ctx context.Context) ([]*model.AdminAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*model.AdminAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, copyAdmin(a))
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *adminRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.accounts), nil
}

func (r *adminRepository) UpdateRole(ctx context.Context, id string, role types.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return goerr.Wrap(ErrNotFound, "admin account not found", goerr.V("id", id))
	}
	account.Role = role
	return nil
}

func (r *adminRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
	return nil
}
