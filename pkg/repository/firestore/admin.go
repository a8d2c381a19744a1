package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type adminRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAdminRepository(client *firestore.Client) *adminRepository {
	return &adminRepository{client: client}
}

func (r *adminRepository) collection() string {
	return prefixed(r.collectionPrefix, "admins")
}

func (r *adminRepository) Create(ctx context.Context, account *model.AdminAccount) (*model.AdminAccount, error) {
	if account.ID == "" {
		return nil, goerr.New("admin account ID is required")
	}

	created := *account
	created.CreatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.collection()).Doc(created.ID)
	// Create (not Set) so a duplicate identity-provider ID fails instead
	// of silently overwriting the existing role record
	if _, err := docRef.Create(ctx, &created); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.New("admin account already exists", goerr.V("id", created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create admin account", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *adminRepository) Get(ctx context.Context, id string) (*model.AdminAccount, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "admin account not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get admin account", goerr.V("id", id))
	}

	var account model.AdminAccount
	if err := docSnap.DataTo(&account); err != nil {
		return nil, goerr.Wrap(err, "failed to decode admin account", goerr.V("id", id))
	}
	return &account, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error) {
	iter := r.client.Collection(r.collection()).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "admin account not found", goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query admin account", goerr.V("email", email))
	}

	var account model.AdminAccount
	if err := docSnap.DataTo(&account); err != nil {
		return nil, goerr.Wrap(err, "failed to decode admin account", goerr.V("email", email))
	}
	return &account, nil
}

func (r *adminRepository) List(ctx context.Context) ([]*model.AdminAccount, error) {
	iter := r.client.Collection(r.collection()).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var accounts []*model.AdminAccount
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate admin accounts")
		}

		var account model.AdminAccount
		if err := docSnap.DataTo(&account); err != nil {
			return nil, goerr.Wrap(err, "failed to decode admin account")
		}
		accounts = append(accounts, &account)
	}
	return accounts, nil
}

func (r *adminRepository) Count(ctx context.Context) (int, error) {
	// Aggregation count avoids streaming every document just to size the
	// bootstrap decision
	result, err := r.client.Collection(r.collection()).
		NewAggregationQuery().
		WithCount("count").
		Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count admin accounts")
	}

	value, ok := result["count"]
	if !ok {
		return 0, goerr.New("count aggregation missing from result")
	}
	countValue, ok := value.(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("count aggregation has unexpected type", goerr.V("value", value))
	}
	return int(countValue.GetIntegerValue()), nil
}

func (r *adminRepository) UpdateRole(ctx context.Context, id string, role types.Role) error {
	docRef := r.client.Collection(r.collection()).Doc(id)
	if _, err := docRef.Update(ctx, []firestore.Update{
		{Path: "role", Value: role.String()},
	}); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "admin account not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to update admin role", goerr.V("id", id))
	}
	return nil
}

func (r *adminRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(r.collection()).Doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete admin account", goerr.V("id", id))
	}
	return nil
}
