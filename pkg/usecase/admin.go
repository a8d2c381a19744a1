package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/salonevoice/salonevoice/pkg/domain/interfaces"
	"github.com/salonevoice/salonevoice/pkg/domain/model"
	"github.com/salonevoice/salonevoice/pkg/domain/model/config"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/salonevoice/salonevoice/pkg/utils/async"
	"github.com/salonevoice/salonevoice/pkg/utils/errutil"
	"github.com/salonevoice/salonevoice/pkg/utils/logging"
)

const minPasswordLength = 8

// AdminUseCase owns admin account provisioning and the authorization gate
type AdminUseCase struct {
	repo        interfaces.Repository
	permissions *config.PermissionTable
	identity    interfaces.IdentityClient
	mailer      interfaces.Mailer
}

// BootstrapState reports whether any admin account exists
type BootstrapState struct {
	Exists bool `json:"exists"`
	Count  int  `json:"count"`
}

// CheckBootstrap returns the current bootstrap state
func (uc *AdminUseCase) CheckBootstrap(ctx context.Context) (*BootstrapState, error) {
	count, err := uc.repo.Admin().Count(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count admin accounts")
	}
	return &BootstrapState{Exists: count > 0, Count: count}, nil
}

// Setup creates the very first admin account with the highest privilege
// role. It fails when any admin already exists.
func (uc *AdminUseCase) Setup(ctx context.Context, email, password string) (*model.AdminAccount, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	count, err := uc.repo.Admin().Count(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count admin accounts")
	}
	if count > 0 {
		return nil, goerr.Wrap(ErrAdminExists, "setup already completed")
	}

	return uc.provision(ctx, email, password, types.RoleSuperAdmin)
}

// Signup creates an admin account through self-service signup. The first
// account gets the highest privilege role; every later one gets the
// lowest. The count-then-decide step has a race window at bootstrap time;
// concurrent first signups are not serialized.
func (uc *AdminUseCase) Signup(ctx context.Context, email, password string) (*model.AdminAccount, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	count, err := uc.repo.Admin().Count(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count admin accounts")
	}

	role := types.RoleAdmin
	if count == 0 {
		role = types.RoleSuperAdmin
	}

	return uc.provision(ctx, email, password, role)
}

// Invite provisions an admin account for an email that does not already
// hold one. The identity account is created with an unset password; the
// invitee sets their own through the provider's recovery flow.
func (uc *AdminUseCase) Invite(ctx context.Context, caller *model.AdminAccount, email string) (*model.AdminAccount, error) {
	if err := uc.authorize(caller, types.PermAdminsInvite); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if existing, err := uc.repo.Admin().GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, goerr.Wrap(ErrEmailTaken, "email already has a role record", goerr.V("email", email))
	}

	// Empty password: the provider account exists but is unset for login
	// until the invitee completes the recovery flow
	account, err := uc.provision(ctx, email, "", types.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if uc.mailer != nil {
		invited := email
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.mailer.SendInvite(ctx, invited)
		})
	}

	return account, nil
}

// provision creates the identity-provider account and the role record.
// When the role-record insert fails after the identity account was
// created, the identity account is deleted best-effort so no role-less
// login is left behind.
func (uc *AdminUseCase) provision(ctx context.Context, email, password string, role types.Role) (*model.AdminAccount, error) {
	if uc.identity == nil {
		return nil, goerr.New("identity provider is not configured")
	}

	user, err := uc.identity.CreateUser(ctx, email, password)
	if err != nil {
		if errors.Is(err, interfaces.ErrEmailRegistered) {
			return nil, goerr.Wrap(ErrEmailTaken, "email already registered", goerr.V("email", email))
		}
		return nil, goerr.Wrap(err, "failed to create identity account", goerr.V("email", email))
	}

	account, err := uc.repo.Admin().Create(ctx, &model.AdminAccount{
		ID:    user.ID,
		Email: email,
		Role:  role,
	})
	if err != nil {
		// Best-effort cleanup; its own failure is logged, not retried
		if cleanupErr := uc.identity.DeleteUser(ctx, user.ID); cleanupErr != nil {
			_ = errutil.Handle(ctx, cleanupErr, "failed to clean up orphaned identity account")
		}
		return nil, goerr.Wrap(err, "failed to create admin record", goerr.V("email", email))
	}

	logging.From(ctx).Info("admin account created",
		"id", account.ID, "email", account.Email, "role", account.Role)
	return account, nil
}

// ChangeRole updates another account's role. Only a caller holding the
// role-change grant (super_admin) may do so, and the target role must be
// one of the recognized values; both are checked before any write.
func (uc *AdminUseCase) ChangeRole(ctx context.Context, caller *model.AdminAccount, targetID string, role types.Role) error {
	if err := uc.authorize(caller, types.PermAdminsSetRole); err != nil {
		return err
	}
	if targetID == "" {
		return goerr.Wrap(ErrInvalidInput, "admin ID is required")
	}
	if !role.IsValid() {
		return goerr.Wrap(ErrInvalidRole, "unrecognized role", goerr.V("role", role))
	}

	if err := uc.repo.Admin().UpdateRole(ctx, targetID, role); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(ErrAdminNotFound, "no such admin account", goerr.V("id", targetID))
		}
		return goerr.Wrap(err, "failed to update admin role", goerr.V("id", targetID))
	}

	logging.From(ctx).Info("admin role changed",
		"id", targetID, "role", role, "by", caller.ID)
	return nil
}

// List returns all admin accounts in creation order
func (uc *AdminUseCase) List(ctx context.Context, caller *model.AdminAccount) ([]*model.AdminAccount, error) {
	if err := uc.authorize(caller, types.PermAdminsRead); err != nil {
		return nil, err
	}

	accounts, err := uc.repo.Admin().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list admin accounts")
	}
	return accounts, nil
}

// Resolve looks up the role record for an authenticated subject. A valid
// session with no matching role record is unauthorized, not an error.
func (uc *AdminUseCase) Resolve(ctx context.Context, sub string) (*model.AdminAccount, error) {
	if sub == "" {
		return nil, goerr.Wrap(ErrUnauthorized, "missing subject")
	}

	account, err := uc.repo.Admin().Get(ctx, sub)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(ErrUnauthorized, "no role record for subject", goerr.V("sub", sub))
		}
		return nil, goerr.Wrap(err, "failed to look up admin account", goerr.V("sub", sub))
	}
	return account, nil
}

// Authorize checks that the caller's role grants the operation
func (uc *AdminUseCase) Authorize(caller *model.AdminAccount, perm types.Permission) error {
	return uc.authorize(caller, perm)
}

// Permissions returns the operations the caller's role grants, so the
// dashboard can hide controls the session cannot use
func (uc *AdminUseCase) Permissions(caller *model.AdminAccount) []types.Permission {
	if caller == nil {
		return nil
	}
	return uc.permissions.Permissions(caller.Role)
}

func (uc *AdminUseCase) authorize(caller *model.AdminAccount, perm types.Permission) error {
	if caller == nil {
		return goerr.Wrap(ErrUnauthorized, "no authenticated caller")
	}
	if !uc.permissions.Allowed(caller.Role, perm) {
		return goerr.Wrap(ErrPermissionDenied, "operation not allowed for role",
			goerr.V("role", caller.Role), goerr.V("permission", perm))
	}
	return nil
}

func validateCredentials(email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(password) < minPasswordLength {
		return goerr.Wrap(ErrWeakPassword, "password too short")
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return goerr.Wrap(ErrInvalidInput, "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return goerr.Wrap(ErrInvalidInput, "malformed email address", goerr.V("email", email))
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, interfaces.ErrNotFound)
}
