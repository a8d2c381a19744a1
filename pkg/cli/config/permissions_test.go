package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/salonevoice/salonevoice/pkg/cli/config"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
)

func writePermissionsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "permissions.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestPermissionsConfigure(t *testing.T) {
	t.Run("defaults without override file", func(t *testing.T) {
		table, err := config.NewPermissionsForTest("").Configure()
		gt.NoError(t, err)
		gt.Bool(t, table.Allowed(types.RoleSuperAdmin, types.PermAdminsSetRole)).True()
		gt.Bool(t, table.Allowed(types.RoleAdmin, types.PermFeedbackRead)).True()
		gt.Bool(t, table.Allowed(types.RoleAdmin, types.PermFeedbackDelete)).False()
	})

	t.Run("override file replaces grants", func(t *testing.T) {
		path := writePermissionsFile(t, `
[roles]
admin = ["feedback:read"]
moderator = ["feedback:read", "feedback:delete"]
super_admin = ["feedback:read", "feedback:delete", "messages:read", "messages:delete", "admins:read", "admins:invite", "admins:change_role"]
`)
		table, err := config.NewPermissionsForTest(path).Configure()
		gt.NoError(t, err)
		gt.Bool(t, table.Allowed(types.RoleModerator, types.PermFeedbackDelete)).True()
		gt.Bool(t, table.Allowed(types.RoleAdmin, types.PermAdminsInvite)).False()
		gt.Bool(t, table.Allowed(types.RoleModerator, types.PermMessagesRead)).False()
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := config.NewPermissionsForTest(filepath.Join(t.TempDir(), "missing.toml")).Configure()
		gt.Error(t, err)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		path := writePermissionsFile(t, `
[roles]
superuser = ["feedback:read"]
`)
		_, err := config.NewPermissionsForTest(path).Configure()
		gt.Error(t, err)
	})

	t.Run("unknown permission rejected", func(t *testing.T) {
		path := writePermissionsFile(t, `
[roles]
super_admin = ["feedback:read", "admins:change_role", "feedback:publish"]
`)
		_, err := config.NewPermissionsForTest(path).Configure()
		gt.Error(t, err)
	})

	t.Run("table stripping role changes rejected", func(t *testing.T) {
		path := writePermissionsFile(t, `
[roles]
super_admin = ["feedback:read", "messages:read"]
`)
		_, err := config.NewPermissionsForTest(path).Configure()
		gt.Error(t, err)
	})

	t.Run("malformed TOML rejected", func(t *testing.T) {
		path := writePermissionsFile(t, `[roles`)
		_, err := config.NewPermissionsForTest(path).Configure()
		gt.Error(t, err)
	})
}

func TestWhatsAppIsConfigured(t *testing.T) {
	gt.Bool(t, config.NewWhatsAppForTest("secret", "token").IsConfigured()).True()
	gt.Bool(t, config.NewWhatsAppForTest("", "token").IsConfigured()).False()
}
