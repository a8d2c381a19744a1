package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/salonevoice/salonevoice/pkg/domain/model/config"
	"github.com/salonevoice/salonevoice/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Permissions holds the CLI flag for an optional role-grant override file
type Permissions struct {
	path string
}

// permissionsFile is the TOML shape of the override file:
//
//	[roles]
//	admin = ["feedback:read", "messages:read"]
//	moderator = [...]
//	super_admin = [...]
type permissionsFile struct {
	Roles map[string][]string `toml:"roles"`
}

// Flags returns CLI flags for permission table configuration
func (x *Permissions) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "permissions-file",
			Usage:       "TOML file overriding the built-in role permission table",
			Category:    "Authorization",
			Sources:     cli.EnvVars("SALONEVOICE_PERMISSIONS_FILE"),
			Destination: &x.path,
		},
	}
}

// Configure loads the permission table. Without an override file the
// compiled-in defaults are used.
func (x *Permissions) Configure() (*domainConfig.PermissionTable, error) {
	if x.path == "" {
		return domainConfig.DefaultPermissionTable(), nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read permissions file", goerr.V("path", x.path))
	}

	var file permissionsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse permissions file", goerr.V("path", x.path))
	}

	grants := make(map[types.Role][]types.Permission, len(file.Roles))
	for roleName, permNames := range file.Roles {
		role, err := types.ParseRole(roleName)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid role in permissions file", goerr.V("path", x.path))
		}
		perms := make([]types.Permission, 0, len(permNames))
		for _, name := range permNames {
			perms = append(perms, types.Permission(name))
		}
		grants[role] = perms
	}

	table := domainConfig.NewPermissionTable(grants)
	if err := table.Validate(); err != nil {
		return nil, goerr.Wrap(err, "permissions file validation failed", goerr.V("path", x.path))
	}
	return table, nil
}
