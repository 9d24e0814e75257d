// Package permissions holds the static catalogue of permission keys. The
// catalogue is fixed at build time: it is synchronised into storage once at
// startup and treated as read-only for the remainder of the process lifetime.
package permissions

// Definition describes a single permission entry in the catalogue.
type Definition struct {
	Key         string
	DisplayName string
	Category    string
	Description string
}

// Permission keys referenced by route declarations. Every exposed operation
// is gated by exactly one of these.
const (
	UsersRead        = "admin.users.read"
	UsersCreate      = "admin.users.create"
	UsersUpdate      = "admin.users.update"
	UsersAssignRoles = "admin.users.assign_roles"

	RolesRead   = "admin.roles.read"
	RolesCreate = "admin.roles.create"
	RolesUpdate = "admin.roles.update"
	RolesDelete = "admin.roles.delete"
	RolesGrant  = "admin.roles.grant_permissions"

	PermissionsRead = "admin.permissions.read"

	ConfigRead   = "admin.config.read"
	ConfigCreate = "admin.config.create"
	ConfigUpdate = "admin.config.update"
	ConfigDelete = "admin.config.delete"

	FilesRead   = "admin.files.read"
	FilesUpload = "admin.files.upload"
	FilesDelete = "admin.files.delete"
)

const (
	CategoryUserManagement = "User Management"
	CategoryRoleManagement = "Role Management"
	CategoryConfiguration  = "Configuration"
	CategoryFileManagement = "File Management"
)

var catalogue = []Definition{
	{UsersRead, "View Users", CategoryUserManagement, "View user accounts and their assigned roles"},
	{UsersCreate, "Create Users", CategoryUserManagement, "Register new user accounts"},
	{UsersUpdate, "Update Users", CategoryUserManagement, "Edit user profiles and account status"},
	{UsersAssignRoles, "Assign Roles", CategoryUserManagement, "Change the roles assigned to a user"},

	{RolesRead, "View Roles", CategoryRoleManagement, "View roles and their permissions"},
	{RolesCreate, "Create Roles", CategoryRoleManagement, "Create new roles"},
	{RolesUpdate, "Update Roles", CategoryRoleManagement, "Rename roles and edit their descriptions"},
	{RolesDelete, "Delete Roles", CategoryRoleManagement, "Delete roles that are no longer in use"},
	{RolesGrant, "Manage Role Permissions", CategoryRoleManagement, "Grant permissions to or revoke them from roles"},

	{PermissionsRead, "View Permissions", CategoryRoleManagement, "View the permission catalogue"},

	{ConfigRead, "View EFA Configurations", CategoryConfiguration, "View EFA rate configurations"},
	{ConfigCreate, "Create EFA Configurations", CategoryConfiguration, "Create EFA rate configurations"},
	{ConfigUpdate, "Update EFA Configurations", CategoryConfiguration, "Edit or bulk upsert EFA rate configurations"},
	{ConfigDelete, "Delete EFA Configurations", CategoryConfiguration, "Delete EFA rate configurations"},

	{FilesRead, "View Files", CategoryFileManagement, "View uploaded file records"},
	{FilesUpload, "Upload Files", CategoryFileManagement, "Record uploaded file metadata"},
	{FilesDelete, "Delete Files", CategoryFileManagement, "Delete uploaded file records"},
}

// All returns the full catalogue in declaration order. The result is a copy;
// callers cannot mutate the registry.
func All() []Definition {
	out := make([]Definition, len(catalogue))
	copy(out, catalogue)
	return out
}

// Keys returns the catalogue keys in declaration order.
func Keys() []string {
	keys := make([]string, len(catalogue))
	for i, def := range catalogue {
		keys[i] = def.Key
	}
	return keys
}
