package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups pool-backed repository implementations for read
// paths that do not need a unit of work.
type Repositories struct {
	Users             *UserRepository
	Roles             *RoleRepository
	Permissions       *PermissionRepository
	EfaConfigurations *EfaConfigurationRepository
	Files             *FileRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:             NewUserRepository(pool),
		Roles:             NewRoleRepository(pool),
		Permissions:       NewPermissionRepository(pool),
		EfaConfigurations: NewEfaConfigurationRepository(pool),
		Files:             NewFileRepository(pool),
	}
}
