package admin

import "context"

type Repository interface {
	// FindByUsername returns the admin with the given username or
	// ErrAdminNotFound.
	FindByUsername(ctx context.Context, username string) (Admin, error)

	// Create inserts a new admin account.
	Create(ctx context.Context, adm Admin) (Admin, error)
}
