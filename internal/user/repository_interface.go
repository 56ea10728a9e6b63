package user

import "context"

type Repository interface {
	// Create returns ErrEmailExists when the address is taken, including when a
	// concurrent registration wins the unique index.
	Create(ctx context.Context, name, email, passwordHash, role string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
