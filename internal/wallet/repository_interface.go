package wallet

import "context"

type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	// AddTransaction applies a signed amount under a row lock and records it.
	AddTransaction(ctx context.Context, userID int, amountCents int64, txType string) (*Transaction, error)
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}
