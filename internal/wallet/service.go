package wallet

import (
	"context"
	"errors"
	"fmt"

	"fitplatform/internal/metrics"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type Service interface {
	Open(ctx context.Context, userID int) error
	Balance(ctx context.Context, userID int) (*Wallet, error)
	TopUp(ctx context.Context, userID int, amountCents int64) (*Wallet, error)
	Transactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Open makes sure the user has a wallet; called right after sign-up.
func (s *service) Open(ctx context.Context, userID int) error {
	_, err := s.repo.GetOrCreateWallet(ctx, userID)
	return err
}

func (s *service) Balance(ctx context.Context, userID int) (*Wallet, error) {
	return s.repo.GetOrCreateWallet(ctx, userID)
}

func (s *service) TopUp(ctx context.Context, userID int, amountCents int64) (*Wallet, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.repo.AddTransaction(ctx, userID, amountCents, TxTopUp); err != nil {
		return nil, fmt.Errorf("top up: %w", err)
	}
	metrics.RecordWalletTopUp()

	return s.repo.GetOrCreateWallet(ctx, userID)
}

func (s *service) Transactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, limit, offset)
}
