package wallet

import (
	"context"
	"database/sql"
	"errors"

	"fitplatform/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

const (
	walletColumns = `id, user_id, balance_cents, currency, created_at, updated_at`
	insertWallet  = `INSERT INTO wallets (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = wallets.updated_at
		RETURNING ` + walletColumns
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if err := r.db.QueryRowxContext(ctx, insertWallet, userID).StructScan(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) AddTransaction(ctx context.Context, userID int, amountCents int64, txType string) (*Transaction, error) {
	var created *Transaction

	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		created, err = Apply(ctx, tx, userID, amountCents, txType)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Apply moves a signed amount through the user's wallet inside tx, locking the
// wallet row and recording the transaction. Callers that must tie a payment to
// other rows run it in their own transaction.
func Apply(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, txType string) (*Transaction, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 FOR UPDATE`, userID,
	).StructScan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowxContext(ctx, insertWallet, userID).StructScan(&w)
	}
	if err != nil {
		return nil, err
	}

	newBalance := w.BalanceCents + amountCents
	if newBalance < 0 {
		return nil, ErrInsufficientBalance
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance_cents = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, w.ID,
	); err != nil {
		return nil, err
	}

	var created Transaction
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, amount_cents, type, balance_after)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, wallet_id, amount_cents, type, balance_after, created_at`,
		w.ID, amountCents, txType, newBalance,
	).StructScan(&created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT t.id, t.wallet_id, t.amount_cents, t.type, t.balance_after, t.created_at
		FROM wallet_transactions t
		JOIN wallets w ON w.id = t.wallet_id
		WHERE w.user_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
