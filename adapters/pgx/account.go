package pgx

import (
	"context"
	"fmt"

	"github.com/lborres/flex/core"
)

func (a *Adapter) CreateAccount(ctx context.Context, acc *core.Account) error {
	q := `INSERT INTO public.accounts (user_id, provider_id, account_id, password)
	      VALUES ($1, $2, $3, $4)
	      RETURNING id, created_at, updated_at`

	err := a.pool.QueryRow(ctx, q, acc.UserID, acc.ProviderID, acc.AccountID, acc.Password).
		Scan(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrUserExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (a *Adapter) GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) ([]*core.Account, error) {
	q := `SELECT id, user_id, provider_id, account_id, password, created_at, updated_at
	      FROM public.accounts WHERE user_id = $1 AND provider_id = $2`

	rows, err := a.pool.Query(ctx, q, userID, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*core.Account
	for rows.Next() {
		acc := &core.Account{}
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.ProviderID, &acc.AccountID, &acc.Password, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}
