package repositories

import (
	"context"
	"errors"
	"fmt"

	"formsheet/internal/models"
	"formsheet/internal/tablestore"

	"go.uber.org/zap"
)

// TableUserRepository stores accounts as rows of a TableStore sheet.
type TableUserRepository struct {
	logs  *zap.SugaredLogger
	store tablestore.TableStore
	rng   tablestore.Range
}

// NewTableUserRepository creates a TableUserRepository over the given sheet.
func NewTableUserRepository(logger *zap.SugaredLogger, store tablestore.TableStore, sheet string) *TableUserRepository {
	return &TableUserRepository{
		logs:  logger,
		store: store,
		rng:   tablestore.Columns(sheet, 0, models.AccountColumns-1),
	}
}

// FindByEmail scans the account rows for the email.
func (r *TableUserRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	rows, err := r.store.ReadRange(ctx, r.rng)
	if err != nil {
		r.logs.Errorw("failed to read accounts", "range", r.rng.String(), "error", err)
		return nil, fmt.Errorf("failed to get account by email %s: %w", email, err)
	}

	for _, row := range rows {
		account := models.AccountFromRow(row)
		if account.Email == email {
			return &account, nil
		}
	}
	return nil, fmt.Errorf("account with email %s: %w", email, ErrAccountNotFound)
}

// Create appends the account without checking for an existing email.
func (r *TableUserRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.store.AppendRow(ctx, r.rng, account.ToRow()); err != nil {
		r.logs.Errorw("failed to append account", "range", r.rng.String(), "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// CreateUnique appends the account unless its email is already registered. Stores without
// atomic insert-if-absent fall back to a lookup followed by an append, and two concurrent
// signups may then both pass the lookup.
func (r *TableUserRepository) CreateUnique(ctx context.Context, account *models.Account) error {
	if unique, ok := r.store.(tablestore.UniqueAppender); ok {
		written, err := unique.AppendRowUnique(ctx, r.rng, models.AccountEmailColumn, account.ToRow())
		if err != nil {
			r.logs.Errorw("failed to append account", "range", r.rng.String(), "error", err)
			return fmt.Errorf("failed to create account: %w", err)
		}
		if !written {
			return fmt.Errorf("account with email %s: %w", account.Email, ErrEmailTaken)
		}
		return nil
	}

	_, err := r.FindByEmail(ctx, account.Email)
	switch {
	case err == nil:
		return fmt.Errorf("account with email %s: %w", account.Email, ErrEmailTaken)
	case !errors.Is(err, ErrAccountNotFound):
		return err
	}
	return r.Create(ctx, account)
}
