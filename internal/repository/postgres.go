package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/deppfellow/bank-service/internal/model"
	"github.com/deppfellow/bank-service/internal/sqlerr"
)

var _ BankDataSource = (*PostgresBankDataSource)(nil)

// PostgresBankDataSource stores banks in the "banks" table.
type PostgresBankDataSource struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewPostgresBankDataSource(pool *pgxpool.Pool, baseLogger *zerolog.Logger) *PostgresBankDataSource {
	return &PostgresBankDataSource{
		pool: pool,
		log:  baseLogger.With().Str("component", "postgres_bank_source").Logger(),
	}
}

func (p *PostgresBankDataSource) RetrieveBanks(ctx context.Context) ([]model.Bank, error) {
	query := `
		SELECT account_number, trust, transaction_fee
		FROM banks
		ORDER BY created_at, account_number
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.log.Error().Err(err).Msg("Failed to query banks")
		return nil, fmt.Errorf("query banks: %w", err)
	}

	banks, err := pgx.CollectRows(rows, scanBank)
	if err != nil {
		p.log.Error().Err(err).Msg("Failed to scan bank rows")
		return nil, fmt.Errorf("scan banks: %w", err)
	}

	if banks == nil {
		banks = []model.Bank{}
	}
	return banks, nil
}

func (p *PostgresBankDataSource) RetrieveBank(ctx context.Context, accountNumber string) (*model.Bank, error) {
	query := `
		SELECT account_number, trust, transaction_fee
		FROM banks
		WHERE account_number = $1
	`

	rows, err := p.pool.Query(ctx, query, accountNumber)
	if err != nil {
		p.log.Error().Err(err).Str("account_number", accountNumber).Msg("Failed to query bank")
		return nil, fmt.Errorf("query bank: %w", err)
	}

	bank, err := pgx.CollectExactlyOneRow(rows, scanBank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBankNotFound(accountNumber)
		}
		p.log.Error().Err(err).Str("account_number", accountNumber).Msg("Failed to scan bank row")
		return nil, fmt.Errorf("scan bank: %w", err)
	}

	return &bank, nil
}

func (p *PostgresBankDataSource) CreateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	query := `
		INSERT INTO banks (account_number, trust, transaction_fee)
		VALUES ($1, $2, $3)
		RETURNING account_number, trust, transaction_fee
	`

	rows, err := p.pool.Query(ctx, query, bank.AccountNumber, bank.Trust, bank.TransactionFee)
	if err != nil {
		return nil, fmt.Errorf("insert bank: %w", err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, scanBank)
	if err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, ErrBankAlreadyExists(bank.AccountNumber)
		}
		p.log.Error().Err(err).Str("account_number", bank.AccountNumber).Msg("Failed to insert bank")
		return nil, fmt.Errorf("insert bank: %w", err)
	}

	p.log.Info().Str("account_number", created.AccountNumber).Msg("Bank created")
	return &created, nil
}

func (p *PostgresBankDataSource) UpdateBank(ctx context.Context, bank model.Bank) (*model.Bank, error) {
	query := `
		UPDATE banks
		SET trust = $2, transaction_fee = $3, updated_at = NOW()
		WHERE account_number = $1
		RETURNING account_number, trust, transaction_fee
	`

	rows, err := p.pool.Query(ctx, query, bank.AccountNumber, bank.Trust, bank.TransactionFee)
	if err != nil {
		return nil, fmt.Errorf("update bank: %w", err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, scanBank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBankNotFound(bank.AccountNumber)
		}
		p.log.Error().Err(err).Str("account_number", bank.AccountNumber).Msg("Failed to update bank")
		return nil, fmt.Errorf("update bank: %w", err)
	}

	return &updated, nil
}

func (p *PostgresBankDataSource) DeleteBank(ctx context.Context, accountNumber string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM banks WHERE account_number = $1`, accountNumber)
	if err != nil {
		p.log.Error().Err(err).Str("account_number", accountNumber).Msg("Failed to delete bank")
		return fmt.Errorf("delete bank: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrBankNotFound(accountNumber)
	}

	p.log.Info().Str("account_number", accountNumber).Msg("Bank deleted")
	return nil
}

func scanBank(row pgx.CollectableRow) (model.Bank, error) {
	var bank model.Bank
	err := row.Scan(&bank.AccountNumber, &bank.Trust, &bank.TransactionFee)
	return bank, err
}
