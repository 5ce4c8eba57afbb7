package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonwraymond/fingate/fault"
)

// AccountLookup is the slice of the account client the transaction client
// needs for pre-flight balance checks.
type AccountLookup interface {
	GetAccount(ctx context.Context, accountID string) (*Account, error)
}

// TransactionClient exposes the transaction service's typed operations.
type TransactionClient struct {
	*Client
	accounts AccountLookup
}

// NewTransactionClient creates a client for the transaction service.
// accounts is used to verify available balance before debits; it may be nil,
// which disables the pre-flight check.
func NewTransactionClient(config Config, accounts AccountLookup) (*TransactionClient, error) {
	if config.ServiceName == "" {
		config.ServiceName = "transaction-service"
	}
	c, err := New(config)
	if err != nil {
		return nil, err
	}
	return &TransactionClient{Client: c, accounts: accounts}, nil
}

// Deposit credits an account.
func (c *TransactionClient) Deposit(ctx context.Context, req DepositRequest) (*Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.AccountID == "" {
		return nil, fault.Validation("account_id", "account_id is required")
	}
	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions/deposit", nil, req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Withdraw debits an account. The available balance is checked first via the
// account lookup: a withdrawal exceeding it short-circuits with an
// insufficient-funds fault and the withdraw endpoint is never called.
func (c *TransactionClient) Withdraw(ctx context.Context, req WithdrawRequest) (*Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.AccountID == "" {
		return nil, fault.Validation("account_id", "account_id is required")
	}

	if c.accounts != nil {
		account, err := c.accounts.GetAccount(ctx, req.AccountID)
		if err != nil {
			return nil, err
		}
		if req.Amount > account.AvailableBalance {
			return nil, fault.InsufficientFunds(req.Amount, account.AvailableBalance)
		}
	}

	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions/withdraw", nil, req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Transfer moves funds between two accounts, with the same pre-flight
// balance check as Withdraw against the source account.
func (c *TransactionClient) Transfer(ctx context.Context, req TransferRequest) (*Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.FromAccountID == "" {
		return nil, fault.Validation("from_account_id", "from_account_id is required")
	}
	if req.ToAccountID == "" {
		return nil, fault.Validation("to_account_id", "to_account_id is required")
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fault.Validation("to_account_id", "source and destination accounts must differ")
	}

	if c.accounts != nil {
		account, err := c.accounts.GetAccount(ctx, req.FromAccountID)
		if err != nil {
			return nil, err
		}
		if req.Amount > account.AvailableBalance {
			return nil, fault.InsufficientFunds(req.Amount, account.AvailableBalance)
		}
	}

	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions/transfer", nil, req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Reverse reverses a completed transaction.
func (c *TransactionClient) Reverse(ctx context.Context, transactionID string, req ReverseRequest) (*Transaction, error) {
	if transactionID == "" {
		return nil, fault.Validation("transaction_id", "transaction_id is required")
	}
	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions/"+url.PathEscape(transactionID)+"/reverse", nil, req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransaction fetches a single transaction by ID.
func (c *TransactionClient) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	if transactionID == "" {
		return nil, fault.Validation("transaction_id", "transaction_id is required")
	}
	var tx Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(transactionID), nil, nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListTransactions lists transactions for an account, newest first.
func (c *TransactionClient) ListTransactions(ctx context.Context, accountID string, limit int) ([]Transaction, error) {
	if accountID == "" {
		return nil, fault.Validation("account_id", "account_id is required")
	}
	query := url.Values{"accountId": {accountID}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var txs []Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", query, nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return fault.Validation("amount", "amount must be greater than zero")
	}
	return nil
}
