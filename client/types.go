package client

import "time"

// Account is the downstream account representation.
type Account struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"ownerId"`
	Type             string    `json:"type"`
	Currency         string    `json:"currency"`
	AvailableBalance float64   `json:"availableBalance"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Balance is the downstream balance representation.
type Balance struct {
	AccountID        string  `json:"accountId"`
	Currency         string  `json:"currency"`
	AvailableBalance float64 `json:"availableBalance"`
	PendingBalance   float64 `json:"pendingBalance"`
}

// Transaction is the downstream transaction representation.
type Transaction struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"accountId"`
	FromAccountID string    `json:"fromAccountId,omitempty"`
	ToAccountID   string    `json:"toAccountId,omitempty"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Transaction types understood by the transaction service.
const (
	TransactionDeposit  = "deposit"
	TransactionWithdraw = "withdrawal"
	TransactionTransfer = "transfer"
	TransactionReversal = "reversal"
)

// CreateAccountRequest opens a new account.
type CreateAccountRequest struct {
	OwnerID        string  `json:"ownerId"`
	Type           string  `json:"type"`
	Currency       string  `json:"currency"`
	InitialDeposit float64 `json:"initialDeposit,omitempty"`
}

// DepositRequest credits an account.
type DepositRequest struct {
	AccountID   string  `json:"accountId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// WithdrawRequest debits an account.
type WithdrawRequest struct {
	AccountID   string  `json:"accountId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// TransferRequest moves funds between two accounts.
type TransferRequest struct {
	FromAccountID string  `json:"fromAccountId"`
	ToAccountID   string  `json:"toAccountId"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description,omitempty"`
}

// ReverseRequest reverses a completed transaction.
type ReverseRequest struct {
	Reason string `json:"reason,omitempty"`
}

// AnalyticsSummary is the downstream per-owner analytics representation.
type AnalyticsSummary struct {
	OwnerID          string  `json:"ownerId"`
	AccountCount     int     `json:"accountCount"`
	TotalBalance     float64 `json:"totalBalance"`
	TransactionCount int     `json:"transactionCount"`
	Inflow30d        float64 `json:"inflow30d"`
	Outflow30d       float64 `json:"outflow30d"`
}
