package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/fingate/auth"
	"github.com/jonwraymond/fingate/client"
	"github.com/jonwraymond/fingate/fault"
)

// ServiceConfig wires the operation set to its collaborators.
type ServiceConfig struct {
	// Accounts talks to the account service. Required.
	Accounts *client.AccountClient

	// Transactions talks to the transaction service. Required.
	Transactions *client.TransactionClient

	// Authorizer answers ownership queries the gates cannot evaluate
	// up front (owner known only after a fetch). Required.
	Authorizer *auth.Authorizer
}

// Service implements the gateway's operation handlers against the two
// downstream clients.
type Service struct {
	accounts     *client.AccountClient
	transactions *client.TransactionClient
	authz        *auth.Authorizer
}

// NewService creates the operation service.
func NewService(config ServiceConfig) (*Service, error) {
	if config.Accounts == nil {
		return nil, errors.New("account client is required")
	}
	if config.Transactions == nil {
		return nil, errors.New("transaction client is required")
	}
	if config.Authorizer == nil {
		return nil, errors.New("authorizer is required")
	}
	return &Service{
		accounts:     config.Accounts,
		transactions: config.Transactions,
		authz:        config.Authorizer,
	}, nil
}

// Operations returns every operation the gateway exposes, with its
// authorization requirements.
func (s *Service) Operations() []Operation {
	return []Operation{
		{
			Name:       "account_get",
			Permission: auth.PermAccountRead,
			Handler:    s.getAccount,
		},
		{
			Name:       "account_create",
			Permission: auth.PermAccountCreate,
			Handler:    s.createAccount,
		},
		{
			Name:           "account_list",
			Permission:     auth.PermAccountRead,
			OwnershipParam: "owner_id",
			Access:         AccessAccount,
			Handler:        s.listAccounts,
		},
		{
			Name:       "balance_get",
			Permission: auth.PermAccountRead,
			Handler:    s.getBalance,
		},
		{
			Name:       "funds_deposit",
			Permission: auth.PermTransactionCreate,
			Handler:    s.deposit,
		},
		{
			Name:       "funds_withdraw",
			Permission: auth.PermTransactionCreate,
			Handler:    s.withdraw,
		},
		{
			Name:       "funds_transfer",
			Permission: auth.PermTransactionCreate,
			Handler:    s.transfer,
		},
		{
			Name:       "transaction_reverse",
			Permission: auth.PermTransactionReverse,
			Handler:    s.reverse,
		},
		{
			Name:       "transaction_get",
			Permission: auth.PermTransactionRead,
			Handler:    s.getTransaction,
		},
		{
			Name:       "transaction_history",
			Permission: auth.PermQueryTransactionHistory,
			Handler:    s.listTransactions,
		},
		{
			Name:           "account_analytics",
			Permission:     auth.PermQueryAccountAnalytics,
			OwnershipParam: "owner_id",
			Access:         AccessAnalytics,
			Handler:        s.getAnalytics,
		},
		{
			Name:       "system_status",
			Permission: auth.PermAdminSystemStatus,
			Handler:    s.systemStatus,
		},
	}
}

// checkAccountAccess verifies the caller may act on the account. The owner is
// only known after the fetch, so this runs inside handlers rather than in the
// ownership gate. Broad-access callers skip the extra fetch.
func (s *Service) checkAccountAccess(ctx context.Context, user auth.UserContext, accountID string) (*client.Account, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanAccessAccount(user, account.OwnerID) {
		return nil, fault.PermissionDenied("access denied")
	}
	return account, nil
}

func (s *Service) getAccount(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	accountID, err := args.RequiredString("account_id")
	if err != nil {
		return nil, err
	}
	account, err := s.checkAccountAccess(ctx, user, accountID)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "account retrieved", Data: account}, nil
}

func (s *Service) createAccount(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	ownerID := args.String("owner_id")
	if ownerID == "" {
		ownerID = user.UserID
	}
	accountType, err := args.RequiredString("account_type")
	if err != nil {
		return nil, err
	}
	currency, err := args.RequiredString("currency")
	if err != nil {
		return nil, err
	}
	initial := 0.0
	if _, ok := args["initial_deposit"]; ok {
		if initial, err = args.Float("initial_deposit"); err != nil {
			return nil, err
		}
	}

	account, err := s.accounts.CreateAccount(ctx, client.CreateAccountRequest{
		OwnerID:        ownerID,
		Type:           accountType,
		Currency:       currency,
		InitialDeposit: initial,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Message: "account created", Data: account}, nil
}

func (s *Service) listAccounts(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	ownerID := args.String("owner_id")
	if ownerID == "" {
		ownerID = user.UserID
	}
	accounts, err := s.accounts.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Message: fmt.Sprintf("%d accounts found", len(accounts)),
		Data:    accounts,
	}, nil
}

func (s *Service) getBalance(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	accountID, err := args.RequiredString("account_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.checkAccountAccess(ctx, user, accountID); err != nil {
		return nil, err
	}
	balance, err := s.accounts.GetBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "balance retrieved", Data: balance}, nil
}

func (s *Service) deposit(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	accountID, err := args.RequiredString("account_id")
	if err != nil {
		return nil, err
	}
	amount, err := args.Float("amount")
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanPerformTransaction(user, account.OwnerID, client.TransactionDeposit) {
		return nil, fault.PermissionDenied("access denied")
	}

	tx, err := s.transactions.Deposit(ctx, client.DepositRequest{
		AccountID:   accountID,
		Amount:      amount,
		Description: args.String("description"),
	})
	if err != nil {
		return nil, err
	}
	return &Result{Message: "deposit completed", Data: tx}, nil
}

func (s *Service) withdraw(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	accountID, err := args.RequiredString("account_id")
	if err != nil {
		return nil, err
	}
	amount, err := args.Float("amount")
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanPerformTransaction(user, account.OwnerID, client.TransactionWithdraw) {
		return nil, fault.PermissionDenied("access denied")
	}

	tx, err := s.transactions.Withdraw(ctx, client.WithdrawRequest{
		AccountID:   accountID,
		Amount:      amount,
		Description: args.String("description"),
	})
	if err != nil {
		return nil, err
	}
	return &Result{Message: "withdrawal completed", Data: tx}, nil
}

func (s *Service) transfer(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	fromID, err := args.RequiredString("from_account_id")
	if err != nil {
		return nil, err
	}
	toID, err := args.RequiredString("to_account_id")
	if err != nil {
		return nil, err
	}
	amount, err := args.Float("amount")
	if err != nil {
		return nil, err
	}
	source, err := s.accounts.GetAccount(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanPerformTransaction(user, source.OwnerID, client.TransactionTransfer) {
		return nil, fault.PermissionDenied("access denied")
	}

	tx, err := s.transactions.Transfer(ctx, client.TransferRequest{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Description:   args.String("description"),
	})
	if err != nil {
		return nil, err
	}
	return &Result{Message: "transfer completed", Data: tx}, nil
}

func (s *Service) reverse(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	transactionID, err := args.RequiredString("transaction_id")
	if err != nil {
		return nil, err
	}
	tx, err := s.transactions.Reverse(ctx, transactionID, client.ReverseRequest{
		Reason: args.String("reason"),
	})
	if err != nil {
		return nil, err
	}
	return &Result{Message: "transaction reversed", Data: tx}, nil
}

func (s *Service) getTransaction(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	transactionID, err := args.RequiredString("transaction_id")
	if err != nil {
		return nil, err
	}
	tx, err := s.transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !s.authz.HasBroadAccess(user) {
		if _, err := s.checkAccountAccess(ctx, user, tx.AccountID); err != nil {
			return nil, err
		}
	}
	return &Result{Message: "transaction retrieved", Data: tx}, nil
}

func (s *Service) listTransactions(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	accountID, err := args.RequiredString("account_id")
	if err != nil {
		return nil, err
	}
	if !s.authz.HasBroadAccess(user) {
		if _, err := s.checkAccountAccess(ctx, user, accountID); err != nil {
			return nil, err
		}
	}
	limit := args.Int("limit", 50)
	txs, err := s.transactions.ListTransactions(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	return &Result{
		Message: fmt.Sprintf("%d transactions found", len(txs)),
		Data:    txs,
	}, nil
}

func (s *Service) getAnalytics(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	ownerID := args.String("owner_id")
	if ownerID == "" {
		ownerID = user.UserID
	}
	summary, err := s.accounts.GetAnalytics(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &Result{Message: "analytics retrieved", Data: summary}, nil
}

// serviceStatus is the per-downstream entry in the system_status report.
type serviceStatus struct {
	Healthy  bool   `json:"healthy"`
	Breaker  string `json:"breaker"`
	Failures int    `json:"failures"`
}

func (s *Service) systemStatus(ctx context.Context, user auth.UserContext, args Args) (*Result, error) {
	status := map[string]serviceStatus{
		"account-service":     downstreamStatus(ctx, s.accounts.Client),
		"transaction-service": downstreamStatus(ctx, s.transactions.Client),
	}
	return &Result{Message: "system status retrieved", Data: status}, nil
}

func downstreamStatus(ctx context.Context, c *client.Client) serviceStatus {
	snap := c.BreakerSnapshot()
	return serviceStatus{
		Healthy:  c.Health(ctx) == nil,
		Breaker:  snap.State.String(),
		Failures: snap.Failures,
	}
}
