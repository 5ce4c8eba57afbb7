package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jonwraymond/fingate/fault"
)

// AccountClient exposes the account service's typed operations.
type AccountClient struct {
	*Client
}

// NewAccountClient creates a client for the account service.
func NewAccountClient(config Config) (*AccountClient, error) {
	if config.ServiceName == "" {
		config.ServiceName = "account-service"
	}
	c, err := New(config)
	if err != nil {
		return nil, err
	}
	return &AccountClient{Client: c}, nil
}

// GetAccount fetches a single account by ID.
func (c *AccountClient) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	if accountID == "" {
		return nil, fault.Validation("account_id", "account_id is required")
	}
	var account Account
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID), nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateAccount opens a new account.
func (c *AccountClient) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, error) {
	if req.OwnerID == "" {
		return nil, fault.Validation("owner_id", "owner_id is required")
	}
	var account Account
	if err := c.do(ctx, http.MethodPost, "/accounts", nil, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts lists the accounts owned by ownerID.
func (c *AccountClient) ListAccounts(ctx context.Context, ownerID string) ([]Account, error) {
	if ownerID == "" {
		return nil, fault.Validation("owner_id", "owner_id is required")
	}
	query := url.Values{"ownerId": {ownerID}}
	var accounts []Account
	if err := c.do(ctx, http.MethodGet, "/accounts", query, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetBalance fetches the current balance of an account.
func (c *AccountClient) GetBalance(ctx context.Context, accountID string) (*Balance, error) {
	if accountID == "" {
		return nil, fault.Validation("account_id", "account_id is required")
	}
	var balance Balance
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/balance", nil, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetAnalytics fetches the per-owner analytics summary.
func (c *AccountClient) GetAnalytics(ctx context.Context, ownerID string) (*AnalyticsSummary, error) {
	if ownerID == "" {
		return nil, fault.Validation("owner_id", "owner_id is required")
	}
	var summary AnalyticsSummary
	if err := c.do(ctx, http.MethodGet, "/accounts/analytics/"+url.PathEscape(ownerID), nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
