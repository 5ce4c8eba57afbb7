package mcp

import (
	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/fingate/gateway"
)

// withAuthToken declares the bearer token argument every tool carries.
func withAuthToken() mcplib.ToolOption {
	return mcplib.WithString(gateway.TokenParam,
		mcplib.Description("Bearer token identifying the caller. Accepts a raw token or an 'Authorization: Bearer' value."),
		mcplib.Required(),
	)
}

// toolFor builds the MCP tool definition for a gateway operation.
func toolFor(op gateway.Operation) mcplib.Tool {
	switch op.Name {
	case "account_get":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Fetch a single account by ID. Callers without a broad-access role can only read their own accounts."),
			mcplib.WithReadOnlyHintAnnotation(true),
			withAuthToken(),
			mcplib.WithString("account_id",
				mcplib.Description("Account identifier"),
				mcplib.Required(),
			),
		)

	case "account_create":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Open a new account. Requires the account:create permission."),
			withAuthToken(),
			mcplib.WithString("owner_id",
				mcplib.Description("Owner of the new account. Defaults to the caller."),
			),
			mcplib.WithString("account_type",
				mcplib.Description("Account type, e.g. checking or savings"),
				mcplib.Required(),
			),
			mcplib.WithString("currency",
				mcplib.Description("ISO 4217 currency code"),
				mcplib.Required(),
			),
			mcplib.WithNumber("initial_deposit",
				mcplib.Description("Optional opening balance"),
				mcplib.Min(0),
			),
		)

	case "account_list":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("List accounts for an owner. Defaults to the caller's own accounts."),
			mcplib.WithReadOnlyHintAnnotation(true),
			withAuthToken(),
			mcplib.WithString("owner_id",
				mcplib.Description("Owner whose accounts to list. Defaults to the caller."),
			),
		)

	case "balance_get":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Fetch the current and pending balance of an account."),
			mcplib.WithReadOnlyHintAnnotation(true),
			withAuthToken(),
			mcplib.WithString("account_id",
				mcplib.Description("Account identifier"),
				mcplib.Required(),
			),
		)

	case "funds_deposit":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Deposit funds into an account."),
			withAuthToken(),
			mcplib.WithString("account_id",
				mcplib.Description("Account to credit"),
				mcplib.Required(),
			),
			mcplib.WithNumber("amount",
				mcplib.Description("Amount to deposit, must be positive"),
				mcplib.Required(),
			),
			mcplib.WithString("description",
				mcplib.Description("Optional transaction description"),
			),
		)

	case "funds_withdraw":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Withdraw funds from an account. Fails with INSUFFICIENT_FUNDS when the amount exceeds the available balance."),
			withAuthToken(),
			mcplib.WithString("account_id",
				mcplib.Description("Account to debit"),
				mcplib.Required(),
			),
			mcplib.WithNumber("amount",
				mcplib.Description("Amount to withdraw, must be positive"),
				mcplib.Required(),
			),
			mcplib.WithString("description",
				mcplib.Description("Optional transaction description"),
			),
		)

	case "funds_transfer":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Transfer funds between two accounts. The caller must be allowed to transact on the source account."),
			withAuthToken(),
			mcplib.WithString("from_account_id",
				mcplib.Description("Source account"),
				mcplib.Required(),
			),
			mcplib.WithString("to_account_id",
				mcplib.Description("Destination account"),
				mcplib.Required(),
			),
			mcplib.WithNumber("amount",
				mcplib.Description("Amount to transfer, must be positive"),
				mcplib.Required(),
			),
			mcplib.WithString("description",
				mcplib.Description("Optional transaction description"),
			),
		)

	case "transaction_reverse":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Reverse a completed transaction. Requires the transaction:reverse permission."),
			withAuthToken(),
			mcplib.WithString("transaction_id",
				mcplib.Description("Transaction to reverse"),
				mcplib.Required(),
			),
			mcplib.WithString("reason",
				mcplib.Description("Optional reversal reason"),
			),
		)

	case "transaction_get":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Fetch a single transaction by ID."),
			mcplib.WithReadOnlyHintAnnotation(true),
			withAuthToken(),
			mcplib.WithString("transaction_id",
				mcplib.Description("Transaction identifier"),
				mcplib.Required(),
			),
		)

	case "transaction_history":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("List recent transactions for an account."),
			mcplib.WithReadOnlyHintAnnotation(true),
			withAuthToken(),
			mcplib.WithString("account_id",
				mcplib.Description("Account whose transactions to list"),
				mcplib.Required(),
			),
			mcplib.WithNumber("limit",
				mcplib.Description("Maximum number of transactions to return"),
				mcplib.Min(1),
				mcplib.Max(500),
				mcplib.DefaultNumber(50),
			),
		)

	case "account_analytics":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Fetch the analytics summary for an owner: account count, total balance, 30-day flows."),
			mcplib.WithReadOnlyHintAnnotation(true),
			withAuthToken(),
			mcplib.WithString("owner_id",
				mcplib.Description("Owner to summarize. Defaults to the caller."),
			),
		)

	case "system_status":
		return mcplib.NewTool(op.Name,
			mcplib.WithDescription("Report downstream service health and circuit breaker state. Requires the admin:system:status permission."),
			mcplib.WithReadOnlyHintAnnotation(true),
			withAuthToken(),
		)

	default:
		return mcplib.NewTool(op.Name, withAuthToken())
	}
}
