package mirror

// TokenInfo is the detail view returned by /api/v1/tokens/{id}. Numeric
// amounts are strings on this endpoint.
type TokenInfo struct {
	TokenID           string         `json:"token_id"`
	Name              string         `json:"name"`
	Symbol            string         `json:"symbol"`
	Memo              string         `json:"memo"`
	Decimals          string         `json:"decimals"`
	TotalSupply       string         `json:"total_supply"`
	InitialSupply     string         `json:"initial_supply"`
	TreasuryAccountID string         `json:"treasury_account_id"`
	Type              string         `json:"type"`
	SupplyType        string         `json:"supply_type"`
	CreatedTimestamp  string         `json:"created_timestamp"`
	Deleted           bool           `json:"deleted"`
	AdminKey          map[string]any `json:"admin_key"`
	SupplyKey         map[string]any `json:"supply_key"`
}

// TokenSummary is a row of the /api/v1/tokens listing.
type TokenSummary struct {
	TokenID  string         `json:"token_id"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Decimals int            `json:"decimals"`
	Type     string         `json:"type"`
	AdminKey map[string]any `json:"admin_key"`
}

type TokenQueryOptions struct {
	AccountID string
	Name      string
	Limit     int
	Order     string
}

type AccountInfo struct {
	Account string         `json:"account"`
	Key     map[string]any `json:"key"`
	Memo    string         `json:"memo"`
}

type TokenBalance struct {
	TokenID  string `json:"token_id"`
	Balance  uint64 `json:"balance"`
	Decimals int    `json:"decimals"`
}

type links struct {
	Next string `json:"next"`
}

type tokensResponse struct {
	Tokens []TokenSummary `json:"tokens"`
	Links  links          `json:"links"`
}

type accountTokensResponse struct {
	Tokens []TokenBalance `json:"tokens"`
	Links  links          `json:"links"`
}
