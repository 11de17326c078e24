// Package mirror is a small Hedera Mirror Node REST client for token
// lookups. It resolves tokens by ID, lists the tokens associated with an
// account (following pagination links) and reads per-account token
// balances.
//
// The mirror node is a read-only view of the ledger and lags consensus by a
// few seconds; callers that need to observe their own writes should retry.
package mirror
