// Package shared provides common utilities used across the Issuance SDK for
// Go: network normalization, Hedera client construction, operator credential
// loading from the environment or .env files, entity ID validation, YAML
// settings and logger construction.
//
// # Environment Variables
//
// Operator credentials resolve from HEDERA_ACCOUNT_ID / HEDERA_PRIVATE_KEY
// (with network scoped variants such as TESTNET_HEDERA_ACCOUNT_ID). Settings
// files are located through ISSUANCE_SETTINGS, and ISSUANCE_STORE_PATH,
// ISSUANCE_MIRROR_URL, ISSUANCE_LOG_LEVEL and ISSUANCE_LOG_FORMAT override
// individual fields.
package shared
