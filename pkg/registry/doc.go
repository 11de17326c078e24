// Package registry defines the boundary between an issuance controller and
// the external token-supply registry that owns denominations and balances.
//
// A Registry accepts four requests: create a denomination, mint, burn, and
// resolve the canonical name of a denomination created by an owner. Only
// denomination creation is correlated: RequestCreateDenomination returns a
// Pending handle that is resolved exactly once with the Outcome.
//
// Ledger is an in-process Registry backed by a balance table. It names
// denominations "factory/<owner>/<subdenom>" and also implements Bank, so a
// host can move attached funds to the controller before a burn.
package registry
