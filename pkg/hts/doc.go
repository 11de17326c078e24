// Package hts implements the issuance registry on the Hedera Token Service.
//
// Each denomination is a fungible token whose treasury, admin key and supply
// key belong to the operator account. Token creation is submitted
// synchronously and confirmed in the background: the returned Pending
// handle resolves with the new token ID once the receipt arrives. The
// canonical name of a denomination is its token ID.
//
// Registry also implements registry.Bank. Funds attached to a call are moved
// into the treasury with an approved transfer, so a holder must grant the
// operator an allowance before burning.
//
// Tokens created by this package carry the memo "issuance:<owner>/<subdenom>",
// which lets ResolveFullDenomination find them through the mirror node
// after a restart.
package hts
