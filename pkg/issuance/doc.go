// Package issuance implements the issuance controller: a component that owns
// one managed token denomination on behalf of a single authority ("core")
// and drives the token-supply registry on its behalf.
//
// The controller is a set of entry points over a kvstore.Store. Entry points
// never call the registry directly; they return a Response whose Messages the
// host dispatches. Denomination provisioning is the only correlated request:
// Instantiate emits a CreateDenomMsg tagged with CreateDenomReplyID and the
// host later calls Reply with the outcome, which replaces the provisional
// subdenom with the canonical registry name.
//
// # Entry Points
//
//	controller, err := issuance.NewController("0.0.5005", ledger)
//
//	response, err := controller.Instantiate(ctx, store, issuance.MessageInfo{Sender: "0.0.1001"},
//		issuance.InstantiateMsg{CoreAddress: "0.0.1001", Subdenom: "udrop"})
//
//	response, err = controller.Execute(ctx, store, issuance.MessageInfo{Sender: "0.0.1001"},
//		issuance.ExecuteMsg{Mint: &issuance.MintMsg{Amount: 100, Receiver: "0.0.7007"}})
//
// Mint and Burn are gated by the same sender check at the Execute boundary.
// Burn takes no arguments: the funds attached to the call are burned, and
// must be exactly one non-zero coin of the managed denomination.
package issuance
