// Package kvstore provides the key-value storage used by the issuance
// controller and the hook aggregator. Every persisted value lives under a
// fixed key and is JSON encoded through Item.
//
// Three backends are provided:
//
//   - Memory: a process-local map, used by tests and the in-process examples.
//   - Cache: a write overlay over another Store. Writes stay in the overlay
//     until Commit, which is how a transaction is discarded without partial
//     state reaching the parent store.
//   - SQLiteStore: a single-table store backed by modernc.org/sqlite.
//
// # Typed Items
//
//	var denom = kvstore.NewItem[string]("denom")
//
//	if err := denom.Save(ctx, store, "uissue"); err != nil {
//		return err
//	}
//	value, err := denom.Load(ctx, store)
package kvstore
