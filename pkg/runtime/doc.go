// Package runtime hosts an issuance controller on top of a key-value store
// and a token registry.
//
// Every entry point and every registry callback runs as one transaction
// against a write overlay of the store. Transactions are serialized; a
// transaction is committed only when its entry point, the funds it moved,
// every registry instruction it emitted and its reply all succeeded.
//
// Denomination creation completes asynchronously. Instantiate returns a Tx
// handle as soon as the request is sent; the transaction stays parked until
// the registry reports an outcome or the reply timeout evicts it.
package runtime
