// Package issuancesdk is a Go SDK for running a token issuance controller
// against a token-supply registry, together with the hook aggregator that
// records acknowledgements from a remote operation runner.
//
// # Packages
//
//   - pkg/issuance: the controller state machine (instantiate, mint, burn,
//     config, provisioning reply)
//   - pkg/runtime: the transactional host that serializes entry points,
//     dispatches registry instructions and delivers asynchronous replies
//   - pkg/registry: the registry boundary and an in-process Ledger
//   - pkg/hts: a registry backed by the Hedera Token Service
//   - pkg/hooks: the hook aggregator, its snapshots and the socket.io feed
//   - pkg/mirror: Hedera mirror node token lookups
//   - pkg/kvstore: memory, overlay and SQLite key-value stores
//   - pkg/shared: networks, operator credentials, settings and logging
//
// # Installation
//
//	go get github.com/hashgraph-online/issuance-sdk-go@latest
package issuance_sdk_go
