package runtime

import (
	"context"

	"github.com/google/uuid"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/issuance"
)

// Result is the final outcome of a transaction.
type Result struct {
	Response issuance.Response
	Reply    *issuance.Response
	Err      error
}

// Tx tracks one transaction from its entry point to commit or rollback.
type Tx struct {
	ID     string
	Action string

	done   chan struct{}
	result Result
}

func newTx(action string) *Tx {
	return &Tx{
		ID:     uuid.NewString(),
		Action: action,
		done:   make(chan struct{}),
	}
}

func (tx *Tx) finish(result Result) {
	tx.result = result
	close(tx.done)
}

// Done is closed once the transaction is committed or rolled back.
func (tx *Tx) Done() <-chan struct{} {
	return tx.done
}

// Wait blocks until the transaction completes or ctx ends. The returned error
// is only set when ctx ends first; a failed transaction reports Result.Err.
func (tx *Tx) Wait(ctx context.Context) (Result, error) {
	select {
	case <-tx.done:
		return tx.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
