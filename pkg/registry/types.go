package registry

import (
	"context"
	"fmt"
	"sync"
)

const FactoryPrefix = "factory"

type Coin struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount,string"`
}

// String formats the coin as "<amount><denom>".
func (coin Coin) String() string {
	return fmt.Sprintf("%d%s", coin.Amount, coin.Denom)
}

type Registry interface {
	RequestCreateDenomination(ctx context.Context, owner string, subdenom string) (*Pending, error)
	RequestMint(ctx context.Context, owner string, denom string, amount uint64, receiver string) error
	RequestBurn(ctx context.Context, owner string, denom string, amount uint64) error
	ResolveFullDenomination(ctx context.Context, owner string, subdenom string) (string, error)
}

// Bank moves balances between accounts. Registries that cannot move funds on
// behalf of a sender do not implement it.
type Bank interface {
	Transfer(ctx context.Context, from string, to string, coins []Coin) error
}

type Outcome struct {
	Denom string
	Err   error
}

// Succeeded reports whether the request completed without error.
func (outcome Outcome) Succeeded() bool {
	return outcome.Err == nil
}

// Pending correlates an asynchronous registry request with its outcome.
type Pending struct {
	done    chan struct{}
	once    sync.Once
	outcome Outcome
}

// NewPending returns an unresolved handle.
func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolve records the outcome. Only the first call has any effect; it
// reports whether this call resolved the handle.
func (pending *Pending) Resolve(outcome Outcome) bool {
	resolved := false
	pending.once.Do(func() {
		pending.outcome = outcome
		close(pending.done)
		resolved = true
	})
	return resolved
}

// Done is closed once the outcome is available.
func (pending *Pending) Done() <-chan struct{} {
	return pending.done
}

// Wait blocks until the outcome is available or ctx ends.
func (pending *Pending) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-pending.done:
		return pending.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Resolved returns a handle that is already resolved with outcome.
func Resolved(outcome Outcome) *Pending {
	pending := NewPending()
	pending.Resolve(outcome)
	return pending
}
