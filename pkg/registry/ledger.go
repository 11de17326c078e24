package registry

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"
)

const MaxSubdenomLength = 44

var subdenomRegex = regexp.MustCompile(`^[a-zA-Z0-9./]+$`)

type LedgerOption func(*Ledger)

// WithProvisionDelay delays every denomination creation outcome by delay.
func WithProvisionDelay(delay time.Duration) LedgerOption {
	return func(ledger *Ledger) {
		ledger.provisionDelay = delay
	}
}

// WithProvisionCheck installs a check that runs before a denomination is
// created; a non-nil error becomes the failed outcome.
func WithProvisionCheck(check func(owner string, subdenom string) error) LedgerOption {
	return func(ledger *Ledger) {
		ledger.provisionCheck = check
	}
}

// Ledger is an in-process token-supply registry.
type Ledger struct {
	mu       sync.Mutex
	admins   map[string]string
	balances map[string]map[string]uint64
	supply   map[string]uint64

	provisionDelay time.Duration
	provisionCheck func(owner string, subdenom string) error
}

// NewLedger creates an empty ledger.
func NewLedger(options ...LedgerOption) *Ledger {
	ledger := &Ledger{
		admins:   map[string]string{},
		balances: map[string]map[string]uint64{},
		supply:   map[string]uint64{},
	}
	for _, option := range options {
		option(ledger)
	}
	return ledger
}

// FullDenom builds the canonical name for a denomination created by owner.
func FullDenom(owner string, subdenom string) string {
	return strings.Join([]string{FactoryPrefix, owner, subdenom}, "/")
}

// ValidateSubdenom checks the subdenom charset and length.
func ValidateSubdenom(subdenom string) error {
	if subdenom == "" {
		return NewInvalidSubdenomError(subdenom, "empty")
	}
	if len(subdenom) > MaxSubdenomLength {
		return NewInvalidSubdenomError(subdenom, fmt.Sprintf("longer than %d characters", MaxSubdenomLength))
	}
	if !subdenomRegex.MatchString(subdenom) {
		return NewInvalidSubdenomError(subdenom, "only alphanumerics, '.' and '/' are allowed")
	}
	return nil
}

// RequestCreateDenomination schedules creation and returns immediately.
func (ledger *Ledger) RequestCreateDenomination(
	_ context.Context,
	owner string,
	subdenom string,
) (*Pending, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("owner is required")
	}

	pending := NewPending()
	go func() {
		if ledger.provisionDelay > 0 {
			time.Sleep(ledger.provisionDelay)
		}
		denom, err := ledger.createDenom(owner, subdenom)
		pending.Resolve(Outcome{Denom: denom, Err: err})
	}()
	return pending, nil
}

func (ledger *Ledger) createDenom(owner string, subdenom string) (string, error) {
	if err := ValidateSubdenom(subdenom); err != nil {
		return "", err
	}
	if ledger.provisionCheck != nil {
		if err := ledger.provisionCheck(owner, subdenom); err != nil {
			return "", err
		}
	}

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	denom := FullDenom(owner, subdenom)
	if _, exists := ledger.admins[denom]; exists {
		return "", NewDenomExistsError(denom)
	}
	ledger.admins[denom] = owner
	return denom, nil
}

// RequestMint mints amount of denom to receiver. Only the denom admin may mint.
func (ledger *Ledger) RequestMint(
	_ context.Context,
	owner string,
	denom string,
	amount uint64,
	receiver string,
) error {
	if strings.TrimSpace(receiver) == "" {
		return fmt.Errorf("receiver is required")
	}

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if err := ledger.checkAdmin(owner, denom); err != nil {
		return err
	}
	if ledger.supply[denom] > math.MaxUint64-amount {
		return fmt.Errorf("minting %d%s overflows supply", amount, denom)
	}

	ledger.credit(receiver, denom, amount)
	ledger.supply[denom] += amount
	return nil
}

// RequestBurn burns amount of denom held by the admin itself.
func (ledger *Ledger) RequestBurn(
	_ context.Context,
	owner string,
	denom string,
	amount uint64,
) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if err := ledger.checkAdmin(owner, denom); err != nil {
		return err
	}
	available := ledger.balances[owner][denom]
	if available < amount {
		return NewInsufficientFundsError(owner, Coin{Denom: denom, Amount: amount}, available)
	}

	ledger.balances[owner][denom] = available - amount
	ledger.supply[denom] -= amount
	return nil
}

// ResolveFullDenomination returns the canonical name of an existing denomination.
func (ledger *Ledger) ResolveFullDenomination(
	_ context.Context,
	owner string,
	subdenom string,
) (string, error) {
	denom := FullDenom(owner, subdenom)

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if _, exists := ledger.admins[denom]; !exists {
		return "", NewDenomNotFoundError(denom)
	}
	return denom, nil
}

// Transfer moves every coin from one account to another, or none of them.
func (ledger *Ledger) Transfer(_ context.Context, from string, to string, coins []Coin) error {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	required := map[string]uint64{}
	for _, coin := range coins {
		if required[coin.Denom] > math.MaxUint64-coin.Amount {
			return fmt.Errorf("transfer of %s overflows the requested total", coin.Denom)
		}
		required[coin.Denom] += coin.Amount
	}
	for denom, amount := range required {
		available := ledger.balances[from][denom]
		if available < amount {
			return NewInsufficientFundsError(from, Coin{Denom: denom, Amount: amount}, available)
		}
	}

	for _, coin := range coins {
		if coin.Amount == 0 {
			continue
		}
		ledger.balances[from][coin.Denom] -= coin.Amount
		ledger.credit(to, coin.Denom, coin.Amount)
	}
	return nil
}

// Balance returns the amount of denom held by account.
func (ledger *Ledger) Balance(account string, denom string) uint64 {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	return ledger.balances[account][denom]
}

// Supply returns the outstanding supply of denom.
func (ledger *Ledger) Supply(denom string) uint64 {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	return ledger.supply[denom]
}

// Admin returns the owner of denom, if it exists.
func (ledger *Ledger) Admin(denom string) (string, bool) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	owner, ok := ledger.admins[denom]
	return owner, ok
}

func (ledger *Ledger) checkAdmin(owner string, denom string) error {
	admin, exists := ledger.admins[denom]
	if !exists {
		return NewDenomNotFoundError(denom)
	}
	if admin != owner {
		return NewNotDenomAdminError(denom, owner)
	}
	return nil
}

func (ledger *Ledger) credit(account string, denom string, amount uint64) {
	if ledger.balances[account] == nil {
		ledger.balances[account] = map[string]uint64{}
	}
	ledger.balances[account][denom] += amount
}
