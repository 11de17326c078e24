package registry

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

const (
	testOwner    = "0.0.5005"
	testReceiver = "0.0.7007"
)

func createDenom(t *testing.T, ledger *Ledger, subdenom string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	pending, err := ledger.RequestCreateDenomination(ctx, testOwner, subdenom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outcome, err := pending.Wait(ctx)
	if err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}
	if !outcome.Succeeded() {
		t.Fatalf("unexpected provisioning failure: %v", outcome.Err)
	}
	return outcome.Denom
}

func TestLedgerCreateDenomination(t *testing.T) {
	ledger := NewLedger()
	denom := createDenom(t, ledger, "udrop")
	if denom != "factory/0.0.5005/udrop" {
		t.Fatalf("unexpected denom: %s", denom)
	}

	resolved, err := ledger.ResolveFullDenomination(context.Background(), testOwner, "udrop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != denom {
		t.Fatalf("expected %s, got %s", denom, resolved)
	}
	if admin, ok := ledger.Admin(denom); !ok || admin != testOwner {
		t.Fatalf("unexpected admin %q (ok=%v)", admin, ok)
	}
}

func TestLedgerCreateDuplicateFails(t *testing.T) {
	ledger := NewLedger()
	createDenom(t, ledger, "udrop")

	pending, err := ledger.RequestCreateDenomination(context.Background(), testOwner, "udrop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outcome, _ := pending.Wait(context.Background())
	var existsErr DenomExistsError
	if !errors.As(outcome.Err, &existsErr) {
		t.Fatalf("expected DenomExistsError, got %v", outcome.Err)
	}
}

func TestLedgerCreateInvalidSubdenom(t *testing.T) {
	ledger := NewLedger()
	pending, err := ledger.RequestCreateDenomination(context.Background(), testOwner, "bad denom!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outcome, _ := pending.Wait(context.Background())
	var invalidErr InvalidSubdenomError
	if !errors.As(outcome.Err, &invalidErr) {
		t.Fatalf("expected InvalidSubdenomError, got %v", outcome.Err)
	}
}

func TestLedgerProvisionCheck(t *testing.T) {
	injected := errors.New("registry unavailable")
	ledger := NewLedger(WithProvisionCheck(func(owner string, subdenom string) error {
		return injected
	}))
	pending, _ := ledger.RequestCreateDenomination(context.Background(), testOwner, "udrop")
	outcome, _ := pending.Wait(context.Background())
	if !errors.Is(outcome.Err, injected) {
		t.Fatalf("expected injected error, got %v", outcome.Err)
	}
	if _, err := ledger.ResolveFullDenomination(context.Background(), testOwner, "udrop"); err == nil {
		t.Fatal("expected failed provisioning to leave no denom")
	}
}

func TestLedgerProvisionDelayIsAsynchronous(t *testing.T) {
	ledger := NewLedger(WithProvisionDelay(50 * time.Millisecond))
	pending, err := ledger.RequestCreateDenomination(context.Background(), testOwner, "udrop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-pending.Done():
		t.Fatal("expected request to return before the outcome")
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if _, err := pending.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	outcome, err := pending.Wait(context.Background())
	if err != nil || !outcome.Succeeded() {
		t.Fatalf("expected eventual success, got %v / %v", err, outcome.Err)
	}
}

func TestLedgerMintAndBurn(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()
	denom := createDenom(t, ledger, "udrop")

	if err := ledger.RequestMint(ctx, testOwner, denom, 100, testReceiver); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Balance(testReceiver, denom) != 100 || ledger.Supply(denom) != 100 {
		t.Fatalf("unexpected balance/supply: %d/%d", ledger.Balance(testReceiver, denom), ledger.Supply(denom))
	}

	if err := ledger.Transfer(ctx, testReceiver, testOwner, []Coin{{Denom: denom, Amount: 40}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.RequestBurn(ctx, testOwner, denom, 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Supply(denom) != 60 {
		t.Fatalf("expected supply 60, got %d", ledger.Supply(denom))
	}
	if ledger.Balance(testOwner, denom) != 0 {
		t.Fatalf("expected owner balance 0, got %d", ledger.Balance(testOwner, denom))
	}
}

func TestLedgerMintRequiresAdmin(t *testing.T) {
	ledger := NewLedger()
	denom := createDenom(t, ledger, "udrop")

	err := ledger.RequestMint(context.Background(), "0.0.9999", denom, 1, testReceiver)
	var adminErr NotDenomAdminError
	if !errors.As(err, &adminErr) {
		t.Fatalf("expected NotDenomAdminError, got %v", err)
	}

	err = ledger.RequestMint(context.Background(), testOwner, "factory/0.0.5005/missing", 1, testReceiver)
	var notFound DenomNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DenomNotFoundError, got %v", err)
	}
}

func TestLedgerBurnInsufficient(t *testing.T) {
	ledger := NewLedger()
	denom := createDenom(t, ledger, "udrop")

	err := ledger.RequestBurn(context.Background(), testOwner, denom, 1)
	var insufficient InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
}

func TestLedgerTransferIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()
	denom := createDenom(t, ledger, "udrop")
	_ = ledger.RequestMint(ctx, testOwner, denom, 10, testReceiver)

	err := ledger.Transfer(ctx, testReceiver, testOwner, []Coin{
		{Denom: denom, Amount: 5},
		{Denom: denom, Amount: 6},
	})
	if err == nil {
		t.Fatal("expected insufficient funds error")
	}
	if ledger.Balance(testReceiver, denom) != 10 {
		t.Fatalf("expected untouched balance, got %d", ledger.Balance(testReceiver, denom))
	}
}

func TestPendingResolvesOnce(t *testing.T) {
	pending := NewPending()
	if !pending.Resolve(Outcome{Denom: "first"}) {
		t.Fatal("expected first resolve to win")
	}
	if pending.Resolve(Outcome{Denom: "second"}) {
		t.Fatal("expected second resolve to be ignored")
	}
	outcome, _ := pending.Wait(context.Background())
	if outcome.Denom != "first" {
		t.Fatalf("expected first outcome, got %s", outcome.Denom)
	}
}

func TestCoinString(t *testing.T) {
	coin := Coin{Denom: "factory/0.0.5005/udrop", Amount: 42}
	if coin.String() != "42factory/0.0.5005/udrop" {
		t.Fatalf("unexpected coin string: %s", coin.String())
	}
}

func TestValidateSubdenom(t *testing.T) {
	if err := ValidateSubdenom("udrop.v2/x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	long := make([]byte, MaxSubdenomLength+1)
	for index := range long {
		long[index] = 'a'
	}
	for _, invalid := range []string{"", string(long), "a b"} {
		if err := ValidateSubdenom(invalid); err == nil {
			t.Fatalf("expected error for %q", invalid)
		}
	}
}

func TestLedgerTransferRejectsOverflowingTotals(t *testing.T) {
	ledger := NewLedger()
	denom := createDenom(t, ledger, "udrop")
	if err := ledger.RequestMint(context.Background(), testOwner, denom, 10, testReceiver); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := ledger.Transfer(context.Background(), testReceiver, testOwner, []Coin{
		{Denom: denom, Amount: math.MaxUint64},
		{Denom: denom, Amount: 2},
	})
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if got := ledger.Balance(testReceiver, denom); got != 10 {
		t.Fatalf("expected balance 10, got %d", got)
	}
	if got := ledger.Balance(testOwner, denom); got != 0 {
		t.Fatalf("expected owner balance 0, got %d", got)
	}
}
