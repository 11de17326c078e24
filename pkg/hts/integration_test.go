package hts

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hashgraph-online/issuance-sdk-go/pkg/shared"
)

func TestHTSIntegration_CreateMintBurn(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION") != "1" {
		t.Skip("set RUN_INTEGRATION=1 to run live Hedera integration tests")
	}

	operatorConfig, err := shared.OperatorConfigFromEnv()
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	if strings.EqualFold(operatorConfig.Network, shared.NetworkMainnet) && os.Getenv("ALLOW_MAINNET_INTEGRATION") != "1" {
		t.Skip("resolved mainnet credentials; set ALLOW_MAINNET_INTEGRATION=1 to allow live mainnet writes")
	}

	r, err := NewRegistry(Config{
		Network:            operatorConfig.Network,
		OperatorAccountID:  operatorConfig.AccountID,
		OperatorPrivateKey: operatorConfig.PrivateKey,
	})
	if err != nil {
		t.Fatalf("failed to create HTS registry: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	owner := r.OperatorAccountID()
	subdenom := fmt.Sprintf("it%d", time.Now().Unix())
	pending, err := r.RequestCreateDenomination(ctx, owner, subdenom)
	if err != nil {
		t.Fatalf("failed to request token creation: %v", err)
	}
	outcome, err := pending.Wait(ctx)
	if err != nil {
		t.Fatalf("token creation did not complete: %v", err)
	}
	if outcome.Err != nil {
		t.Fatalf("token creation failed: %v", outcome.Err)
	}

	resolved, err := r.ResolveFullDenomination(ctx, owner, subdenom)
	if err != nil || resolved != outcome.Denom {
		t.Fatalf("expected %s to resolve to %s, got %s (%v)", subdenom, outcome.Denom, resolved, err)
	}

	if err := r.RequestMint(ctx, owner, outcome.Denom, 100, owner); err != nil {
		t.Fatalf("failed to mint: %v", err)
	}
	if err := r.RequestBurn(ctx, owner, outcome.Denom, 40); err != nil {
		t.Fatalf("failed to burn: %v", err)
	}
}
