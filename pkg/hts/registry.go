package hts

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/hashgraph-online/issuance-sdk-go/pkg/mirror"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/registry"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/rs/zerolog"
)

const memoPrefix = "issuance:"

var _ registry.Bank = (*Registry)(nil)

type Config struct {
	Network            string
	OperatorAccountID  string
	OperatorPrivateKey string
	MirrorBaseURL      string
	MirrorAPIKey       string
	Decimals           uint
	Logger             *zerolog.Logger
}

type Registry struct {
	hederaClient *hedera.Client
	mirrorClient *mirror.Client
	operatorID   hedera.AccountID
	operatorKey  hedera.PrivateKey
	decimals     uint
	logger       zerolog.Logger

	mutex  sync.RWMutex
	denoms map[string]string
}

// NewRegistry creates a registry that signs with the operator account.
func NewRegistry(config Config) (*Registry, error) {
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(config.OperatorAccountID) == "" {
		return nil, fmt.Errorf("operator account ID is required")
	}
	if strings.TrimSpace(config.OperatorPrivateKey) == "" {
		return nil, fmt.Errorf("operator private key is required")
	}

	operatorID, err := hedera.AccountIDFromString(strings.TrimSpace(config.OperatorAccountID))
	if err != nil {
		return nil, fmt.Errorf("invalid operator account ID: %w", err)
	}
	operatorKey, err := shared.ParsePrivateKey(config.OperatorPrivateKey)
	if err != nil {
		return nil, err
	}

	hederaClient, err := shared.NewHederaClient(network)
	if err != nil {
		return nil, err
	}
	hederaClient.SetOperator(operatorID, operatorKey)

	mirrorClient, err := mirror.NewClient(mirror.Config{
		Network: network,
		BaseURL: config.MirrorBaseURL,
		APIKey:  config.MirrorAPIKey,
	})
	if err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Registry{
		hederaClient: hederaClient,
		mirrorClient: mirrorClient,
		operatorID:   operatorID,
		operatorKey:  operatorKey,
		decimals:     config.Decimals,
		logger:       logger.With().Str("component", "hts").Str("network", network).Logger(),
		denoms:       map[string]string{},
	}, nil
}

// OperatorAccountID returns the account that owns every token created here.
func (r *Registry) OperatorAccountID() string {
	return r.operatorID.String()
}

// MirrorClient returns the configured mirror node client.
func (r *Registry) MirrorClient() *mirror.Client {
	return r.mirrorClient
}

// RequestCreateDenomination submits a token create transaction and confirms
// it in the background.
func (r *Registry) RequestCreateDenomination(
	ctx context.Context,
	owner string,
	subdenom string,
) (*registry.Pending, error) {
	if err := r.checkOwner(owner); err != nil {
		return nil, err
	}
	if err := registry.ValidateSubdenom(subdenom); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	publicKey := r.operatorKey.PublicKey()
	transaction := hedera.NewTokenCreateTransaction().
		SetTokenName(subdenom).
		SetTokenSymbol(symbolFor(subdenom)).
		SetTokenMemo(memoFor(owner, subdenom)).
		SetDecimals(r.decimals).
		SetInitialSupply(0).
		SetTokenType(hedera.TokenTypeFungibleCommon).
		SetSupplyType(hedera.TokenSupplyTypeInfinite).
		SetTreasuryAccountID(r.operatorID).
		SetAdminKey(publicKey).
		SetSupplyKey(publicKey)

	response, err := transaction.Execute(r.hederaClient)
	if err != nil {
		return nil, fmt.Errorf("failed to execute token create transaction: %w", err)
	}
	r.logger.Info().
		Str("subdenom", subdenom).
		Str("transaction_id", response.TransactionID.String()).
		Msg("token create submitted")

	pending := registry.NewPending()
	go func() {
		receipt, err := response.GetReceipt(r.hederaClient)
		if err != nil {
			pending.Resolve(registry.Outcome{Err: fmt.Errorf("failed to get token create receipt: %w", err)})
			return
		}
		if receipt.TokenID == nil {
			pending.Resolve(registry.Outcome{Err: fmt.Errorf("token ID missing in token create receipt")})
			return
		}

		tokenID := receipt.TokenID.String()
		r.remember(owner, subdenom, tokenID)
		r.logger.Info().Str("subdenom", subdenom).Str("token_id", tokenID).Msg("token created")
		pending.Resolve(registry.Outcome{Denom: tokenID})
	}()
	return pending, nil
}

// RequestMint mints amount into the treasury and transfers it to receiver.
func (r *Registry) RequestMint(
	ctx context.Context,
	owner string,
	denom string,
	amount uint64,
	receiver string,
) error {
	if err := r.checkOwner(owner); err != nil {
		return err
	}
	tokenID, err := hedera.TokenIDFromString(strings.TrimSpace(denom))
	if err != nil {
		return registry.NewDenomNotFoundError(denom)
	}
	receiverID, err := hedera.AccountIDFromString(strings.TrimSpace(receiver))
	if err != nil {
		return fmt.Errorf("invalid receiver account ID: %w", err)
	}
	if amount > math.MaxInt64 {
		return fmt.Errorf("amount %d exceeds the token service limit", amount)
	}
	if receiverID.String() != r.operatorID.String() {
		if _, err := r.mirrorClient.GetAccount(ctx, receiverID.String()); err != nil {
			return fmt.Errorf("receiver %s is not a known account: %w", receiverID.String(), err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mintResponse, err := hedera.NewTokenMintTransaction().
		SetTokenID(tokenID).
		SetAmount(amount).
		Execute(r.hederaClient)
	if err != nil {
		return fmt.Errorf("failed to execute token mint transaction: %w", err)
	}
	if _, err := mintResponse.GetReceipt(r.hederaClient); err != nil {
		return fmt.Errorf("failed to get token mint receipt: %w", err)
	}

	if receiverID.String() != r.operatorID.String() {
		transferResponse, err := hedera.NewTransferTransaction().
			AddTokenTransfer(tokenID, r.operatorID, -int64(amount)).
			AddTokenTransfer(tokenID, receiverID, int64(amount)).
			Execute(r.hederaClient)
		if err != nil {
			return fmt.Errorf("failed to execute token transfer transaction: %w", err)
		}
		if _, err := transferResponse.GetReceipt(r.hederaClient); err != nil {
			return fmt.Errorf("failed to get token transfer receipt: %w", err)
		}
	}

	r.logger.Info().Str("token_id", tokenID.String()).Uint64("amount", amount).Str("receiver", receiverID.String()).Msg("tokens minted")
	return nil
}

// RequestBurn burns amount from the treasury.
func (r *Registry) RequestBurn(ctx context.Context, owner string, denom string, amount uint64) error {
	if err := r.checkOwner(owner); err != nil {
		return err
	}
	tokenID, err := hedera.TokenIDFromString(strings.TrimSpace(denom))
	if err != nil {
		return registry.NewDenomNotFoundError(denom)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	response, err := hedera.NewTokenBurnTransaction().
		SetTokenID(tokenID).
		SetAmount(amount).
		Execute(r.hederaClient)
	if err != nil {
		return fmt.Errorf("failed to execute token burn transaction: %w", err)
	}
	if _, err := response.GetReceipt(r.hederaClient); err != nil {
		return fmt.Errorf("failed to get token burn receipt: %w", err)
	}

	r.logger.Info().Str("token_id", tokenID.String()).Uint64("amount", amount).Msg("tokens burned")
	return nil
}

// Transfer moves coins between accounts in one transaction. Debits from an
// account other than the operator spend an allowance granted to the
// operator, and are checked against the holder's mirror balance first.
func (r *Registry) Transfer(ctx context.Context, from string, to string, coins []registry.Coin) error {
	fromID, err := hedera.AccountIDFromString(strings.TrimSpace(from))
	if err != nil {
		return fmt.Errorf("invalid sender account ID: %w", err)
	}
	toID, err := hedera.AccountIDFromString(strings.TrimSpace(to))
	if err != nil {
		return fmt.Errorf("invalid recipient account ID: %w", err)
	}
	if fromID.String() == toID.String() {
		return nil
	}

	order := make([]string, 0, len(coins))
	required := map[string]uint64{}
	for _, coin := range coins {
		if coin.Amount == 0 {
			continue
		}
		if _, seen := required[coin.Denom]; !seen {
			order = append(order, coin.Denom)
		}
		if coin.Amount > math.MaxInt64 || required[coin.Denom] > math.MaxInt64-coin.Amount {
			return fmt.Errorf("transfer of %s exceeds the token service limit", coin.Denom)
		}
		required[coin.Denom] += coin.Amount
	}
	if len(order) == 0 {
		return nil
	}

	fromOperator := fromID.String() == r.operatorID.String()
	transaction := hedera.NewTransferTransaction()
	for _, denom := range order {
		tokenID, err := hedera.TokenIDFromString(strings.TrimSpace(denom))
		if err != nil {
			return registry.NewDenomNotFoundError(denom)
		}
		amount := required[denom]

		if fromOperator {
			transaction.AddTokenTransfer(tokenID, fromID, -int64(amount))
		} else {
			available, err := r.Balance(ctx, fromID.String(), tokenID.String())
			if err != nil {
				return fmt.Errorf("failed to read balance of %s: %w", fromID.String(), err)
			}
			if available < amount {
				return registry.NewInsufficientFundsError(fromID.String(), registry.Coin{Denom: denom, Amount: amount}, available)
			}
			transaction.AddApprovedTokenTransfer(tokenID, fromID, -int64(amount), true)
		}
		transaction.AddTokenTransfer(tokenID, toID, int64(amount))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	response, err := transaction.Execute(r.hederaClient)
	if err != nil {
		return fmt.Errorf("failed to execute token transfer transaction: %w", err)
	}
	if _, err := response.GetReceipt(r.hederaClient); err != nil {
		return fmt.Errorf("failed to get token transfer receipt: %w", err)
	}

	r.logger.Info().Str("from", fromID.String()).Str("to", toID.String()).Int("tokens", len(order)).Msg("tokens transferred")
	return nil
}

// ResolveFullDenomination returns the token ID created for owner/subdenom,
// asking the mirror node when it was created by another process.
func (r *Registry) ResolveFullDenomination(ctx context.Context, owner string, subdenom string) (string, error) {
	if tokenID, ok := r.lookup(owner, subdenom); ok {
		return tokenID, nil
	}

	tokens, err := r.mirrorClient.ListTokens(ctx, mirror.TokenQueryOptions{
		AccountID: owner,
		Name:      subdenom,
	})
	if err != nil {
		return "", fmt.Errorf("failed to list tokens for %s: %w", owner, err)
	}

	expectedMemo := memoFor(owner, subdenom)
	for _, token := range tokens {
		if token.Name != subdenom {
			continue
		}
		info, err := r.mirrorClient.GetToken(ctx, token.TokenID)
		if err != nil {
			return "", err
		}
		if info.Deleted || info.Memo != expectedMemo {
			continue
		}
		r.remember(owner, subdenom, info.TokenID)
		return info.TokenID, nil
	}

	return "", registry.NewDenomNotFoundError(cacheKey(owner, subdenom))
}

// Balance returns the mirror node's view of account's balance of denom.
func (r *Registry) Balance(ctx context.Context, account string, denom string) (uint64, error) {
	return r.mirrorClient.GetTokenBalance(ctx, account, denom)
}

func (r *Registry) checkOwner(owner string) error {
	normalized, err := shared.NormalizeEntityID(owner)
	if err != nil {
		return err
	}
	if normalized != r.operatorID.String() {
		return fmt.Errorf("owner %s is not the operator account %s", normalized, r.operatorID.String())
	}
	return nil
}

func (r *Registry) remember(owner string, subdenom string, tokenID string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.denoms[cacheKey(owner, subdenom)] = tokenID
}

func (r *Registry) lookup(owner string, subdenom string) (string, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	tokenID, ok := r.denoms[cacheKey(owner, subdenom)]
	return tokenID, ok
}

func cacheKey(owner string, subdenom string) string {
	return owner + "/" + subdenom
}

func memoFor(owner string, subdenom string) string {
	return memoPrefix + owner + "/" + subdenom
}

func symbolFor(subdenom string) string {
	symbol := strings.ToUpper(subdenom)
	if len(symbol) > 100 {
		symbol = symbol[:100]
	}
	return symbol
}
