package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashgraph-online/issuance-sdk-go/pkg/issuance"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/kvstore"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/registry"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/shared"
	"github.com/rs/zerolog"
)

type Config struct {
	// Address is the controller's own account, the owner of its denomination.
	Address      string
	Store        kvstore.Store
	Registry     registry.Registry
	ReplyTimeout time.Duration
	Logger       *zerolog.Logger
}

type Host struct {
	mu sync.Mutex

	store        kvstore.Store
	registry     registry.Registry
	bank         registry.Bank
	controller   *issuance.Controller
	replyTimeout time.Duration
	logger       zerolog.Logger

	nextSequence uint64
	pending      map[uint64]*pendingTx
	provisioning bool
	closed       chan struct{}
	closeOnce    sync.Once
}

type pendingTx struct {
	tx       *Tx
	cache    *kvstore.Cache
	info     issuance.MessageInfo
	response issuance.Response
	replyID  uint64
	replyOn  issuance.ReplyOn
	subdenom string
}

// parked is a reply-tracked request that was accepted by the registry.
type parked struct {
	pending  *registry.Pending
	replyID  uint64
	replyOn  issuance.ReplyOn
	subdenom string
}

// NewHost creates a host for the controller at config.Address.
func NewHost(config Config) (*Host, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if config.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	controller, err := issuance.NewController(config.Address, config.Registry)
	if err != nil {
		return nil, err
	}

	replyTimeout := config.ReplyTimeout
	if replyTimeout <= 0 {
		replyTimeout = shared.DefaultReplyTimeout
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	host := &Host{
		store:        config.Store,
		registry:     config.Registry,
		controller:   controller,
		replyTimeout: replyTimeout,
		logger:       logger.With().Str("component", "runtime").Str("controller", controller.Address()).Logger(),
		pending:      map[uint64]*pendingTx{},
		closed:       make(chan struct{}),
	}
	if bank, ok := config.Registry.(registry.Bank); ok {
		host.bank = bank
	}
	return host, nil
}

// Address returns the controller's address.
func (host *Host) Address() string {
	return host.controller.Address()
}

// Instantiate runs the controller's instantiation and sends the denomination
// request. The returned Tx completes when the registry reply is applied.
func (host *Host) Instantiate(
	ctx context.Context,
	info issuance.MessageInfo,
	msg issuance.InstantiateMsg,
) (*Tx, error) {
	return host.begin(ctx, issuance.ActionInstantiate, info, func(store kvstore.Store) (issuance.Response, error) {
		if host.provisioning {
			return issuance.Response{}, ErrAlreadyInstantiated
		}
		_, err := host.controller.Config(ctx, store)
		if err == nil {
			return issuance.Response{}, ErrAlreadyInstantiated
		}
		if !errors.Is(err, kvstore.ErrNotFound) {
			return issuance.Response{}, err
		}
		return host.controller.Instantiate(ctx, store, info, msg)
	})
}

// Execute runs a mint or burn and waits for the transaction to complete.
func (host *Host) Execute(
	ctx context.Context,
	info issuance.MessageInfo,
	msg issuance.ExecuteMsg,
) (issuance.Response, error) {
	action := issuance.ActionMint
	if msg.Burn != nil {
		action = issuance.ActionBurn
	}

	tx, err := host.begin(ctx, action, info, func(store kvstore.Store) (issuance.Response, error) {
		return host.controller.Execute(ctx, store, info, msg)
	})
	if err != nil {
		return issuance.Response{}, err
	}
	result, err := tx.Wait(ctx)
	if err != nil {
		return issuance.Response{}, err
	}
	return result.Response, result.Err
}

// Config returns the committed controller configuration.
func (host *Host) Config(ctx context.Context) (issuance.ConfigResponse, error) {
	host.mu.Lock()
	defer host.mu.Unlock()
	return host.controller.Config(ctx, host.store)
}

// Pending returns the number of transactions waiting for a registry reply.
func (host *Host) Pending() int {
	host.mu.Lock()
	defer host.mu.Unlock()
	return len(host.pending)
}

// Close fails every parked transaction. Later replies are dropped.
func (host *Host) Close() {
	host.closeOnce.Do(func() {
		close(host.closed)
	})
}

func (host *Host) begin(
	ctx context.Context,
	action string,
	info issuance.MessageInfo,
	entry func(store kvstore.Store) (issuance.Response, error),
) (*Tx, error) {
	select {
	case <-host.closed:
		return nil, ErrHostClosed
	default:
	}

	host.mu.Lock()
	defer host.mu.Unlock()

	tx := newTx(action)
	logger := host.logger.With().Str("tx", tx.ID).Str("action", action).Logger()
	cache := kvstore.NewCache(host.store)

	response, err := entry(cache)
	if err != nil {
		cache.Discard()
		logger.Debug().Err(err).Msg("entry point rejected")
		return nil, err
	}

	// Funds only need to be in place once registry instructions run.
	if err := host.moveFunds(ctx, info); err != nil {
		cache.Discard()
		logger.Debug().Err(err).Msg("attached funds not moved")
		return nil, err
	}

	park, err := host.dispatch(ctx, response.Messages)
	if err != nil {
		host.rollback(ctx, cache, info, logger)
		logger.Warn().Err(err).Msg("dispatch failed")
		return nil, err
	}

	if park != nil {
		host.nextSequence++
		sequence := host.nextSequence
		host.pending[sequence] = &pendingTx{
			tx:       tx,
			cache:    cache,
			info:     info,
			response: response,
			replyID:  park.replyID,
			replyOn:  park.replyOn,
			subdenom: park.subdenom,
		}
		host.provisioning = true
		logger.Info().Uint64("sequence", sequence).Str("subdenom", park.subdenom).Msg("awaiting registry reply")
		go host.await(sequence, park.pending)
		return tx, nil
	}

	if err := cache.Commit(ctx); err != nil {
		host.refund(ctx, info, logger)
		return nil, err
	}
	logger.Info().Int("messages", len(response.Messages)).Msg("transaction committed")
	tx.finish(Result{Response: response})
	return tx, nil
}

// dispatch sends every outbound instruction to the registry, in order.
func (host *Host) dispatch(ctx context.Context, messages []issuance.SubMsg) (*parked, error) {
	var park *parked
	owner := host.controller.Address()

	for _, message := range messages {
		tracked := message.ReplyOn != issuance.ReplyNever
		if tracked {
			if park != nil {
				return nil, ErrMultipleReplies
			}
			if _, ok := message.Msg.(issuance.CreateDenomMsg); !ok {
				return nil, DispatchError{Kind: messageKind(message.Msg), Err: fmt.Errorf("message does not produce a reply")}
			}
		}

		switch msg := message.Msg.(type) {
		case issuance.CreateDenomMsg:
			pending, err := host.registry.RequestCreateDenomination(ctx, owner, msg.Subdenom)
			if err != nil {
				return nil, ProvisioningError{Subdenom: msg.Subdenom, Err: err}
			}
			if tracked {
				park = &parked{
					pending:  pending,
					replyID:  message.ID,
					replyOn:  message.ReplyOn,
					subdenom: msg.Subdenom,
				}
			}
		case issuance.MintTokensMsg:
			if err := host.registry.RequestMint(ctx, owner, msg.Denom, msg.Amount, msg.Receiver); err != nil {
				return nil, DispatchError{Kind: msg.Kind(), Err: err}
			}
		case issuance.BurnTokensMsg:
			if err := host.registry.RequestBurn(ctx, owner, msg.Denom, msg.Amount); err != nil {
				return nil, DispatchError{Kind: msg.Kind(), Err: err}
			}
		default:
			return nil, DispatchError{Kind: messageKind(message.Msg), Err: fmt.Errorf("unsupported message")}
		}
	}
	return park, nil
}

func messageKind(msg issuance.RegistryMsg) string {
	if msg == nil {
		return "empty"
	}
	return msg.Kind()
}

func (host *Host) await(sequence uint64, pending *registry.Pending) {
	timer := time.NewTimer(host.replyTimeout)
	defer timer.Stop()

	select {
	case <-pending.Done():
		outcome, _ := pending.Wait(context.Background())
		host.deliver(sequence, outcome)
	case <-timer.C:
		host.evict(sequence, ErrReplyTimeout)
	case <-host.closed:
		host.evict(sequence, ErrHostClosed)
	}
}

// deliver applies a registry outcome to its parked transaction.
func (host *Host) deliver(sequence uint64, outcome registry.Outcome) {
	ctx := context.Background()

	host.mu.Lock()
	defer host.mu.Unlock()

	entry, ok := host.pending[sequence]
	if !ok {
		return
	}
	delete(host.pending, sequence)
	host.provisioning = false
	logger := host.logger.With().Str("tx", entry.tx.ID).Uint64("sequence", sequence).Logger()

	if !entry.replyOn.Expects(outcome.Succeeded()) {
		if !outcome.Succeeded() {
			host.fail(ctx, entry, ProvisioningError{Subdenom: entry.subdenom, Err: outcome.Err}, logger)
			return
		}
		host.complete(ctx, entry, nil, logger)
		return
	}

	reply, err := host.controller.Reply(ctx, entry.cache, issuance.Reply{
		ID:    entry.replyID,
		Denom: outcome.Denom,
		Err:   outcome.Err,
	})
	if err != nil {
		host.fail(ctx, entry, err, logger)
		return
	}
	host.complete(ctx, entry, &reply, logger)
}

func (host *Host) evict(sequence uint64, cause error) {
	ctx := context.Background()

	host.mu.Lock()
	defer host.mu.Unlock()

	entry, ok := host.pending[sequence]
	if !ok {
		return
	}
	delete(host.pending, sequence)
	host.provisioning = false
	logger := host.logger.With().Str("tx", entry.tx.ID).Uint64("sequence", sequence).Logger()
	host.fail(ctx, entry, ProvisioningError{Subdenom: entry.subdenom, Err: cause}, logger)
}

func (host *Host) complete(ctx context.Context, entry *pendingTx, reply *issuance.Response, logger zerolog.Logger) {
	if err := entry.cache.Commit(ctx); err != nil {
		host.fail(ctx, entry, err, logger)
		return
	}
	logger.Info().Msg("transaction committed after reply")
	entry.tx.finish(Result{Response: entry.response, Reply: reply})
}

func (host *Host) fail(ctx context.Context, entry *pendingTx, err error, logger zerolog.Logger) {
	host.rollback(ctx, entry.cache, entry.info, logger)
	logger.Warn().Err(err).Msg("transaction rolled back")
	entry.tx.finish(Result{Response: entry.response, Err: err})
}

func (host *Host) moveFunds(ctx context.Context, info issuance.MessageInfo) error {
	if len(info.Funds) == 0 {
		return nil
	}
	if host.bank == nil {
		host.logger.Debug().Str("sender", info.Sender).Msg("registry has no bank; funds are settled out of band")
		return nil
	}
	if strings.TrimSpace(info.Sender) == "" {
		return fmt.Errorf("sender is required when funds are attached")
	}
	if err := host.bank.Transfer(ctx, info.Sender, host.controller.Address(), info.Funds); err != nil {
		return fmt.Errorf("failed to move attached funds: %w", err)
	}
	return nil
}

func (host *Host) rollback(ctx context.Context, cache *kvstore.Cache, info issuance.MessageInfo, logger zerolog.Logger) {
	cache.Discard()
	host.refund(ctx, info, logger)
}

func (host *Host) refund(ctx context.Context, info issuance.MessageInfo, logger zerolog.Logger) {
	if len(info.Funds) == 0 || host.bank == nil {
		return
	}
	if err := host.bank.Transfer(ctx, host.controller.Address(), info.Sender, info.Funds); err != nil {
		logger.Error().Err(err).Str("sender", info.Sender).Msg("failed to refund attached funds")
	}
}
