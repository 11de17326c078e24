package hooks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashgraph-online/issuance-sdk-go/pkg/kvstore"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/shared"
)

var (
	configItem  = kvstore.NewItem[Config]("config")
	answersItem = kvstore.NewItem[[]ResponseHookSuccess]("answers")
	errorsItem  = kvstore.NewItem[[]ResponseHookError]("errors")
)

type Aggregator struct {
	mu    sync.Mutex
	store kvstore.Store
}

// NewAggregator creates an aggregator persisting to store.
func NewAggregator(store kvstore.Store) *Aggregator {
	return &Aggregator{store: store}
}

// Instantiate records the runner allowed to report and starts both logs empty.
func (aggregator *Aggregator) Instantiate(ctx context.Context, _ MessageInfo, msg InstantiateMsg) error {
	puppeteer, err := shared.NormalizeEntityID(msg.PuppeteerAddr)
	if err != nil {
		return NewInvalidAddressError(msg.PuppeteerAddr)
	}

	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	_, exists, err := configItem.MayLoad(ctx, aggregator.store)
	if err != nil {
		return err
	}
	if exists {
		return AlreadyInstantiatedError{HooksError: HooksError{Message: "hook aggregator is already instantiated"}}
	}

	cache := kvstore.NewCache(aggregator.store)
	if err := configItem.Save(ctx, cache, Config{PuppeteerAddr: puppeteer}); err != nil {
		return err
	}
	if err := answersItem.Save(ctx, cache, []ResponseHookSuccess{}); err != nil {
		return err
	}
	if err := errorsItem.Save(ctx, cache, []ResponseHookError{}); err != nil {
		return err
	}
	return cache.Commit(ctx)
}

// RecordSuccess appends record to the success log.
func (aggregator *Aggregator) RecordSuccess(ctx context.Context, info MessageInfo, record ResponseHookSuccess) error {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	if err := aggregator.authorize(ctx, info); err != nil {
		return err
	}
	answers, err := answersItem.Load(ctx, aggregator.store)
	if err != nil {
		return err
	}
	return answersItem.Save(ctx, aggregator.store, append(answers, record))
}

// RecordError appends record to the error log.
func (aggregator *Aggregator) RecordError(ctx context.Context, info MessageInfo, record ResponseHookError) error {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	if err := aggregator.authorize(ctx, info); err != nil {
		return err
	}
	failures, err := errorsItem.Load(ctx, aggregator.store)
	if err != nil {
		return err
	}
	return errorsItem.Save(ctx, aggregator.store, append(failures, record))
}

// Config returns the configured runner.
func (aggregator *Aggregator) Config(ctx context.Context) (Config, error) {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()
	return configItem.Load(ctx, aggregator.store)
}

// Answers returns the full success log in arrival order.
func (aggregator *Aggregator) Answers(ctx context.Context) ([]ResponseHookSuccess, error) {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()
	return answersItem.Load(ctx, aggregator.store)
}

// Errors returns the full error log in arrival order.
func (aggregator *Aggregator) Errors(ctx context.Context) ([]ResponseHookError, error) {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()
	return errorsItem.Load(ctx, aggregator.store)
}

func (aggregator *Aggregator) AnswersPage(ctx context.Context, page Page) (PageResult[ResponseHookSuccess], error) {
	answers, err := aggregator.Answers(ctx)
	if err != nil {
		return PageResult[ResponseHookSuccess]{}, err
	}
	return paginate(answers, page), nil
}

func (aggregator *Aggregator) ErrorsPage(ctx context.Context, page Page) (PageResult[ResponseHookError], error) {
	failures, err := aggregator.Errors(ctx)
	if err != nil {
		return PageResult[ResponseHookError]{}, err
	}
	return paginate(failures, page), nil
}

func (aggregator *Aggregator) authorize(ctx context.Context, info MessageInfo) error {
	config, err := configItem.Load(ctx, aggregator.store)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return fmt.Errorf("hook aggregator is not instantiated: %w", err)
		}
		return err
	}
	sender, err := shared.NormalizeEntityID(info.Sender)
	if err != nil || sender != config.PuppeteerAddr {
		return NewUnauthorizedError(info.Sender)
	}
	return nil
}

func paginate[T any](items []T, page Page) PageResult[T] {
	limit := page.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	total := uint64(len(items))
	start := page.After
	if start > total {
		start = total
	}
	end := start + uint64(limit)
	if end > total {
		end = total
	}

	result := PageResult[T]{
		Items:      append([]T{}, items[start:end]...),
		NextCursor: end,
		HasMore:    end < total,
	}
	return result
}
