package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/kvstore"
	"github.com/hashgraph-online/issuance-sdk-go/pkg/shared"
)

// MaxSnapshotSize caps the decompressed size ReadSnapshot accepts.
const MaxSnapshotSize = 64 << 20

// WriteSnapshot writes the aggregator state to w as brotli-compressed JSON.
func (aggregator *Aggregator) WriteSnapshot(ctx context.Context, w io.Writer) error {
	aggregator.mu.Lock()
	snapshot, err := aggregator.snapshot(ctx)
	aggregator.mu.Unlock()
	if err != nil {
		return err
	}

	compressor := brotli.NewWriterLevel(w, brotli.DefaultCompression)
	if err := json.NewEncoder(compressor).Encode(snapshot); err != nil {
		_ = compressor.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("failed to compress snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot produced by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	decompressed, err := io.ReadAll(io.LimitReader(brotli.NewReader(r), MaxSnapshotSize+1))
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	if len(decompressed) > MaxSnapshotSize {
		return Snapshot{}, fmt.Errorf("snapshot exceeds %d bytes once decompressed", MaxSnapshotSize)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(decompressed, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot.Answers == nil {
		snapshot.Answers = []ResponseHookSuccess{}
	}
	if snapshot.Errors == nil {
		snapshot.Errors = []ResponseHookError{}
	}
	return snapshot, nil
}

// Restore loads snapshot into an aggregator that was never instantiated.
func (aggregator *Aggregator) Restore(ctx context.Context, snapshot Snapshot) error {
	puppeteer, err := shared.NormalizeEntityID(snapshot.Config.PuppeteerAddr)
	if err != nil {
		return NewInvalidAddressError(snapshot.Config.PuppeteerAddr)
	}

	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	_, exists, err := configItem.MayLoad(ctx, aggregator.store)
	if err != nil {
		return err
	}
	if exists {
		return AlreadyInstantiatedError{HooksError: HooksError{Message: "hook aggregator is already instantiated; restore needs an empty store"}}
	}

	cache := kvstore.NewCache(aggregator.store)
	if err := configItem.Save(ctx, cache, Config{PuppeteerAddr: puppeteer}); err != nil {
		return err
	}
	answers := snapshot.Answers
	if answers == nil {
		answers = []ResponseHookSuccess{}
	}
	if err := answersItem.Save(ctx, cache, answers); err != nil {
		return err
	}
	failures := snapshot.Errors
	if failures == nil {
		failures = []ResponseHookError{}
	}
	if err := errorsItem.Save(ctx, cache, failures); err != nil {
		return err
	}
	return cache.Commit(ctx)
}

func (aggregator *Aggregator) snapshot(ctx context.Context) (Snapshot, error) {
	config, err := configItem.Load(ctx, aggregator.store)
	if err != nil {
		return Snapshot{}, err
	}
	answers, err := answersItem.Load(ctx, aggregator.store)
	if err != nil {
		return Snapshot{}, err
	}
	failures, err := errorsItem.Load(ctx, aggregator.store)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Config: config, Answers: answers, Errors: failures}, nil
}
