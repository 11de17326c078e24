package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hashgraph-online/issuance-sdk-go/pkg/kvstore"
)

const (
	puppeteerAddress = "0.0.4004"
	strangerAddress  = "0.0.6006"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	aggregator := NewAggregator(kvstore.NewMemory())
	if err := aggregator.Instantiate(context.Background(), MessageInfo{}, InstantiateMsg{
		PuppeteerAddr: puppeteerAddress,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return aggregator
}

func success(requestID uint64) ResponseHookSuccess {
	return ResponseHookSuccess{
		RequestID:    requestID,
		Transaction:  "delegate",
		Payload:      json.RawMessage(`{"amount":"10"}`),
		LocalHeight:  100 + requestID,
		RemoteHeight: 200 + requestID,
	}
}

func TestInstantiateStartsEmpty(t *testing.T) {
	aggregator := newTestAggregator(t)
	ctx := context.Background()

	answers, err := aggregator.Answers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	failures, err := aggregator.Errors(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 0 || len(failures) != 0 {
		t.Fatalf("expected empty logs, got %d answers and %d errors", len(answers), len(failures))
	}
	config, err := aggregator.Config(ctx)
	if err != nil || config.PuppeteerAddr != puppeteerAddress {
		t.Fatalf("unexpected config %+v (%v)", config, err)
	}
}

func TestInstantiateValidation(t *testing.T) {
	aggregator := NewAggregator(kvstore.NewMemory())
	err := aggregator.Instantiate(context.Background(), MessageInfo{}, InstantiateMsg{PuppeteerAddr: "runner"})
	var invalid InvalidAddressError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidAddressError, got %v", err)
	}

	aggregator = newTestAggregator(t)
	err = aggregator.Instantiate(context.Background(), MessageInfo{}, InstantiateMsg{PuppeteerAddr: puppeteerAddress})
	var already AlreadyInstantiatedError
	if !errors.As(err, &already) {
		t.Fatalf("expected AlreadyInstantiatedError, got %v", err)
	}
}

func TestRecordsKeepArrivalOrder(t *testing.T) {
	aggregator := newTestAggregator(t)
	ctx := context.Background()
	runner := MessageInfo{Sender: puppeteerAddress}

	a := success(1)
	b := ResponseHookError{RequestID: 2, Transaction: "undelegate", Details: "timeout"}
	c := success(3)

	if err := aggregator.RecordSuccess(ctx, runner, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := aggregator.RecordError(ctx, runner, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := aggregator.RecordSuccess(ctx, runner, c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answers, err := aggregator.Answers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answers) != 2 || answers[0].RequestID != 1 || answers[1].RequestID != 3 {
		t.Fatalf("expected answers [a, c], got %+v", answers)
	}
	if string(answers[0].Payload) != `{"amount":"10"}` || answers[1].RemoteHeight != 203 {
		t.Fatalf("expected records to be stored as given, got %+v", answers)
	}

	failures, err := aggregator.Errors(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 1 || failures[0].Details != "timeout" {
		t.Fatalf("expected errors [b], got %+v", failures)
	}
}

func TestRecordRequiresRunner(t *testing.T) {
	aggregator := newTestAggregator(t)
	ctx := context.Background()

	for _, sender := range []string{strangerAddress, "", "runner"} {
		err := aggregator.RecordSuccess(ctx, MessageInfo{Sender: sender}, success(1))
		var unauthorized UnauthorizedError
		if !errors.As(err, &unauthorized) {
			t.Fatalf("sender %q: expected UnauthorizedError, got %v", sender, err)
		}
		err = aggregator.RecordError(ctx, MessageInfo{Sender: sender}, ResponseHookError{RequestID: 1})
		if !errors.As(err, &unauthorized) {
			t.Fatalf("sender %q: expected UnauthorizedError, got %v", sender, err)
		}
	}

	answers, _ := aggregator.Answers(ctx)
	failures, _ := aggregator.Errors(ctx)
	if len(answers) != 0 || len(failures) != 0 {
		t.Fatal("expected rejected records to leave logs unchanged")
	}

	if err := aggregator.RecordSuccess(ctx, MessageInfo{Sender: puppeteerAddress + "-abcde"}, success(1)); err != nil {
		t.Fatalf("expected checksummed runner address to be accepted: %v", err)
	}
}

func TestRecordBeforeInstantiate(t *testing.T) {
	aggregator := NewAggregator(kvstore.NewMemory())
	err := aggregator.RecordSuccess(context.Background(), MessageInfo{Sender: puppeteerAddress}, success(1))
	if !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAnswersPage(t *testing.T) {
	aggregator := newTestAggregator(t)
	ctx := context.Background()
	for requestID := uint64(0); requestID < 7; requestID++ {
		if err := aggregator.RecordSuccess(ctx, MessageInfo{Sender: puppeteerAddress}, success(requestID)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	first, err := aggregator.AnswersPage(ctx, Page{Limit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Items) != 3 || first.Items[0].RequestID != 0 || !first.HasMore || first.NextCursor != 3 {
		t.Fatalf("unexpected first page: %+v", first)
	}

	last, err := aggregator.AnswersPage(ctx, Page{After: 6, Limit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Items) != 1 || last.Items[0].RequestID != 6 || last.HasMore || last.NextCursor != 7 {
		t.Fatalf("unexpected last page: %+v", last)
	}

	beyond, err := aggregator.AnswersPage(ctx, Page{After: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.HasMore {
		t.Fatalf("unexpected page past the end: %+v", beyond)
	}
}

func TestPaginateLimits(t *testing.T) {
	items := make([]int, 600)
	for index := range items {
		items[index] = index
	}

	defaults := paginate(items, Page{})
	if len(defaults.Items) != DefaultPageLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultPageLimit, len(defaults.Items))
	}
	capped := paginate(items, Page{Limit: 10000})
	if len(capped.Items) != MaxPageLimit || !capped.HasMore {
		t.Fatalf("expected capped page of %d, got %d", MaxPageLimit, len(capped.Items))
	}
}

func TestErrorsPage(t *testing.T) {
	aggregator := newTestAggregator(t)
	ctx := context.Background()
	for requestID := uint64(0); requestID < 2; requestID++ {
		if err := aggregator.RecordError(ctx, MessageInfo{Sender: puppeteerAddress}, ResponseHookError{RequestID: requestID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	page, err := aggregator.ErrorsPage(ctx, Page{After: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].RequestID != 1 || page.HasMore {
		t.Fatalf("unexpected page: %+v", page)
	}
}
