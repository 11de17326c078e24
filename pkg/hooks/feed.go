package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	socketio "github.com/zhouhui8915/go-socket.io-client"
)

const (
	EventHookSuccess = "hook-success"
	EventHookError   = "hook-error"
)

type FeedConfig struct {
	URL    string
	APIKey string
	Logger *zerolog.Logger
}

type eventSource interface {
	On(event string, handler any) error
}

type dialFunc func(url string, options *socketio.Options) (eventSource, error)

// Feed records a runner's hook events into an Aggregator.
type Feed struct {
	aggregator *Aggregator
	url        string
	apiKey     string
	logger     zerolog.Logger
	dial       dialFunc
}

// NewFeed creates a feed that forwards events from config.URL to aggregator.
func NewFeed(aggregator *Aggregator, config FeedConfig) (*Feed, error) {
	if aggregator == nil {
		return nil, fmt.Errorf("aggregator is required")
	}
	url := strings.TrimSpace(config.URL)
	if url == "" {
		return nil, fmt.Errorf("feed URL is required")
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Feed{
		aggregator: aggregator,
		url:        url,
		apiKey:     strings.TrimSpace(config.APIKey),
		logger:     logger.With().Str("component", "hooks-feed").Logger(),
		dial:       dialSocketIO,
	}, nil
}

func dialSocketIO(url string, options *socketio.Options) (eventSource, error) {
	client, err := socketio.NewClient(url, options)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type feedEvent struct {
	name    string
	payload map[string]any
}

// Run subscribes to the event stream and records events until ctx ends or
// the connection reports an error.
func (feed *Feed) Run(ctx context.Context) error {
	config, err := feed.aggregator.Config(ctx)
	if err != nil {
		return err
	}
	info := MessageInfo{Sender: config.PuppeteerAddr}

	options := &socketio.Options{
		Transport: "websocket",
		Query:     map[string]string{},
		Header:    map[string][]string{},
	}
	if feed.apiKey != "" {
		options.Query["apiKey"] = feed.apiKey
		options.Header["x-api-key"] = []string{feed.apiKey}
	}

	client, err := feed.dial(feed.url, options)
	if err != nil {
		return fmt.Errorf("failed to connect to hook feed: %w", err)
	}

	events := make(chan feedEvent, 16)
	errorChannel := make(chan string, 2)

	_ = client.On("error", func(message any) {
		select {
		case errorChannel <- fmt.Sprintf("%v", message):
		default:
		}
	})
	_ = client.On(EventHookSuccess, func(payload map[string]any) {
		select {
		case events <- feedEvent{name: EventHookSuccess, payload: payload}:
		case <-ctx.Done():
		}
	})
	_ = client.On(EventHookError, func(payload map[string]any) {
		select {
		case events <- feedEvent{name: EventHookError, payload: payload}:
		case <-ctx.Done():
		}
	})
	feed.logger.Info().Str("url", feed.url).Msg("subscribed to hook feed")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case message := <-errorChannel:
			return fmt.Errorf("hook feed error: %s", message)
		case event := <-events:
			if err := feed.record(ctx, info, event); err != nil {
				feed.logger.Warn().Err(err).Str("event", event.name).Msg("dropped hook event")
			}
		}
	}
}

func (feed *Feed) record(ctx context.Context, info MessageInfo, event feedEvent) error {
	raw, err := json.Marshal(event.payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event.name, err)
	}

	switch event.name {
	case EventHookSuccess:
		var record ResponseHookSuccess
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.name, err)
		}
		feed.logger.Debug().Uint64("request_id", record.RequestID).Msg("hook success")
		return feed.aggregator.RecordSuccess(ctx, info, record)
	case EventHookError:
		var record ResponseHookError
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.name, err)
		}
		feed.logger.Debug().Uint64("request_id", record.RequestID).Str("details", record.Details).Msg("hook error")
		return feed.aggregator.RecordError(ctx, info, record)
	default:
		return fmt.Errorf("unsupported hook event %q", event.name)
	}
}
