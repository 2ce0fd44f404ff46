package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/societyledger/internal/domain"
)

// ChangeNotifier implements usecase.ChangeNotifier over Redis pub/sub.
// Each collection has its own channel.
type ChangeNotifier struct {
	client redis.UniversalClient
	prefix string
	logger zerolog.Logger
}

// NewChangeNotifier creates a new ChangeNotifier.
func NewChangeNotifier(client redis.UniversalClient, logger zerolog.Logger) *ChangeNotifier {
	return &ChangeNotifier{
		client: client,
		prefix: "societyledger:changes:",
		logger: logger.With().Str("component", "change_notifier").Logger(),
	}
}

func (n *ChangeNotifier) channel(collection string) string {
	return n.prefix + collection
}

// Publish broadcasts an event to subscribers of its collection.
func (n *ChangeNotifier) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}

	if err := n.client.Publish(ctx, n.channel(event.Collection), payload).Err(); err != nil {
		return fmt.Errorf("%w: publish change event: %v", domain.ErrRemoteFailure, err)
	}
	return nil
}

// Subscribe delivers events of one collection to onChange, one at a time, until
// unsubscribed or ctx is done. It returns once the subscription is active.
func (n *ChangeNotifier) Subscribe(ctx context.Context, collection string, onChange func(domain.ChangeEvent)) (func(), error) {
	ps := n.client.Subscribe(ctx, n.channel(collection))

	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("%w: subscribe %s: %v", domain.ErrRemoteFailure, collection, err)
	}

	var (
		once sync.Once
		done = make(chan struct{})
	)
	stop := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}

	go func() {
		defer stop()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					n.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed change event")
					continue
				}
				onChange(event)
			}
		}
	}()

	return stop, nil
}
