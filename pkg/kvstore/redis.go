package kvstore

import (
	"context"
	"fmt"

	pvredis "github.com/camachodev/puntoventa-backend/pkg/redis"
)

// Redis is a Store backed by a shared redis instance, letting terminal
// processes on different hosts share one origin. Values persist without TTL;
// carts survive process restarts the same way they survive browser restarts.
// Change signals ride a pub/sub channel carrying the bare key name.
type Redis struct {
	client *pvredis.Client
}

// NewRedis wraps an initialized redis client.
func NewRedis(client *pvredis.Client) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.client.StorageKey(key))
	if err != nil {
		if pvredis.IsNil(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kvstore get %q: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.client.StorageKey(key), value, 0); err != nil {
		return fmt.Errorf("kvstore set %q: %w", key, err)
	}
	// The write is durable before the signal goes out, so subscribers that
	// re-read on the event always observe the new value or a newer one.
	if err := r.client.Publish(ctx, r.client.StorageChannel(), key); err != nil {
		return fmt.Errorf("kvstore notify %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.client.StorageKey(key)); err != nil {
		return fmt.Errorf("kvstore delete %q: %w", key, err)
	}
	if err := r.client.Publish(ctx, r.client.StorageChannel(), key); err != nil {
		return fmt.Errorf("kvstore notify %q: %w", key, err)
	}
	return nil
}

func (r *Redis) Watch(ctx context.Context) (<-chan Event, error) {
	sub, err := r.client.Subscribe(ctx, r.client.StorageChannel())
	if err != nil {
		return nil, fmt.Errorf("kvstore watch: %w", err)
	}

	ch := make(chan Event, 64)
	go func() {
		defer close(ch)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case ch <- Event{Key: msg.Payload}:
				default:
				}
			}
		}
	}()
	return ch, nil
}
