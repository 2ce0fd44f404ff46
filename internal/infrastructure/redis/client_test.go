package redis

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()), zerolog.Nop())
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url", zerolog.Nop())
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	old := pingAttempts
	pingAttempts = 2
	t.Cleanup(func() { pingAttempts = old })

	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close() // close before attempting to connect

	var logs bytes.Buffer
	_, err := NewClient(context.Background(), url, zerolog.New(&logs))
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}

	if got := strings.Count(logs.String(), "redis not reachable"); got != 2 {
		t.Fatalf("expected 2 ping attempts to be logged, got %d", got)
	}
}
