package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderDetailKey(t *testing.T) {
	assert.Equal(t, "order_detail:42", orderDetailKey(42))
}

func TestInitialize_RejectsBadURL(t *testing.T) {
	_, err := Initialize(context.Background(), "not a url", time.Minute)
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}

func TestInitialize_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Initialize(ctx, "redis://127.0.0.1:1/0", time.Minute)
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
