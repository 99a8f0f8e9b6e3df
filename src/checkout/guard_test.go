package checkout

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/payments"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGuard()

	replay, err := g.Begin(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, replay)

	_, err = g.Begin(ctx, "k1")
	assert.ErrorIs(t, err, ErrAlreadyInitializing)

	r := &InitResult{PurchaseID: "p1"}
	require.NoError(t, g.Finish(ctx, "k1", r))
	replay, err = g.Begin(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "p1", replay.PurchaseID)

	_, err = g.Begin(ctx, "k2")
	require.NoError(t, err)
	require.NoError(t, g.Release(ctx, "k2"))
	replay, err = g.Begin(ctx, "k2")
	require.NoError(t, err)
	assert.Nil(t, replay)
}

func (g *MemoryGuard) size() int {
	n := 0
	g.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func TestMemoryGuardExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewMemoryGuard()
	g.now = func() time.Time { return now }

	_, err := g.Begin(ctx, "stuck")
	require.NoError(t, err)
	_, err = g.Begin(ctx, "done")
	require.NoError(t, err)
	require.NoError(t, g.Finish(ctx, "done", &InitResult{PurchaseID: "p1"}))
	assert.Equal(t, 2, g.size())

	now = now.Add(guardTTL - time.Second)
	_, err = g.Begin(ctx, "stuck")
	assert.ErrorIs(t, err, ErrAlreadyInitializing)

	now = now.Add(2 * time.Second)
	replay, err := g.Begin(ctx, "stuck")
	require.NoError(t, err)
	assert.Nil(t, replay)

	now = now.Add(guardTTL)
	_, err = g.Begin(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 1, g.size())

	replay, err = g.Begin(ctx, "done")
	require.NoError(t, err)
	assert.Nil(t, replay)
}

func TestRedisGuard(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	g := NewRedisGuard(rdb)
	key := guardKey("abc")

	mock.ExpectSetNX(key, guardPending, guardTTL).SetVal(true)
	replay, err := g.Begin(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, replay)

	mock.ExpectSetNX(key, guardPending, guardTTL).SetVal(false)
	mock.ExpectGet(key).SetVal(guardPending)
	_, err = g.Begin(ctx, "abc")
	assert.ErrorIs(t, err, ErrAlreadyInitializing)

	r := &InitResult{PurchaseID: "p1", PaymentIntent: &payments.Intent{ID: "pi_1"}}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	mock.ExpectSet(key, b, guardTTL).SetVal("OK")
	require.NoError(t, g.Finish(ctx, "abc", r))

	mock.ExpectSetNX(key, guardPending, guardTTL).SetVal(false)
	mock.ExpectGet(key).SetVal(string(b))
	replay, err = g.Begin(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, "p1", replay.PurchaseID)
	assert.Equal(t, "pi_1", replay.PaymentIntent.ID)

	mock.ExpectDel(key).SetVal(1)
	require.NoError(t, g.Release(ctx, "abc"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
