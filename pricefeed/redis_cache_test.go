package pricefeed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/kydenul/bos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQuoteTTL = time.Minute

func TestRedisCache_Quote(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		mockSetup func(mock redismock.ClientMock)
		wantCents uint64
		wantCalls int
		wantHits  int64
	}{
		{
			name: "miss fetches and stores",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectGet("bos:price:EUR").RedisNil()
				mock.Regexp().ExpectSet(`bos:price:EUR`, `.*`, testQuoteTTL).SetVal("OK")
			},
			wantCents: 9_649_600,
			wantCalls: 1,
		},
		{
			name: "hit skips upstream",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectGet("bos:price:EUR").SetVal(`{"currency":"EUR","cents":5000000,"source":"http"}`)
			},
			wantCents: 5_000_000,
			wantCalls: 0,
			wantHits:  1,
		},
		{
			name: "corrupt entry is replaced",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectGet("bos:price:EUR").SetVal(`not json`)
				mock.Regexp().ExpectSet(`bos:price:EUR`, `.*`, testQuoteTTL).SetVal("OK")
			},
			wantCents: 9_649_600,
			wantCalls: 1,
		},
		{
			name: "zero entry is replaced",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectGet("bos:price:EUR").SetVal(`{"currency":"EUR","cents":0}`)
				mock.Regexp().ExpectSet(`bos:price:EUR`, `.*`, testQuoteTTL).SetVal("OK")
			},
			wantCents: 9_649_600,
			wantCalls: 1,
		},
		{
			name: "redis failures degrade to upstream",
			mockSetup: func(mock redismock.ClientMock) {
				mock.ExpectGet("bos:price:EUR").SetErr(errors.New("ERR unknown command"))
				mock.Regexp().ExpectSet(`bos:price:EUR`, `.*`, testQuoteTTL).SetErr(errors.New("READONLY replica"))
			},
			wantCents: 9_649_600,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			defer db.Close()
			tt.mockSetup(mock)

			calls := 0
			monitor := bos.NewPerformanceMonitor()
			cache := NewRedisCacheWithRetry(countingSource(&calls, 9_649_600), db, testQuoteTTL,
				bos.NewSilentLogger(), 0, time.Millisecond)
			cache.SetMonitor(monitor)

			quote, err := cache.Quote(ctx, "eur")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, quote.Cents)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantHits, monitor.GetMetrics().PriceCacheHits)

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestRedisCache_RetriesTransientErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	mock.ExpectGet("bos:price:EUR").SetErr(errors.New("dial tcp 127.0.0.1:6379: connection refused"))
	mock.ExpectGet("bos:price:EUR").SetVal(`{"currency":"EUR","cents":123}`)

	calls := 0
	cache := NewRedisCacheWithRetry(countingSource(&calls, 1), db, testQuoteTTL, nil, 2, time.Millisecond)

	quote, err := cache.Quote(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, uint64(123), quote.Cents)
	assert.Zero(t, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_UpstreamErrorIsReturned(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	mock.ExpectGet("bos:price:EUR").RedisNil()

	calls := 0
	cache := NewRedisCacheWithRetry(failingSource(&calls), db, testQuoteTTL, nil, 0, time.Millisecond)

	_, err := cache.Quote(context.Background(), "EUR")
	assert.ErrorIs(t, err, bos.ErrFeedUnavailable)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Invalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	mock.ExpectDel("bos:price:USD").SetVal(1)

	cache := NewRedisCache(nil, db, testQuoteTTL, nil)
	require.NoError(t, cache.Invalidate(context.Background(), "usd"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
