package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolOptions_WithDefaults(t *testing.T) {
	got := PoolOptions{}.withDefaults()
	assert.Equal(t, int32(DefaultMaxConns), got.MaxConns)
	assert.Equal(t, int32(DefaultMinConns), got.MinConns)
	assert.Equal(t, DefaultMaxConnIdleTime, got.MaxConnIdleTime)
}

func TestPoolOptions_KeepsExplicitValues(t *testing.T) {
	got := PoolOptions{MaxConns: 4, MinConns: 3, MaxConnIdleTime: time.Minute}.withDefaults()
	assert.Equal(t, PoolOptions{MaxConns: 4, MinConns: 3, MaxConnIdleTime: time.Minute}, got)
}

func TestPoolOptions_MinNeverExceedsMax(t *testing.T) {
	got := PoolOptions{MaxConns: 1}.withDefaults()
	assert.Equal(t, int32(1), got.MaxConns)
	assert.Equal(t, int32(1), got.MinConns)
}
