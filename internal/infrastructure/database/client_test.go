package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	tests := []struct {
		url, token, want string
	}{
		{"file:/tmp/polyx.db", "", "file:/tmp/polyx.db"},
		{"libsql://db.turso.io", "tok", "libsql://db.turso.io?authToken=tok"},
		{"libsql://db.turso.io?tls=1", "tok", "libsql://db.turso.io?tls=1&authToken=tok"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConnString(tt.url, tt.token))
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("libsql://db.turso.io"))
	assert.True(t, isRemote("https://db.turso.io"))
	assert.False(t, isRemote("file:/tmp/polyx.db"))
	assert.False(t, isRemote("file::memory:?cache=shared"))
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	got, err := WithRetry(ctx, 2, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("hrana: stream not found")
		}
		return 42, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)

	calls = 0
	_, err = WithRetry(ctx, 5, func() (int, error) {
		calls++
		return 0, errors.New("syntax error")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	_, err = WithRetry(ctx, 1, func() (int, error) {
		calls++
		return 0, errors.New("stream not found")
	})
	assert.True(t, IsStreamError(err))
	assert.Equal(t, 2, calls)
}
