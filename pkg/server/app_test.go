package server

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func TestShutdown_ClosesInReverseOrder(t *testing.T) {
	var order []string
	a := New(nil, nil, 0)
	a.AddCloser("clickhouse", closeFunc(func() error { order = append(order, "clickhouse"); return nil }))
	a.AddCloser("cache", closeFunc(func() error { order = append(order, "cache"); return errors.New("boom") }))
	a.AddCloser("publisher", closeFunc(func() error { order = append(order, "publisher"); return nil }))
	a.AddCloser("nil", nil)

	err := a.Shutdown(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"publisher", "cache", "clickhouse"}, order)
}

func TestStart_NothingAttached(t *testing.T) {
	a := New(nil, nil, 0)
	assert.NoError(t, a.Start())
	assert.NoError(t, a.Shutdown(context.Background()))
}
