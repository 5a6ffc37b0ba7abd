package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(ClientConfig{
		Host:        "ch",
		Port:        9000,
		Database:    "finsignal",
		User:        "u",
		Password:    "p",
		DialTimeout: 5 * time.Second,
		MaxExecTime: 30 * time.Second,
	})
	assert.Equal(t, "clickhouse://u:p@ch:9000/finsignal?dial_timeout=5s&max_execution_time=30", dsn)
}

func TestBuildDSN_HTTP(t *testing.T) {
	dsn := BuildDSN(ClientConfig{Host: "ch", Port: 8123, Database: "db", User: "default", UseHTTP: true})
	assert.Equal(t, "http://default:@ch:8123/db", dsn)
}

func TestNewClient_RequiresHost(t *testing.T) {
	_, err := NewClient(context.Background())
	require.Error(t, err)
}
