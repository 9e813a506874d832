package api_test

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/apollo/internal/api"
)

func TestServerRunAndShutdown(t *testing.T) {
	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = 2 * time.Second

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	server := api.NewServer(handler, cfg, slog.New(slog.DiscardHandler))

	var shutdownHooks atomic.Int32
	server.OnShutdown(func() { shutdownHooks.Add(1) })

	require.NoError(t, server.Listen())
	assert.NotEqual(t, "127.0.0.1:0", server.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	resp, err := http.Get("http://" + server.Addr() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Eventually(t, func() bool { return shutdownHooks.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestServerListenFailsOnBusyPort(t *testing.T) {
	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	first := api.NewServer(http.NotFoundHandler(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, first.Listen())
	defer func() { _ = first.Shutdown(context.Background()) }()

	_, port, _ := strings.Cut(first.Addr(), ":")
	cfg.Port, _ = strconv.Atoi(port)
	second := api.NewServer(http.NotFoundHandler(), cfg, slog.New(slog.DiscardHandler))
	assert.Error(t, second.Listen())
}
