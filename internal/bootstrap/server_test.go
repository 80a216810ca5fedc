package bootstrap

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestNewServers(t *testing.T) {
	cfg := config.Default()
	handler := http.NewServeMux()

	s := newServers(&cfg, handler)

	require.NotNil(t, s.grpcServer)
	assert.Equal(t, ":8080", s.httpServer.Addr)
	assert.Equal(t, handler, s.httpServer.Handler)

	resp, err := s.healthServer.Check(context.Background(), &healthpb.HealthCheckRequest{Service: HealthService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestShutdownMarksNotServing(t *testing.T) {
	cfg := config.Default()
	s := newServers(&cfg, http.NewServeMux())

	require.NoError(t, s.shutdown())

	resp, err := s.healthServer.Check(context.Background(), &healthpb.HealthCheckRequest{Service: HealthService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestAbortClosesHTTPServer(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Address = "127.0.0.1:0"
	s := newServers(&cfg, http.NewServeMux())

	require.NoError(t, s.abort())

	assert.ErrorIs(t, s.httpServer.ListenAndServe(), http.ErrServerClosed)
	resp, err := s.healthServer.Check(context.Background(), &healthpb.HealthCheckRequest{Service: HealthService})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestRunReturnsServerFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := config.Default()
	cfg.GRPC.Address = "127.0.0.1:0"
	cfg.HTTP.Address = busy.Addr().String()

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), &cfg, http.NewServeMux(), nil) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the HTTP listener failed")
	}
}
