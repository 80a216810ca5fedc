package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthService is the name reported on the gRPC health endpoint.
const HealthService = "flightdesk.BookingEngine"

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer   *grpc.Server
	healthServer *health.Server
	httpServer   *http.Server
}

// Run starts the gRPC health server and the HTTP API and blocks until the context
// is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := newServers(cfg, handler)

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()
	logger.Info("grpc server started", zap.String("address", cfg.GRPC.Address))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		logger.Error("server failed, stopping", zap.Error(err))
		if cerr := s.abort(); cerr != nil {
			logger.Warn("close http server", zap.Error(cerr))
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return s.shutdown()
	}
}

func newServers(cfg *config.Config, handler http.Handler) *Servers {
	grpcSrv := grpc.NewServer()

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(HealthService, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Servers{
		grpcServer:   grpcSrv,
		healthServer: healthSrv,
		httpServer:   httpSrv,
	}
}

// shutdown flips health to NOT_SERVING before draining both servers.
func (s *Servers) shutdown() error {
	s.healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// abort stops both servers without draining, used when one of them has already failed.
func (s *Servers) abort() error {
	s.healthServer.Shutdown()
	s.grpcServer.Stop()
	return s.httpServer.Close()
}
