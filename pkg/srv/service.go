package srv

import (
	"context"
	"errors"

	"github.com/sandevgo/chatmtl/pkg/log"
)

// ErrStopped is returned from Start by a service that wants the whole
// process to shut down, e.g. when the user quits the terminal chat.
var ErrStopped = errors.New("service stopped")

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices starts every service in its own goroutine. A service whose
// Start fails or returns ErrStopped triggers stop.
func StartServices(ctx context.Context, stop context.CancelFunc, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			err := service.Start(ctx)
			switch {
			case err == nil:
				return
			case errors.Is(err, ErrStopped):
				logger.Info().Msgf("%T requested shutdown", service)
			case errors.Is(err, context.Canceled):
				return
			default:
				logger.Error().Err(err).Msgf("%T failed", service)
			}
			stop()
		}(service)
	}
}

// ShutdownServices waits for ctx to be done and shuts services down in
// reverse registration order, so cleanups registered first run last.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()
	shutdownCtx := context.WithoutCancel(ctx)
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
