package platform

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"
)

// NewShutdownContext creates a context that is canceled on the platform's termination signals
func NewShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}

// Serve runs server until ctx is canceled, then drains in-flight requests for up to drainTimeout.
// It returns the first listener or shutdown error.
func Serve(ctx context.Context, server *http.Server, drainTimeout time.Duration) error {
	group, groupContext := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupContext.Done()

		shutdownContext, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		return server.Shutdown(shutdownContext)
	})

	return group.Wait()
}
