package cmd

import (
	"context"
	"net/http"
	"net/http/pprof"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
)

// Start an admin server exposing metrics and profiling endpoints if the
// metrics-addr flag is set. The server is shut down when ctx is done.
func startMetricsServer(ctx context.Context, cliCtx *cli.Context) {
	addr := cliCtx.GlobalString("metrics-addr")
	if addr == "" {
		return
	}

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)

	s := &http.Server{Addr: addr, Handler: &admin}
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Warning(errors.Newf("shutting down the metrics server failed").
				WithTag("addr", s.Addr).
				Wrap(err))
		}
	}()

	go func() {
		logger.Infof("serving metrics on %s", s.Addr)
		switch err := s.ListenAndServe(); err {
		case nil, http.ErrServerClosed:
			logger.Infof("stopped metrics server on %s", s.Addr)
		default:
			logger.Warning(errors.Newf("metrics server stopped").
				WithTag("addr", s.Addr).
				Wrap(err))
		}
	}()
}
