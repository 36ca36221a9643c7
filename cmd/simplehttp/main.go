// Command simplehttp serves files from a directory over HTTP/1.1,
// with an optional custom 404 page.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/joshmaker/simplehttp/httpd"
	"github.com/joshmaker/simplehttp/internal/obs"
)

var (
	addr     = flag.String("addr", ":8080", "listen address")
	dir      = flag.String("dir", ".", "directory to serve files from")
	page404  = flag.String("page404", "", "optional HTML file used for 404 responses")
	debug    = flag.Bool("debug", false, "log at debug level")
	graceSec = flag.Int("grace", 5, "shutdown grace period in seconds")
)

func main() {
	flag.Parse()

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if !*debug {
		zl = zl.Level(zerolog.InfoLevel)
	}

	var notFoundPage []byte
	if *page404 != "" {
		b, err := os.ReadFile(*page404)
		if err != nil {
			zl.Fatal().Err(err).Msg("read 404 page")
		}
		notFoundPage = b
	}

	rt := httpd.NewRouter()
	rt.NotFound = &httpd.FileServer{Root: *dir, NotFoundPage: notFoundPage}

	srv := &httpd.Server{
		Addr:              *addr,
		Handler:           rt,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		Logger:            obs.ZerologLogger{L: zl},
	}

	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		zl.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*graceSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			zl.Warn().Err(err).Msg("forced shutdown")
		}
		close(done)
	}()

	zl.Info().Msgf("serving %s on %s", *dir, *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, httpd.ErrServerClosed) {
		zl.Fatal().Err(err).Msg("server failed")
	}
	<-done
}
