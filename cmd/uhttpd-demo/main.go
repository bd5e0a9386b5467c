// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command uhttpd-demo runs a small demonstration server. It loads its
// settings from an optional configuration file plus UHTTPD_-prefixed
// environment variables, registers a handful of routes, and serves until
// interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rivaas.dev/uhttpd"
	"rivaas.dev/uhttpd/config"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or TOML configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger, *configPath); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath string) error {
	opts := []config.Option{config.WithEnv("UHTTPD_")}
	if configPath != "" {
		opts = append([]config.Option{config.WithFile(configPath)}, opts...)
	}
	settings, err := config.LoadSettings(opts...)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	serverOpts := append(settings.ServerOptions(),
		uhttpd.WithLogger(logger),
		uhttpd.WithMetrics(prometheus.DefaultRegisterer),
	)
	srv, err := uhttpd.New(serverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	registerRoutes(srv)

	if err := srv.Start(settings.Addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	printBanner(os.Stdout, srv)
	logger.Info("listening", "addr", srv.Addr().String())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func registerRoutes(srv *uhttpd.Server) {
	must(srv.Register("/", func(_ *uhttpd.Request, resp *uhttpd.ResponseWriter, _ uhttpd.Params) {
		resp.AddHeader("Content-Type", "text/plain")
		_ = resp.Send([]byte("uhttpd demo\n"))
	}))

	must(srv.Register("/hello/<name>", func(_ *uhttpd.Request, resp *uhttpd.ResponseWriter, params uhttpd.Params) {
		resp.AddHeader("Content-Type", "text/plain")
		_, _ = fmt.Fprintf(resp, "hello, %s\n", params.Get("name"))
	}))

	must(srv.Register("/echo", func(req *uhttpd.Request, resp *uhttpd.ResponseWriter, _ uhttpd.Params) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			resp.SetStatus(400)
			_ = resp.Send(nil)
			return
		}
		resp.AddHeader("Content-Type", "application/octet-stream")
		_ = resp.Send(body)
	}, uhttpd.WithMethods("POST")))

	must(srv.Register("/status", func(_ *uhttpd.Request, resp *uhttpd.ResponseWriter, _ uhttpd.Params) {
		resp.AddHeader("Content-Type", "application/json")
		_ = resp.Send([]byte(`{"status":"ok"}` + "\n"))
	}, uhttpd.WithMethods("GET", "HEAD")))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
