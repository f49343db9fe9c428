package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/drunkard"
	"github.com/aretw0/drunkard/internal/cli"
	httpAdapter "github.com/aretw0/drunkard/pkg/adapters/http"
	"github.com/aretw0/drunkard/pkg/adapters/memory"
	"github.com/aretw0/drunkard/pkg/adapters/redis"
	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/aretw0/drunkard/pkg/observability"
	"github.com/aretw0/drunkard/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP simulation API",
	Long: `Serves sweeps, final locations and traces as a JSON API over HTTP, with
Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		cfg, err := loadExperiment(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		logger := newLogger(cmd)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		cache, err := newResultCache(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		handler := httpAdapter.NewHandler(httpAdapter.Config{
			Options: []drunkard.Option{
				drunkard.WithWorkers(cfg.Workers),
				drunkard.WithLifecycleHooks(domain.ChainHooks(metrics.Hooks(), cli.DebugHooks(logger))),
			},
			Logger:  logger,
			Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			Cache:   cache,
		})

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Drunkard Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Drunkard Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("cache", "none", "Cache for seeded requests: none, memory or redis")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "Redis address (with --cache redis)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().Duration("cache-ttl", time.Hour, "Expiration of cached results in Redis (0 keeps them)")
}

func newResultCache(cmd *cobra.Command) (ports.ResultCache, error) {
	kind, _ := cmd.Flags().GetString("cache")
	switch kind {
	case "none", "":
		return nil, nil
	case "memory":
		return memory.NewCache(), nil
	case "redis":
		addr, _ := cmd.Flags().GetString("redis-addr")
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")

		cache := redis.New(addr, password, db, redis.WithTTL(ttl))
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		defer cancel()
		if err := cache.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
		}
		return cache, nil
	}
	return nil, fmt.Errorf("unknown cache %q (want none, memory or redis)", kind)
}
