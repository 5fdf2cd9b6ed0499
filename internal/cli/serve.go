package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xbar/internal/server"
	"github.com/matzehuels/xbar/pkg/cache"
	"github.com/matzehuels/xbar/pkg/pipeline"
)

// serveCommand runs the HTTP API. Flags override the [serve] and [redis]
// sections of the config file.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		maxTerminals int
		rateLimit    float64
		burst        int
		redisAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve wiring plans over HTTP",
		Long: `Serve wiring plans over HTTP.

Plans are cached in Redis when an address is configured, and in process
memory otherwise. The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  xbar serve --addr :8080 --max-terminals 1024
  xbar serve --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			cfg := c.config.Serve
			if flags.Changed("addr") {
				cfg.Addr = addr
			}
			if flags.Changed("max-terminals") {
				cfg.MaxTerminals = maxTerminals
			}
			if flags.Changed("rate") {
				cfg.Rate = rateLimit
			}
			if flags.Changed("burst") {
				cfg.Burst = burst
			}
			if flags.Changed("redis-addr") {
				c.config.Redis.Addr = redisAddr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&maxTerminals, "max-terminals", server.DefaultMaxTerminals, "largest n served, negative for no limit")
	cmd.Flags().Float64Var(&rateLimit, "rate", 0, "requests per second across all clients, 0 disables limiting")
	cmd.Flags().IntVar(&burst, "burst", 0, "rate limiter burst size")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the shared plan cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg ServeConfig) error {
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(c.serveCache(ctx), c.keyer(), logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:         cfg.Addr,
		MaxTerminals: cfg.MaxTerminals,
		Rate:         cfg.Rate,
		Burst:        cfg.Burst,
		CacheTTL:     cfg.CacheTTL.Duration,
	}, runner, logger.WithPrefix("http"))
	return srv.Run(ctx)
}

// serveCache prefers the configured Redis server and falls back to an
// in-process cache, which a long-running server does benefit from.
func (c *CLI) serveCache(ctx context.Context) cache.Cache {
	if c.config.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, c.config.Redis.cacheConfig())
		if err == nil {
			c.Logger.Info("using redis plan cache", "addr", c.config.Redis.Addr)
			return rc
		}
		c.Logger.Warn("redis unavailable, using memory cache", "err", err)
	}
	return cache.NewMemoryCache()
}
