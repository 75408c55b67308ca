package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	payout "go-payout-calculator"
	"go-payout-calculator/awesomeapi"
	"go-payout-calculator/calculator"
	"go-payout-calculator/fees"
	payouthttp "go-payout-calculator/http"
	"go-payout-calculator/rate"

	nhttp "net/http"
)

// config runtime configuration, sourced from the environment
type config struct {
	addr          string
	local         payout.Currency
	startCurrency payout.Currency
	quoteTimeout  time.Duration
	redisAddr     string
	redisPassword string
	redisDB       int
}

func main() {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	cfg := parseConfig(parseFlags())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	quoteService := awesomeapi.NewService(cfg.local, cfg.quoteTimeout)
	quoteService = awesomeapi.NewLoggingService(log.With(logger, "component", "awesomeapi"), quoteService)

	var cache rate.Cache
	if cfg.redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		cache = rate.NewRedisCache(client, log.With(logger, "component", "redis_cache"))
	} else {
		cache = rate.NewMemoryCache()
	}

	rateService := rate.NewService(quoteService, cache, cfg.local, log.With(logger, "component", "rate_service"))

	orchestrator := calculator.New(rateService, fees.Default(), cfg.startCurrency, log.With(logger, "component", "calculator"))
	go orchestrator.Run(ctx)

	handler := payouthttp.NewServer(orchestrator)
	server := &nhttp.Server{Addr: cfg.addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Log("msg", "listening", "addr", cfg.addr, "local_currency", cfg.local)
	if err := server.ListenAndServe(); err != nil && err != nhttp.ErrServerClosed {
		logger.Log("msg", "server stopped", "err", err)
		os.Exit(1)
	}
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file, falling back to
// the process environment and built-in defaults.
func parseConfig(path string) config {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	timeoutSeconds, err := strconv.Atoi(getEnv("QUOTE_TIMEOUT_SECONDS", "10"))
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	return config{
		addr:          getEnv("APP_ADDR", ":8080"),
		local:         payout.Currency(getEnv("LOCAL_CURRENCY", "BRL")),
		startCurrency: payout.Currency(getEnv("START_CURRENCY", "USD")),
		quoteTimeout:  time.Duration(timeoutSeconds) * time.Second,
		redisAddr:     getEnv("REDIS_ADDR", ""),
		redisPassword: getEnv("REDIS_PASSWORD", ""),
		redisDB:       redisDB,
	}
}
