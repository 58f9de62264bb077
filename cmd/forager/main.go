package main

import (
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/go-redis/redis/v8"
	"github.com/icecave/forager/admin"
	"github.com/icecave/forager/cache"
	"github.com/icecave/forager/cmd"
	"github.com/icecave/forager/proxy"
	"github.com/icecave/forager/queue"
	"github.com/icecave/forager/server"
)

var version = "notset"

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	config, err := cmd.GetConfig(os.Args[1:])
	if err != nil {
		logger.Fatalln(err)
	}

	dialer, err := proxy.NewDialer(config.SOCKS5Address)
	if err != nil {
		logger.Fatalln(err)
	}

	lru := cache.New(config.Cache.MaxSize, config.Cache.MaxObjectSize)

	q, err := queue.New(config.QueueSize)
	if err != nil {
		logger.Fatalln(err)
	}

	listener, err := net.Listen("tcp", ":"+config.Port)
	if err != nil {
		logger.Fatalln(err)
	}

	srv := &server.Server{
		Listener: listener,
		Queue:    q,
		Handler: &proxy.Handler{
			Cache:  responseCache(config, lru, logger),
			Dialer: dialer,
			Logger: logger,
		},
		Workers:       config.Workers,
		ProxyProtocol: config.ProxyProtocol,
		Logger:        logger,
	}

	if config.AdminPort != "" {
		startAdmin(config, lru, q, logger)
	}

	closed := make(chan struct{})
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		sig := <-signals

		logger.Printf("Received %s, waiting for %d worker(s) to finish", sig, config.Workers)
		if err := srv.Close(); err != nil {
			logger.Println(err)
		}

		close(closed)
	}()

	logger.Printf(
		"Forager %s listening on port %s with %d worker(s), a queue of %s connection(s) and a %s cache (objects up to %s)",
		version,
		config.Port,
		config.Workers,
		humanize.Comma(int64(config.QueueSize)),
		humanize.Bytes(uint64(config.Cache.MaxSize)),
		humanize.Bytes(uint64(config.Cache.MaxObjectSize)),
	)

	if err := srv.Serve(); err != server.ErrServerClosed {
		logger.Fatalln(err)
	}

	<-closed
	logger.Println("Shutdown complete")
}

// responseCache returns the cache used by the proxy handler, which adds a
// shared Redis tier in front of lru's misses if one is configured.
func responseCache(
	config *cmd.Config,
	lru *cache.LRU,
	logger *log.Logger,
) proxy.Cache {
	if config.Cache.RedisAddress == "" {
		return lru
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Cache.RedisAddress,
		Password: config.Cache.RedisPassword,
	})

	logger.Printf("Using Redis at %s as a second-tier cache", config.Cache.RedisAddress)

	return &cache.Tiered{
		Primary: lru,
		Secondary: &cache.RedisStore{
			Client: rdb,
			Prefix: config.Cache.RedisPrefix,
			Expiry: config.Cache.RedisExpiry,
		},
		Logger: logger,
	}
}

// startAdmin binds the admin listener and serves it in the background. The
// admin listener is optional, so failing to bind it only disables it.
func startAdmin(
	config *cmd.Config,
	lru *cache.LRU,
	q *queue.Queue,
	logger *log.Logger,
) {
	listener, err := net.Listen("tcp", ":"+config.AdminPort)
	if err != nil {
		logger.Printf("Admin listener disabled: %s", err)
		return
	}

	logger.Printf("Admin listener on port %s", config.AdminPort)

	go admin.Serve(
		listener,
		&admin.Handler{
			Checker: &server.QueueChecker{Queue: q},
			Stats:   lru,
			Logger:  logger,
		},
		logger,
	)
}
