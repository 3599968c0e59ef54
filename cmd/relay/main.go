package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/omochice/zmqlink/internal/relay"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "relay.toml", "Path to the relay TOML configuration")
	flag.Parse()

	cfg, err := relay.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	r, err := relay.New(cfg)
	if err != nil {
		log.Fatalf("Failed to set up relay: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Relaying %s <-> %s", cfg.Frontend.Address, cfg.Backend.Address)
		errChan <- r.Run()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Relay error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
		r.Shutdown()
		if err := <-errChan; err != nil {
			log.Fatalf("Relay error: %v", err)
		}
	}

	log.Println("Relay stopped")
}
