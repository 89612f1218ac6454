package main

import (
	"chat-relay/infrastructure/mqtt"
	"chat-relay/internal"
	"chat-relay/repositories"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/sink"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the process lifecycle and
// centralizes error reporting, so every defer executes before exit.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Durable store (BadgerDB) and search index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Context & signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Transport: shared channel plus this participant's directed channel
	transport := mqtt.NewClient(logger, config.BrokerURL, "chat-relay-"+config.UserID, config.BufferSize)
	if err := transport.Connect(ctx); err != nil {
		return exitRuntime, fmt.Errorf("broker connection failed: %w", err)
	}
	defer transport.Close()

	if err := transport.Subscribe(config.BaseTopic, config.BaseTopic+"/"+config.UserID); err != nil {
		return exitRuntime, fmt.Errorf("subscription failed: %w", err)
	}

	// 5. Pipeline wiring
	messageRepository := repositories.NewMessageRepository(db, logger)
	searchIndex := repositories.NewSearchIndex(blugeWriter, logger)
	console := sink.NewConsole()
	timeline := sink.NewTimeline(config.TimelineLimit)

	receipts := workers.NewReceiptScheduler(
		logger, transport, messageRepository,
		config.BaseTopic, config.UserID, config.ReceiptDelay,
	).AddSinks(console)

	ingestion := services.NewIngestionService(logger, messageRepository, searchIndex, receipts, config.UserID).
		AddSinks(console, timeline)
	chatService := services.NewChatService(
		logger, messageRepository, searchIndex, transport,
		config.BaseTopic, config.UserID, config.UserName,
	).AddSinks(console, timeline)

	dispatcher := workers.NewDispatcher(logger, transport.Deliveries(), ingestion)
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	supervisor.Add(dispatcher)

	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		supervisor.Run(ctx)
	}()

	// 6. Interactive chat interface on the foreground goroutine's behalf
	cli := NewCLI(logger, chatService, config)
	cliDone := make(chan struct{})
	go func() {
		defer close(cliDone)
		cli.Run(ctx)
	}()

	select {
	case <-ctx.Done():
	case <-cliDone:
	}

	// 7. Graceful drain: stop accepting inbound events, let in-flight
	// receipts and store writes complete.
	stop()
	supervisor.Stop()
	<-supervisorDone
	logger.Info("Draining in-flight receipts...")
	receipts.Drain()
	return exitOK, nil
}
