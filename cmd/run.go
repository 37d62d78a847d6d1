package cmd

import (
	"context"
	"fmt"
	"time"

	"gamba/bot"
	"gamba/config"
	"gamba/database"
	"gamba/events"
	"gamba/repository"
	"gamba/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting gamba bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus with an audit log subscriber
	eventBus := events.NewBus()
	subscribeAuditLog(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize the ledger
	ledger := service.NewLedgerService(uowFactory, cfg.StartingBalance)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(cfg, ledger, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// subscribeAuditLog writes every ledger event to the structured log so
// balance movements are traceable without a separate history table.
func subscribeAuditLog(bus *events.Bus) {
	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, e events.Event) {
		if created, ok := e.(events.UserCreatedEvent); ok {
			log.WithFields(log.Fields{
				"discordID": created.DiscordID,
				"username":  created.Username,
				"balance":   created.InitialBalance,
			}).Info("Account created")
		}
	})
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		if change, ok := e.(events.BalanceChangeEvent); ok {
			log.WithFields(log.Fields{
				"discordID":  change.DiscordID,
				"oldBalance": change.OldBalance,
				"newBalance": change.NewBalance,
				"change":     change.ChangeAmount,
				"reason":     change.Reason,
			}).Info("Balance changed")
		}
	})
}
