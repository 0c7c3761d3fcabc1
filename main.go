package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"productapi/internal/app"
	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/services"
	"productapi/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"gorm.io/gorm"
)

//	@title			Products REST API
//	@version		1.0.0
//	@description	API docs for products
//	@BasePath		/
//	@tag.name		Products
//	@tag.description	API operations related to products

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "productapi",
		Short:        "REST API for managing products",
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}

	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the products table",
	}
	dbCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Create or migrate the products table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(db *gorm.DB) error {
				if err := database.Sync(db); err != nil {
					return err
				}
				logrus.Info("Products table synchronized")
				return nil
			})
		},
	})
	dbCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop and recreate the products table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(db *gorm.DB) error {
				if err := database.Reset(db); err != nil {
					return err
				}
				logrus.Info("Products table cleared")
				return nil
			})
		},
	})

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Work with product events",
	}
	eventsCmd.AddCommand(&cobra.Command{
		Use:   "tail",
		Short: "Print product events as they are published",
		RunE:  runEventsTail,
	})

	rootCmd.AddCommand(serveCmd, dbCmd, eventsCmd)
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg)
	return cfg, nil
}

// setupLogger configures the logrus standard logger.
func setupLogger(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func withDatabase(fn func(db *gorm.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.Open(cfg.DatabaseURL, database.Options{Debug: cfg.DBDebug})
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabaseURL, database.Options{Debug: cfg.DBDebug})
	if err != nil {
		return err
	}
	defer database.Close(db)

	// A failed migration is logged; the server still starts.
	if err := database.Sync(db); err != nil {
		logrus.WithError(err).Error("Failed to synchronize database")
	}

	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logrus.WithError(err).Warn("Product events disabled")
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	application := app.New(cfg, db, publisher)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logrus.Infof("Starting server on %s", cfg.AppPort)
		serverErr <- application.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logrus.Info("Shutting down server...")
	if err := application.Shutdown(); err != nil {
		logrus.WithError(err).Error("Error during Fiber shutdown")
	}
	logrus.Info("Server gracefully stopped")
	return nil
}

func runEventsTail(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.EventsEnabled() {
		return fmt.Errorf("RABBITMQ_URL is not set")
	}

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		return err
	}
	defer mqClient.Close()

	done, err := mqClient.ConsumeProductEvents(func(msg amqp.Delivery) error {
		ev, err := rabbitmq.DecodeEvent(msg.Body)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"event":       ev.Type,
			"occurred_at": ev.OccurredAt,
			"product":     ev.Product,
		}).Info("Product event")
		return nil
	})
	if err != nil {
		return err
	}
	logrus.Infof("Waiting for events on %s. To exit press CTRL+C", rabbitmq.ProductEventsQueue)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
		logrus.Warn("Broker closed the event stream")
	}
	return nil
}
