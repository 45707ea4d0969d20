// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carterperez-dev/instaiq-backend/internal/config"
	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/notify"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("notifier error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if !cfg.Notify.Enabled {
		return errors.New("notifications are disabled; set notify.enabled")
	}
	if cfg.Notify.MailgunDomain == "" || cfg.Notify.MailgunAPIKey == "" {
		return errors.New("MAILGUN_DOMAIN and MAILGUN_API_KEY are required")
	}

	consumer, err := notify.NewConsumer(notify.ConsumerConfig{
		URL:      cfg.Notify.AMQPURL,
		Exchange: cfg.Notify.Exchange,
		Queue:    cfg.Notify.Queue,
		Bindings: []string{notify.KeyCoursePurchased, notify.KeyContactSubmitted},
	})
	if err != nil {
		return err
	}
	defer consumer.Close() //nolint:errcheck // process exit

	mailer := notify.NewMailgunMailer(
		cfg.Notify.MailgunDomain,
		cfg.Notify.MailgunAPIKey,
		cfg.Notify.Sender,
	)
	worker := notify.NewWorker(mailer, cfg.Notify.AdminRecipient)

	logger.Info("notifier consuming",
		"queue", cfg.Notify.Queue,
		"exchange", cfg.Notify.Exchange,
	)

	if err := consumer.Run(ctx, worker.Handle); err != nil {
		return err
	}

	logger.Info("notifier stopped")
	return nil
}
