package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/notifications"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	flightRepo := repository.NewFlightRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)

	sender := email.NewSender(email.LogTransport{}, cfg.Mail.FromDomain, cfg.Mail.AppURL)
	notifier := notifications.NewNotifier(reservationRepo, flightRepo, accountRepo, sender)

	maxRetries := cfg.Notifications.MaxRetries
	retryDelay := time.Duration(cfg.Notifications.RetryDelayMinutes) * time.Minute

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.ReservationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			if event.Type != kafka.EventReservationCreated {
				return nil
			}

			reservationID, err := uuid.Parse(event.ReservationID)
			if err != nil {
				log.Printf("bad reservation id in event: %v", err)
				return nil
			}

			// Delivery is fire-and-forget: after the bounded retries the
			// failure is logged and the message acked.
			if err := notifier.SendWithRetry(ctx, reservationID, maxRetries, retryDelay); err != nil {
				log.Printf("send reservation information %s: %v", event.ReservationID, err)
			}
			return nil
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepInterval := time.Duration(cfg.Notifications.ReminderSweepHours) * time.Hour
	reminderTicker := time.NewTicker(sweepInterval)
	defer reminderTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-reminderTicker.C:
			sent, err := notifier.SendReminders(ctx)
			if err != nil {
				log.Printf("send reminders error: %v", err)
				continue
			}
			if sent > 0 {
				log.Printf("sent %d reservation reminders", sent)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
