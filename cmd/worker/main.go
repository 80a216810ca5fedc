package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/email"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	os.Exit(runMain(os.Args[1:]))
}

func runMain(args []string) int {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	flags := pflag.NewFlagSet("worker", pflag.ContinueOnError)
	cfgPath := flags.String("config", defaultPath, "path to the YAML config file")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Printf("init logger: %v", err)
		return 1
	}
	defer func() { _ = zl.Sync() }()

	topic := cfg.Kafka.NotificationsTopic
	if topic == "" {
		topic = cfg.Kafka.BookingTopic
	}
	if len(cfg.Kafka.Brokers) == 0 {
		zl.Error("kafka.brokers is required for the notification worker")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic, zl)
	defer consumer.Close()

	emailSender := email.NewSender(zl)

	zl.Info("notification worker started", zap.String("topic", topic), zap.String("group_id", cfg.Kafka.GroupID))
	if err := consumer.ConsumeBookingEvents(ctx, emailSender.Send); err != nil {
		zl.Error("consumer stopped", zap.Error(err))
		return 1
	}
	zl.Info("notification worker stopped")
	return 0
}
