package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sirajyamin/blink-graphql/internal/api"
	"github.com/sirajyamin/blink-graphql/internal/auth"
	"github.com/sirajyamin/blink-graphql/internal/config"
	"github.com/sirajyamin/blink-graphql/internal/events"
	"github.com/sirajyamin/blink-graphql/internal/graph"
	"github.com/sirajyamin/blink-graphql/internal/logger"
	"github.com/sirajyamin/blink-graphql/internal/notifier"
	"github.com/sirajyamin/blink-graphql/internal/presence"
	"github.com/sirajyamin/blink-graphql/internal/rbac"
	"github.com/sirajyamin/blink-graphql/internal/repository"
	"github.com/sirajyamin/blink-graphql/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(logger.Config{Development: cfg.App.Env != "production"})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	mc, err := repository.NewMongoClient(cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalf("mongo init: %v", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()

	db := mc.Database(cfg.Mongo.DB)
	users := repository.NewUserMongoRepository(db.Collection("users"))
	messages := repository.NewMessageMongoRepository(db.Collection("messages"))

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}
	tracker := presence.NewTracker(rdb, cfg.Redis.Prefix)

	pub := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zlog)
	defer func() { _ = pub.Close() }()

	mail := notifier.NewEmailNotifier(cfg.Brevo.APIKey, cfg.Brevo.SenderEmail, cfg.Brevo.SenderName, zlog)
	tokens := auth.NewManager(cfg.JWT.Secret)
	gate := rbac.NewAuthorizer(rbac.DefaultTable())

	userSvc := service.NewUserService(users, mail, tokens, pub, zlog)
	chatSvc := service.NewChatService(users, messages, tracker, int64(cfg.Chat.MessageLimit), zlog)

	schema, err := graph.NewSchema(graph.NewResolver(userSvc, chatSvc, gate, zlog))
	if err != nil {
		zlog.Fatalf("schema build: %v", err)
	}

	app := api.NewServer(schema, tokens, tracker, zlog)

	go func() {
		if err := app.Listen(":" + cfg.App.PortString()); err != nil {
			zlog.Fatalf("server listen: %v", err)
		}
	}()
	zlog.Infof("blink-graphql started on :%s", cfg.App.PortString())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = app.ShutdownWithContext(ctx)
	zlog.Info("blink-graphql stopped")
}
