package main

import (
	"Vibella/ai"
	"Vibella/bot"
	"Vibella/core"
	"Vibella/lib/sl"
	"Vibella/server"
	"Vibella/storage"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	conf := core.MustLoad(*configPath)
	log := setupLogger(conf.Env)
	log.With(
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
		slog.String("model", conf.Model),
		sl.Secret(conf.GeminiApiKey),
	).Info("starting vibella")

	if conf.GeminiApiKey == "" {
		log.Error("GEMINI_API_KEY is not set")
		os.Exit(1)
	}

	// Initialize storage based on config
	var store storage.ConversationStorage
	if conf.Mongo.Enabled {
		var err error
		store, err = storage.NewMongoStorage(conf.MongoURI(), conf.Mongo.Database, log)
		if err != nil {
			log.With(
				slog.String("db", conf.Mongo.Database),
				slog.String("user", conf.Mongo.User),
				slog.String("host", conf.Mongo.Host),
			).Error("falling back to memory", sl.Err(err))
			store = storage.NewMemoryStorage()
		} else {
			log.Info("using MongoDB storage")
		}
	} else {
		store = storage.NewMemoryStorage()
		log.Info("using in-memory storage")
	}

	chat := ai.NewGemini(conf, log)
	httpServer := server.New(conf, log, chat, store)

	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf, chat, store)
		if err != nil {
			log.Error("creating telegram gateway", sl.Err(err))
			os.Exit(1)
		}
		go tgBot.Start()
		log.Info("telegram gateway started")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpServer.Run(ctx); err != nil {
		log.Error("http server stopped with error", sl.Err(err))
	}

	// Graceful shutdown
	if tgBot != nil {
		tgBot.Stop()
	}

	if err := store.Close(); err != nil {
		log.Error("closing storage", sl.Err(err))
	}

	log.Info("shutdown complete")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal, envDev:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
