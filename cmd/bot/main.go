package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ForexSentry/internal/analyzer"
	fxcal "ForexSentry/internal/calendar"
	"ForexSentry/internal/collector"
	"ForexSentry/internal/config"
	"ForexSentry/internal/notifier"
	"ForexSentry/internal/recorder"
	"ForexSentry/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ForexSentry starting...")

	// .env is optional; real deployments use the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Market-data session: connectivity is a run-level precondition.
	session, err := collector.NewWSSession(collector.WSConfig{URL: cfg.Market.StreamURL})
	if err != nil {
		log.Fatalf("[FATAL] init market session: %v", err)
	}
	if err := session.Connect(ctx); err != nil {
		log.Fatalf("[FATAL] connect market session: %v", err)
	}
	defer session.Close()
	log.Printf("[INFO] market session connected: %s", cfg.Market.StreamURL)

	// Candle repository and snapshot builder
	repo := collector.NewRepository(session)
	repo.PollInterval = time.Duration(cfg.Market.PollIntervalMS) * time.Millisecond
	repo.ReadyTimeout = time.Duration(cfg.Market.ReadyTimeoutMS) * time.Millisecond

	builder := collector.NewBuilder(repo)
	builder.CandleCount = cfg.Market.CandleCount
	builder.Frames = builder.Frames[:0]
	for _, tf := range cfg.Market.Timeframes {
		builder.Frames = append(builder.Frames, collector.Timeframe{Prefix: tf.Prefix, Seconds: tf.Seconds})
	}

	// Calendar pipeline
	rows := fxcal.NewHTTPSource(cfg.Calendar.URL, cfg.Calendar.Timezone, cfg.Proxy)
	norm := fxcal.NewNormalizer(fxcal.DefaultVocabulary())
	classifier := fxcal.NewBaselineClassifier(fxcal.DefaultBaselineConfig())

	// LLM client
	chat := analyzer.NewChatClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model,
		cfg.LLM.MaxTokens, cfg.LLM.Temperature, cfg.Proxy)

	// Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Scheduler
	sched := scheduler.NewScheduler(ctx, scheduler.Deps{
		Session:    session,
		Builder:    builder,
		Rows:       rows,
		Normalizer: norm,
		Classifier: classifier,
		Chat:       chat,
		Notifier:   tn,
		Recorder:   rec,
		Gate:       scheduler.NewTradingDayGate(cfg.Schedule.MarketMIC),
		Pairs:      cfg.Market.Pairs,
	})
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing analysis cycle now")
		go sched.RunCycle()
	}

	log.Println("[INFO] ForexSentry is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ForexSentry stopped")
}
