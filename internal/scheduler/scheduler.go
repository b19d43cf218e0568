package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"ForexSentry/internal/analyzer"
	fxcal "ForexSentry/internal/calendar"
	"ForexSentry/internal/collector"
	"ForexSentry/internal/model"
	"ForexSentry/internal/notifier"
	"ForexSentry/internal/recorder"

	"github.com/robfig/cron/v3"
)

// pairPacing spaces out per-pair Telegram deliveries so the chat stays
// readable and the bot API is not hammered.
const pairPacing = 5 * time.Second

// Scheduler runs the daily analysis cycle and serves chat commands.
type Scheduler struct {
	Cron       *cron.Cron
	Session    collector.Session
	Builder    *collector.Builder
	Rows       fxcal.RowSource
	Normalizer *fxcal.Normalizer
	Classifier *fxcal.BaselineClassifier
	Chat       *analyzer.ChatClient
	Notifier   *notifier.TelegramNotifier
	Recorder   recorder.Recorder
	Gate       *TradingDayGate
	Pairs      []string
	Ctx        context.Context

	mu            sync.Mutex
	lastBaseline  model.MacroBaseline
	lastSnapshots map[string]*model.TechnicalSnapshot
}

// Deps bundles the collaborators a Scheduler needs.
type Deps struct {
	Session    collector.Session
	Builder    *collector.Builder
	Rows       fxcal.RowSource
	Normalizer *fxcal.Normalizer
	Classifier *fxcal.BaselineClassifier
	Chat       *analyzer.ChatClient
	Notifier   *notifier.TelegramNotifier
	Recorder   recorder.Recorder
	Gate       *TradingDayGate
	Pairs      []string
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, d Deps) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Session:       d.Session,
		Builder:       d.Builder,
		Rows:          d.Rows,
		Normalizer:    d.Normalizer,
		Classifier:    d.Classifier,
		Chat:          d.Chat,
		Notifier:      d.Notifier,
		Recorder:      d.Recorder,
		Gate:          d.Gate,
		Pairs:         d.Pairs,
		Ctx:           ctx,
		lastSnapshots: make(map[string]*model.TechnicalSnapshot),
	}
}

// RegisterAll registers the daily analysis task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) dailyTask() {
	if !s.Gate.IsTradingDay(time.Now()) {
		log.Println("[INFO] non-trading day, skipping analysis cycle")
		return
	}
	s.RunCycle()
}

// RunCycle executes one full analysis cycle: connectivity check, calendar
// normalization, macro classification, then each pair in turn. Only a dead
// session aborts the cycle; a failed pair is reported and skipped.
func (s *Scheduler) RunCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Println("[INFO] running analysis cycle")
	if !s.Session.Connected() {
		log.Printf("[ERROR] cycle aborted: %v", collector.ErrNotConnected)
		s.trySend("❌ Market data session is down. Skipping today's analysis.")
		return
	}

	events, dropped := s.collectEvents()
	baseline := s.Classifier.Classify(events)
	s.lastBaseline = baseline

	s.trySend(notifier.FormatCycleHeader(time.Now()))
	s.trySend(notifier.FormatMacroBaseline(baseline, len(events), dropped))

	date := time.Now().UTC().Format("2006-01-02")
	ok, failed := 0, 0
	for _, pair := range s.Pairs {
		snap, err := s.Builder.Build(pair)
		if err != nil {
			failed++
			log.Printf("[ERROR] build snapshot %s: %v", pair, err)
			s.trySend(notifier.FormatPairFailure(pair, err))
			continue
		}
		ok++
		s.lastSnapshots[pair] = snap
		if err := s.Recorder.RecordSnapshot(snap); err != nil {
			log.Printf("[ERROR] record snapshot %s: %v", pair, err)
		}

		prompt := analyzer.BuildUserPrompt(pair, date, analyzer.RelevantEvents(events, pair), baseline, snap.Fields())
		reply, err := s.Chat.Analyze(s.Ctx, analyzer.SystemPrompt, prompt)
		if err != nil {
			log.Printf("[ERROR] analyze %s: %v", pair, err)
			s.trySend(fmt.Sprintf("⚠️ Analysis call failed for *%s*: %v", pair, err))
			continue
		}
		s.trySend(notifier.FormatPairReport(pair, reply))

		select {
		case <-s.Ctx.Done():
			return
		case <-time.After(pairPacing):
		}
	}

	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		USDStance:     baseline.USDStance,
		RiskRegime:    baseline.RiskRegime,
		Notes:         baseline.Notes,
		EventsTotal:   len(events),
		EventsDropped: dropped,
		PairsOK:       ok,
		PairsFailed:   failed,
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	log.Printf("[INFO] cycle done: %d pair(s) analyzed, %d skipped", ok, failed)
}

// collectEvents scrapes and normalizes the calendar. A scrape failure is
// degraded to an empty event list so the cycle proceeds technical-only.
func (s *Scheduler) collectEvents() ([]model.EconomicEvent, int) {
	rows, err := s.Rows.Rows()
	if err != nil {
		log.Printf("[WARN] calendar scrape failed: %v, proceeding without news", err)
		return nil, 0
	}
	events, dropped := s.Normalizer.Normalize(rows)
	log.Printf("[INFO] calendar: %d event(s) normalized, %d row(s) dropped", len(events), dropped)
	return events, dropped
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/run":
		go s.RunCycle()
		return "Analysis cycle started."
	case "/macro":
		s.mu.Lock()
		defer s.mu.Unlock()
		return notifier.FormatMacroBaseline(s.lastBaseline, 0, 0)
	case "/status":
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(s.lastSnapshots) == 0 {
			return "No snapshots built yet. Use /run to start a cycle."
		}
		parts := make([]string, 0, len(s.lastSnapshots))
		for _, pair := range s.Pairs {
			if snap, ok := s.lastSnapshots[pair]; ok {
				parts = append(parts, notifier.FormatTechnicalSummary(snap))
			}
		}
		return strings.Join(parts, "\n\n")
	default:
		return "Commands:\n• /run — run the analysis cycle now\n• /macro — last macro baseline\n• /status — last technical snapshots"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
