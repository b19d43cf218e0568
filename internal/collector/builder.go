package collector

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ForexSentry/internal/calculator"
	"ForexSentry/internal/model"
)

// ErrEmptySeries marks a required intraday fetch that produced no candles.
// The failure is isolated per instrument: the cycle skips the pair and
// moves on.
var ErrEmptySeries = errors.New("empty candle series")

// Timeframe names one intraday analysis frame.
type Timeframe struct {
	Prefix  string // field-name prefix, e.g. "h1"
	Seconds int
}

// DefaultTimeframes are the intraday frames analyzed per pair.
var DefaultTimeframes = []Timeframe{
	{Prefix: "h4", Seconds: 14400},
	{Prefix: "h1", Seconds: 3600},
	{Prefix: "m15", Seconds: 900},
}

const (
	dailySeconds = 86400

	// defaultCandleCount sizes the intraday window for indicator
	// stability: EMA50 needs 50 bars, 100 gives warmup room.
	defaultCandleCount = 100

	// dailyCandleCount fetches the still-forming day plus the completed
	// prior day whose H/L/C feeds the pivots.
	dailyCandleCount = 2
)

// Builder assembles one TechnicalSnapshot per instrument: indicators for
// every configured timeframe plus prev-day levels and daily pivots.
type Builder struct {
	Repo        *Repository
	Frames      []Timeframe
	CandleCount int
}

// NewBuilder creates a Builder with the default frames and window size.
func NewBuilder(repo *Repository) *Builder {
	return &Builder{Repo: repo, Frames: DefaultTimeframes, CandleCount: defaultCandleCount}
}

// Build fetches and computes the full technical picture for one pair
// (e.g. "EUR/USD"). A required intraday frame with no data fails the pair;
// a missing prior day only degrades the pivot fields to NA.
func (b *Builder) Build(pair string) (*model.TechnicalSnapshot, error) {
	instrument := strings.ReplaceAll(pair, "/", "")

	snap := &model.TechnicalSnapshot{
		Pair:         pair,
		PrevDayHigh:  model.NA,
		PrevDayLow:   model.NA,
		PrevDayClose: model.NA,
		Pivots:       model.UnavailablePivots(),
		BuiltAt:      time.Now(),
	}

	for _, frame := range b.Frames {
		series, err := b.Repo.Fetch(instrument, frame.Seconds, b.CandleCount)
		if err != nil {
			return nil, fmt.Errorf("fetch %s %s: %w", pair, frame.Prefix, err)
		}
		if len(series) == 0 {
			return nil, fmt.Errorf("%s %s: %w", pair, frame.Prefix, ErrEmptySeries)
		}
		snap.Frames = append(snap.Frames, model.TimeframeIndicators{
			Prefix: frame.Prefix,
			Ind:    calculator.ComputeIndicators(series),
		})
	}

	daily, err := b.Repo.Fetch(instrument, dailySeconds, dailyCandleCount)
	if err != nil {
		log.Printf("[WARN] daily fetch %s: %v, pivots unavailable", pair, err)
		return snap, nil
	}
	if len(daily) < dailyCandleCount {
		log.Printf("[WARN] %s: %d daily candle(s), need %d for a completed prior day", pair, len(daily), dailyCandleCount)
		return snap, nil
	}

	// The last daily bar may still be forming; the one before it is the
	// most recently completed day.
	prev := daily[len(daily)-2]
	snap.PrevDayHigh = calculator.FormatPrice(prev.High)
	snap.PrevDayLow = calculator.FormatPrice(prev.Low)
	snap.PrevDayClose = calculator.FormatPrice(prev.Close)

	pivots, err := calculator.ComputePivots(prev.High, prev.Low, prev.Close)
	if err != nil {
		log.Printf("[WARN] pivots %s: %v", pair, err)
		return snap, nil
	}
	snap.Pivots = pivots
	return snap, nil
}
