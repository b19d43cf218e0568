package collector

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"ForexSentry/internal/model"
)

// ErrNotConnected indicates the market-data session is unreachable. It is
// the one run-terminal condition: callers check connectivity before any
// instrument is processed.
var ErrNotConnected = errors.New("market session not connected")

// allowedTimeframes is the fixed set of subscription periods the session
// supports, in seconds.
var allowedTimeframes = map[int]bool{
	300:   true, // M5
	900:   true, // M15
	3600:  true, // H1
	14400: true, // H4
	86400: true, // D1
}

// Repository fetches bounded candle windows through a Session. Each fetch
// is a scoped acquisition: start the stream, poll until the buffer holds
// the requested count or the deadline passes, read, and always stop the
// stream again. An empty result is a degraded input, not an error.
type Repository struct {
	Session Session

	// PollInterval is the fixed wait between buffer reads; ReadyTimeout
	// bounds the whole wait. Polling replaces a blind settle sleep: the
	// feed has no data-ready callback, so readiness is observed by size.
	PollInterval time.Duration
	ReadyTimeout time.Duration
}

// NewRepository creates a Repository with the default readiness window.
func NewRepository(session Session) *Repository {
	return &Repository{
		Session:      session,
		PollInterval: 500 * time.Millisecond,
		ReadyTimeout: 6 * time.Second,
	}
}

// Fetch returns up to count time-ordered candles for one (instrument,
// timeframe). The series may be shorter than count when upstream history
// is thin, and empty when the session cannot supply data at all.
func (r *Repository) Fetch(instrument string, tfSeconds, count int) (model.CandleSeries, error) {
	if count <= 0 {
		return nil, fmt.Errorf("candle count must be positive, got %d", count)
	}
	if !allowedTimeframes[tfSeconds] {
		return nil, fmt.Errorf("unsupported timeframe %ds", tfSeconds)
	}

	if err := r.Session.StartStream(instrument, tfSeconds, count); err != nil {
		log.Printf("[WARN] start stream %s/%ds: %v", instrument, tfSeconds, err)
		return model.CandleSeries{}, nil
	}
	defer func() {
		if err := r.Session.StopStream(instrument, tfSeconds); err != nil {
			log.Printf("[WARN] stop stream %s/%ds: %v", instrument, tfSeconds, err)
		}
	}()

	raw := r.awaitCandles(instrument, tfSeconds, count)
	return standardize(raw, count), nil
}

// awaitCandles polls the stream buffer until it holds count records or the
// ready timeout passes, returning whatever accumulated.
func (r *Repository) awaitCandles(instrument string, tfSeconds, count int) []RawCandle {
	deadline := time.Now().Add(r.ReadyTimeout)
	for {
		raw := r.Session.ReadCandles(instrument, tfSeconds)
		if len(raw) >= count || time.Now().After(deadline) {
			return raw
		}
		time.Sleep(r.PollInterval)
	}
}

// standardize converts raw stream records into a clean series: records
// without an open price are dropped, the rest are time-sorted, duplicate
// timestamps collapsed (last write wins), and the tail trimmed to count.
func standardize(raw []RawCandle, count int) model.CandleSeries {
	kept := make([]RawCandle, 0, len(raw))
	for _, rc := range raw {
		if rc.Open == nil {
			continue
		}
		kept = append(kept, rc)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].From < kept[j].From })

	series := make(model.CandleSeries, 0, len(kept))
	for _, rc := range kept {
		bar := model.OHLCV{
			Time:   time.Unix(rc.From, 0).UTC(),
			Open:   *rc.Open,
			High:   rc.Max,
			Low:    rc.Min,
			Close:  rc.Close,
			Volume: rc.Volume,
		}
		if n := len(series); n > 0 && series[n-1].Time.Equal(bar.Time) {
			series[n-1] = bar
			continue
		}
		series = append(series, bar)
	}

	if len(series) > count {
		series = series[len(series)-count:]
	}
	return series
}
