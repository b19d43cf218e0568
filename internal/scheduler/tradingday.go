package scheduler

import (
	"log"
	"time"

	"github.com/scmhub/calendar"
)

// TradingDayGate decides whether an analysis cycle should run today.
// Holiday data comes from the exchange calendar for the configured MIC;
// when the MIC is unknown the gate falls back to plain Mon-Fri.
type TradingDayGate struct {
	cal      *calendar.Calendar
	loc      *time.Location
	fallback bool
}

// NewTradingDayGate loads the exchange calendar for a MIC (ISO 10383).
func NewTradingDayGate(mic string) *TradingDayGate {
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		log.Printf("[WARN] no exchange calendar for MIC %q, using Mon-Fri fallback", mic)
		return &TradingDayGate{fallback: true, loc: time.UTC}
	}
	return &TradingDayGate{cal: cal, loc: cal.Loc}
}

// IsTradingDay reports whether t falls on a business day.
func (g *TradingDayGate) IsTradingDay(t time.Time) bool {
	if g.loc != nil {
		t = t.In(g.loc)
	}
	if g.fallback {
		wd := t.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	return g.cal.IsBusinessDay(t)
}
