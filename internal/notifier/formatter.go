package notifier

import (
	"fmt"
	"strings"
	"time"

	"ForexSentry/internal/model"
)

// FormatCycleHeader opens a daily analysis rundown.
func FormatCycleHeader(now time.Time) string {
	return fmt.Sprintf("📈 *Daily Analysis Rundown* at %s UTC", now.UTC().Format("2006-01-02 15:04"))
}

// FormatMacroBaseline renders the shared macro stance for the chat.
func FormatMacroBaseline(b model.MacroBaseline, totalEvents, droppedRows int) string {
	var sb strings.Builder
	sb.WriteString("🌐 *Macro Baseline*\n")
	fmt.Fprintf(&sb, "USD stance: *%s* | Risk regime: *%s*\n", b.USDStance, b.RiskRegime)
	if b.Notes != "" {
		fmt.Fprintf(&sb, "Focus: %s\n", b.Notes)
	}
	fmt.Fprintf(&sb, "Calendar: %d event(s)", totalEvents)
	if droppedRows > 0 {
		fmt.Fprintf(&sb, ", %d malformed row(s) dropped", droppedRows)
	}
	return sb.String()
}

// FormatPairReport wraps one pair's LLM analysis for delivery.
func FormatPairReport(pair, analysis string) string {
	return fmt.Sprintf("💎 *Forex Analysis for %s*\n%s\n%s", pair, strings.Repeat("-", 20), analysis)
}

// FormatPairFailure reports a skipped pair without aborting the cycle.
func FormatPairFailure(pair string, err error) string {
	return fmt.Sprintf("⚠️ Could not build technical data for *%s*: %v. Skipping this cycle.", pair, err)
}

// FormatTechnicalSummary renders the raw snapshot numbers, used by the
// /status command so the chat can inspect inputs without an LLM call.
func FormatTechnicalSummary(snap *model.TechnicalSnapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *%s* technicals (built %s)\n", snap.Pair, snap.BuiltAt.UTC().Format("15:04:05"))
	for _, fr := range snap.Frames {
		fmt.Fprintf(&sb, "%s: EMA20=%s EMA50=%s RSI=%s MACD=%s\n",
			strings.ToUpper(fr.Prefix), fr.Ind.EMA20, fr.Ind.EMA50, fr.Ind.RSI, fr.Ind.MACD)
	}
	fmt.Fprintf(&sb, "Prev day H/L/C: %s / %s / %s\n", snap.PrevDayHigh, snap.PrevDayLow, snap.PrevDayClose)
	fmt.Fprintf(&sb, "Pivot PP=%s R1=%s S1=%s", snap.Pivots.PP, snap.Pivots.R1, snap.Pivots.S1)
	return sb.String()
}
