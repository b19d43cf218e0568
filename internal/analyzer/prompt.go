package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"ForexSentry/internal/model"
)

// SystemPrompt frames the model as an intraday forex analyst. Sent once
// per request ahead of the assembled user prompt.
const SystemPrompt = `You are a world-class Forex market analyst and strategist, specializing in short-term (intraday) trading for major currency pairs. Your analysis must integrate fundamental news events with multi-timeframe technical analysis.

Your primary goal is to provide a clear, actionable trading plan for a day trader: the main trend, key support/resistance zones, and high-probability entry setups. The output must be concise, structured, and formatted with Markdown for Telegram.`

// RelevantEvents filters the day's events down to high-impact ones touching
// either leg of the pair.
func RelevantEvents(events []model.EconomicEvent, pair string) []model.EconomicEvent {
	legs := strings.Split(pair, "/")
	var out []model.EconomicEvent
	for _, ev := range events {
		if !strings.Contains(ev.Impact, "High") {
			continue
		}
		for _, leg := range legs {
			if ev.Currency == leg {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// BuildUserPrompt assembles the per-pair analysis prompt from the news
// context, the shared macro baseline, and the flattened technical fields.
func BuildUserPrompt(pair, date string, events []model.EconomicEvent, baseline model.MacroBaseline, fields map[string]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the market for **%s** for today, **%s**.\n\n", pair, date)

	b.WriteString("**1. High-Impact Economic Events (Fundamental Context):**\n")
	b.WriteString(eventsJSON(events))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "**2. Macro Baseline:** USD %s | Regime %s\n", baseline.USDStance, baseline.RiskRegime)
	if baseline.Notes != "" {
		fmt.Fprintf(&b, "Session focus: %s\n", baseline.Notes)
	}
	b.WriteString("\n")

	b.WriteString("**3. Technical Analysis - H4 Timeframe (Higher-Timeframe Trend):**\n")
	writeFrame(&b, fields, "h4")
	b.WriteString("\n**4. Technical Analysis - H1 Timeframe (Daily Bias & Key Zones):**\n")
	writeFrame(&b, fields, "h1")
	b.WriteString("\n**5. Technical Analysis - M15 Timeframe (Precision Entry):**\n")
	writeFrame(&b, fields, "m15")

	b.WriteString("\n**6. Previous Day & Daily Pivots:**\n")
	fmt.Fprintf(&b, "- Prev Day H/L/C: `%s` / `%s` / `%s`\n",
		fields["prev_day_high"], fields["prev_day_low"], fields["prev_day_close"])
	fmt.Fprintf(&b, "- Pivots: PP=`%s` R1=`%s` R2=`%s` R3=`%s` S1=`%s` S2=`%s` S3=`%s`\n",
		fields["daily_pivot_pp"], fields["daily_pivot_r1"], fields["daily_pivot_r2"], fields["daily_pivot_r3"],
		fields["daily_pivot_s1"], fields["daily_pivot_s2"], fields["daily_pivot_s3"])

	b.WriteString(`
**--- YOUR TASK ---**

Based on ALL the data above, provide an actionable trading plan, formatted in Markdown for Telegram:

* **Overall Daily Bias:** (Bullish / Bearish / Neutral) - And a brief "why" in one sentence.
* **Key Support Zones:** [1-2 important price zones]
* **Key Resistance Zones:** [1-2 important price zones]
* **High-Probability Trading Scenarios:**
    * **Bullish Scenario:** Condition for a LONG entry, a potential TP area, and a logical SL area.
    * **Bearish Scenario:** Condition for a SHORT entry, a potential TP area, and a logical SL area.

Be concise, clear, and direct.
`)
	return b.String()
}

func writeFrame(b *strings.Builder, fields map[string]string, tf string) {
	fmt.Fprintf(b, "- %s OHLC Data (last 5 candles): `%s`\n", strings.ToUpper(tf), fields[tf+"_ohlc"])
	fmt.Fprintf(b, "- %s Indicators: EMA(20)=`%s`, EMA(50)=`%s`, RSI(14)=`%s`\n",
		strings.ToUpper(tf), fields[tf+"_ema20"], fields[tf+"_ema50"], fields[tf+"_rsi"])
	fmt.Fprintf(b, "- %s MACD(12,26,9): line=`%s`, signal=`%s`, hist=`%s`\n",
		strings.ToUpper(tf), fields[tf+"_macd"], fields[tf+"_macds"], fields[tf+"_macdh"])
}

func eventsJSON(events []model.EconomicEvent) string {
	if len(events) == 0 {
		return "No high-impact news scheduled for this pair."
	}
	type row struct {
		Time     string `json:"Time"`
		Currency string `json:"Currency"`
		Impact   string `json:"Impact"`
		Event    string `json:"Event"`
		Actual   string `json:"Actual"`
		Forecast string `json:"Forecast"`
		Previous string `json:"Previous"`
	}
	rows := make([]row, len(events))
	for i, ev := range events {
		rows[i] = row{ev.Time, ev.Currency, ev.Impact, ev.Event, ev.Actual, ev.Forecast, ev.Previous}
	}
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "No high-impact news scheduled for this pair."
	}
	return string(out)
}
