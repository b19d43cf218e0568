package model

// EconomicEvent is one normalized calendar row. All seven fields are
// guaranteed present (possibly empty strings) after normalization.
type EconomicEvent struct {
	Time     string
	Currency string
	Impact   string
	Event    string
	Actual   string
	Forecast string
	Previous string
}

// MacroBaseline is the once-per-run heuristic macro stance derived from
// the day's normalized events. Computed before any per-pair processing
// and passed read-only into every downstream use.
type MacroBaseline struct {
	USDStance  string // "Strong" / "Weak" / "Mixed"
	RiskRegime string // "Risk-off" / "Mixed"
	DXY        string // always "NA": the classifier takes no market-price input
	US10Y      string
	Oil        string
	XAU        string
	Notes      string
}
