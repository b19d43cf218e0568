package collector

import "fmt"

// RawCandle mirrors the session wire shape: high/low travel as max/min and
// the open may be absent on a record the feed has not finished filling.
type RawCandle struct {
	From   int64    `json:"from"`
	Open   *float64 `json:"open"`
	Max    float64  `json:"max"`
	Min    float64  `json:"min"`
	Close  float64  `json:"close"`
	Volume float64  `json:"volume"`
}

// Session is the market-data subscription boundary. One subscription per
// (instrument, timeframe) is active at a time: start, wait for the buffer
// to fill, read, stop. Connectivity is a run-level precondition.
type Session interface {
	StartStream(instrument string, tfSeconds, count int) error
	ReadCandles(instrument string, tfSeconds int) []RawCandle
	StopStream(instrument string, tfSeconds int) error
	Connected() bool
}

func streamKey(instrument string, tfSeconds int) string {
	return fmt.Sprintf("%s:%d", instrument, tfSeconds)
}

// MockSession returns controllable fixed data for development and testing.
type MockSession struct {
	Candles    map[string][]RawCandle // keyed by streamKey
	Online     bool
	StartErr   error
	StartCalls []string
	StopCalls  []string
}

// NewMockSession creates an online mock with no data loaded.
func NewMockSession() *MockSession {
	return &MockSession{Candles: make(map[string][]RawCandle), Online: true}
}

// Load sets the candle buffer returned for one (instrument, timeframe).
func (m *MockSession) Load(instrument string, tfSeconds int, candles []RawCandle) {
	m.Candles[streamKey(instrument, tfSeconds)] = candles
}

func (m *MockSession) StartStream(instrument string, tfSeconds, count int) error {
	m.StartCalls = append(m.StartCalls, streamKey(instrument, tfSeconds))
	return m.StartErr
}

func (m *MockSession) ReadCandles(instrument string, tfSeconds int) []RawCandle {
	return m.Candles[streamKey(instrument, tfSeconds)]
}

func (m *MockSession) StopStream(instrument string, tfSeconds int) error {
	m.StopCalls = append(m.StopCalls, streamKey(instrument, tfSeconds))
	return nil
}

func (m *MockSession) Connected() bool { return m.Online }
