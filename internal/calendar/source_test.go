package calendar

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const calendarFixture = `<html><body>
<table class="calendar__table">
<tr class="calendar__row calendar__row--header"><th>Date</th></tr>
<tr class="calendar__row">
  <td>8:30am</td><td>USD</td><td>High</td>
  <td><span>Non-Farm Employment Change</span></td>
  <td>227K</td><td>220K</td><td>212K</td>
</tr>
<tr class="calendar__row">
  <td></td><td></td><td></td><td></td><td></td><td></td><td></td>
</tr>
<tr class="calendar__row">
  <td>Tentative</td><td>EUR</td><td>Low</td>
  <td>German Buba Monthly Report</td><td></td><td></td>
</tr>
<tr class="other__row">
  <td>9:00am</td><td>GBP</td><td>Low</td><td>Ignored</td><td></td><td></td><td></td>
</tr>
</table>
</body></html>`

func TestExtractRows(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(calendarFixture))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	table := findByClass(doc, "table", "calendar__table")
	if table == nil {
		t.Fatal("calendar table not found in fixture")
	}

	rows := extractRows(table)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (header, spacer and foreign rows skipped), got %d", len(rows))
	}

	first := rows[0]
	if first.Time != "8:30am" || first.Currency != "USD" || first.Event != "Non-Farm Employment Change" {
		t.Errorf("first row: %+v", first)
	}
	if first.Actual != "227K" || first.Forecast != "220K" || first.Previous != "212K" {
		t.Errorf("first row figures: %+v", first)
	}

	// Six-cell row is padded with an empty trailing field.
	second := rows[1]
	if second.Event != "German Buba Monthly Report" || second.Previous != "" {
		t.Errorf("second row: %+v", second)
	}
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{{Time: "8:30am", Currency: "USD", Event: "CPI m/m"}}
	rows, err := src.Rows()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Event != "CPI m/m" {
		t.Errorf("rows: %+v", rows)
	}
}
