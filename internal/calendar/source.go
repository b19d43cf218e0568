package calendar

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// RawEventRow is one scraped calendar row before repair. The seven fields
// are positional; merged or missing cells upstream mean any field may hold
// a neighbor's value.
type RawEventRow struct {
	Time     string
	Currency string
	Impact   string
	Event    string
	Actual   string
	Forecast string
	Previous string
}

// RowSource supplies raw calendar rows. The headless-browser scraper is an
// external collaborator; HTTPSource is the plain-HTTP fallback.
type RowSource interface {
	Rows() ([]RawEventRow, error)
}

// StaticSource serves a fixed row set, for tests and offline runs.
type StaticSource []RawEventRow

func (s StaticSource) Rows() ([]RawEventRow, error) { return s, nil }

// HTTPSource fetches the calendar page over plain HTTP and extracts the
// rows of table.calendar__table.
type HTTPSource struct {
	URL            string
	TimezoneCookie string // value of the site's timezone cookie
	Client         *http.Client
}

// NewHTTPSource creates a source with optional proxy support.
func NewHTTPSource(pageURL, tzCookie, proxyURL string) *HTTPSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPSource{
		URL:            pageURL,
		TimezoneCookie: tzCookie,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *HTTPSource) Rows() ([]RawEventRow, error) {
	req, err := http.NewRequest("GET", s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	if s.TimezoneCookie != "" {
		req.AddCookie(&http.Cookie{Name: "fftimezone", Value: s.TimezoneCookie})
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("calendar: status %d, body: %s", resp.StatusCode, string(body))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("calendar parse: %w", err)
	}

	table := findByClass(doc, "table", "calendar__table")
	if table == nil {
		return nil, fmt.Errorf("calendar: table not found")
	}
	return extractRows(table), nil
}

// extractRows walks calendar__row elements and maps their cells onto the
// seven positional fields, padding short rows with empty strings.
func extractRows(table *html.Node) []RawEventRow {
	var rows []RawEventRow
	for _, tr := range collectByClass(table, "tr", "calendar__row") {
		cells := cellTexts(tr)
		if len(cells) < 6 {
			continue
		}
		for len(cells) < 7 {
			cells = append(cells, "")
		}
		cells = cells[:7]

		// Header and spacer rows carry no usable payload.
		if cells[1] == "" && cells[2] == "" && cells[3] == "" {
			continue
		}
		rows = append(rows, RawEventRow{
			Time:     cells[0],
			Currency: cells[1],
			Impact:   cells[2],
			Event:    cells[3],
			Actual:   cells[4],
			Forecast: cells[5],
			Previous: cells[6],
		})
	}
	return rows
}

func cellTexts(tr *html.Node) []string {
	var texts []string
	for td := tr.FirstChild; td != nil; td = td.NextSibling {
		if td.Type == html.ElementNode && td.Data == "td" {
			texts = append(texts, strings.TrimSpace(textContent(td)))
		}
	}
	return texts
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func findByClass(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func collectByClass(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, collectByClass(c, tag, class)...)
	}
	return out
}
