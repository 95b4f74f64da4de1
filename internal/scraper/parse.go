// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package scraper

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tomtom215/crawlspeed/internal/catalog"
	"github.com/tomtom215/crawlspeed/internal/models"
	"github.com/tomtom215/crawlspeed/internal/validation"
)

// Normalized header names of the leaderboard table.
const (
	colScore     = "score"
	colPlayer    = "player"
	colCharacter = "character"
	colGod       = "god"
	colXL        = "xl"
	colTurns     = "turns"
	colDuration  = "duration"
	colRunes     = "runes"
	colDate      = "date"
	colVersion   = "version"
)

// Skip reasons reported in metrics.
const (
	skipBlacklisted = "blacklisted"
	skipInvalid     = "invalid"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// tableRow is one data row keyed by normalized header name.
type tableRow struct {
	cells  map[string]string
	morgue string
}

func (r tableRow) get(col string) string {
	return r.cells[col]
}

// parseTable returns the data rows of the first table with Player and Character headers.
func parseTable(body []byte) ([]tableRow, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	for _, table := range findAll(doc, atom.Table) {
		rows, ok := readTable(table)
		if ok {
			return rows, nil
		}
	}
	return nil, ErrNoTable
}

func readTable(table *html.Node) ([]tableRow, bool) {
	var headers []string
	var rows []tableRow

	for _, tr := range findAll(table, atom.Tr) {
		if headers == nil {
			ths := children(tr, atom.Th)
			if len(ths) == 0 {
				continue
			}
			headers = make([]string, len(ths))
			for i, th := range ths {
				headers[i] = strings.ToLower(textContent(th))
			}
			if !slices.Contains(headers, colPlayer) || !slices.Contains(headers, colCharacter) {
				return nil, false
			}
			continue
		}

		tds := children(tr, atom.Td)
		if len(tds) == 0 {
			continue
		}
		row := tableRow{cells: make(map[string]string, len(tds))}
		for i, td := range tds {
			if i < len(headers) && headers[i] != "" {
				row.cells[headers[i]] = textContent(td)
			}
			if row.morgue == "" {
				row.morgue = morgueLink(td)
			}
		}
		rows = append(rows, row)
	}

	return rows, headers != nil
}

// toHighscore converts a row. A non-empty reason means the row must be skipped.
func (r tableRow) toHighscore(source string) (models.ComboHighscore, string) {
	character := r.get(colCharacter)
	if len(character) != 4 {
		return models.ComboHighscore{}, skipInvalid
	}
	if catalog.IsBlacklistedCombo(character) {
		return models.ComboHighscore{}, skipBlacklisted
	}

	date, err := parseDate(r.get(colDate))
	if err != nil {
		return models.ComboHighscore{}, skipInvalid
	}
	duration, err := parseDuration(r.get(colDuration))
	if err != nil {
		return models.ComboHighscore{}, skipInvalid
	}
	score, err := parseInt64(r.get(colScore))
	if err != nil {
		return models.ComboHighscore{}, skipInvalid
	}

	var ints [3]int
	for i, col := range []string{colTurns, colXL, colRunes} {
		v, err := parseInt64(r.get(col))
		if err != nil {
			return models.ComboHighscore{}, skipInvalid
		}
		ints[i] = int(v)
	}

	player := r.get(colPlayer)
	hs := models.ComboHighscore{GameInfo: models.GameInfo{
		GID:        gameID(player, source, date),
		Player:     player,
		Race:       character[:2],
		Background: character[2:],
		God:        r.get(colGod),
		Duration:   duration,
		Turns:      ints[0],
		XL:         ints[1],
		Runes:      ints[2],
		Score:      score,
		Version:    r.get(colVersion),
		Src:        source,
		Date:       date,
		Morgue:     r.morgue,
	}}

	if verr := validation.ValidateStruct(&hs); verr != nil {
		return models.ComboHighscore{}, skipInvalid
	}
	return hs, ""
}

// gameID builds a Sequell style game id: player:src:YYYYMMDDhhmmssS.
func gameID(player, source string, date time.Time) string {
	return player + ":" + source + ":" + date.UTC().Format("20060102150405") + "S"
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseDuration parses "HH:MM:SS", "MM:SS" or "D, HH:MM:SS" into seconds.
func parseDuration(s string) (int, error) {
	days := 0
	if d, rest, ok := strings.Cut(s, ","); ok {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(d), "d")))
		if err != nil {
			return 0, fmt.Errorf("invalid day count in %q", s)
		}
		days = n
		s = strings.TrimSpace(rest)
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total = total*60 + n
	}
	return days*86400 + total, nil
}

// parseInt64 accepts thousands separators. An empty string is zero.
func parseInt64(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.DataAtom == a {
			out = append(out, node)
			// Nested tables are not part of this one.
			if node != n && a == atom.Table {
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func children(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			out = append(out, c)
		}
	}
	return out
}

// textContent returns the visible text of n with whitespace collapsed.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// morgueLink returns the first link under n that points at a morgue text file.
func morgueLink(n *html.Node) string {
	for _, a := range findAll(n, atom.A) {
		for _, attr := range a.Attr {
			if attr.Key == "href" && strings.HasSuffix(attr.Val, ".txt") {
				return attr.Val
			}
		}
	}
	return ""
}
