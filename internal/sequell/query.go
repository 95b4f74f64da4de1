// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sequell

import (
	"strings"

	"github.com/tomtom215/crawlspeed/internal/models"
)

// FormatLg renders a structured query as Sequell !lg text. Only won games are requested.
//
//	!lg * win race=Mi cls=Be name!=bot min=dur
func FormatLg(q models.LgQuery) string {
	var b strings.Builder
	b.WriteString("!lg * win")

	writeTerm(&b, "race=", q.Race)
	writeTerm(&b, "cls=", q.Background)
	writeTerm(&b, "god=", q.God)
	for _, name := range q.PlayerBlacklist {
		writeTerm(&b, "name!=", name)
	}
	writeTerm(&b, "min=", q.Filters.Min)
	writeTerm(&b, "max=", q.Filters.Max)

	return b.String()
}

// FormatLog renders a morgue lookup for one game.
func FormatLog(q models.LogQuery) string {
	return "!log * gid=" + q.GID
}

func writeTerm(b *strings.Builder, key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(key)
	// Sequell separates terms on whitespace; multi-word values are joined with underscores.
	b.WriteString(strings.Join(strings.Fields(value), "_"))
}
