// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

// Package catalog holds the static Dungeon Crawl catalogs the sweep iterates over.
// Every accessor returns a fresh copy so callers may consume the slice freely.
package catalog

import "slices"

var races = []string{
	"Ba", "Ce", "DD", "DE", "Dg", "Dr", "Ds", "Fe", "Fo", "Gh", "Gn", "Gr", "HO", "Ha",
	"Hu", "Ko", "Mf", "Mi", "Mu", "Na", "Og", "Op", "Sp", "Te", "Tr", "VS", "Vp",
}

var backgrounds = []string{
	"AE", "AK", "AM", "Ar", "As", "Be", "CK", "Cj", "EE", "En", "FE", "Fi",
	"Gl", "Hu", "IE", "Mo", "Ne", "Sk", "Su", "Tm", "VM", "Wn", "Wr", "Wz",
}

// godKeywords are the short forms Sequell accepts in god=... filters. The
// matching entry in gods is the name Sequell prints in results.
var godKeywords = []string{
	"Ashenzari", "Beogh", "Cheibriados", "Dithmenos", "Elyvilon", "Fedhas", "Gozag",
	"Hepliaklqana", "Jiyva", "Kikubaaqudgha", "Lugonu", "Makhleb", "Nemelex", "Okawaru",
	"Qazlal", "Ru", "Sif", "Trog", "Uskayaw", "Vehumet", "WJC", "Xom", "Yredelemnul",
	"Zin", "TSO",
}

var gods = []string{
	"Ashenzari", "Beogh", "Cheibriados", "Dithmenos", "Elyvilon", "Fedhas", "Gozag",
	"Hepliaklqana", "Jiyva", "Kikubaaqudgha", "Lugonu", "Makhleb", "Nemelex", "Okawaru",
	"Qazlal", "Ru", "Sif Muna", "Trog", "Uskayaw", "Vehumet", "Wu Jian", "Xom",
	"Yredelemnul", "Zin", "The Shining One",
}

var bots = []string{"bot"}

// comboBlacklist lists combos that cannot be started in current versions
// but still appear on old highscore pages.
var comboBlacklist = []string{"FeAS", "GhTm", "MuTm"}

// Races returns the playable species abbreviations.
func Races() []string { return slices.Clone(races) }

// Backgrounds returns the background abbreviations.
func Backgrounds() []string { return slices.Clone(backgrounds) }

// GodKeywords returns the god names in query form.
func GodKeywords() []string { return slices.Clone(godKeywords) }

// Gods returns the full god names.
func Gods() []string { return slices.Clone(gods) }

// Bots returns player names that are always excluded from queries.
func Bots() []string { return slices.Clone(bots) }

// ComboBlacklist returns the race+background combos skipped by the scraper.
func ComboBlacklist() []string { return slices.Clone(comboBlacklist) }

// GodName maps a query keyword to the full god name. Unknown keywords are returned as is.
func GodName(keyword string) string {
	if i := slices.Index(godKeywords, keyword); i >= 0 {
		return gods[i]
	}
	return keyword
}

// IsBlacklistedCombo reports whether combo (e.g. "GhTm") is on the combo blacklist.
func IsBlacklistedCombo(combo string) bool {
	return slices.Contains(comboBlacklist, combo)
}

// IsRace reports whether abbr is a known species.
func IsRace(abbr string) bool { return slices.Contains(races, abbr) }

// IsBackground reports whether abbr is a known background.
func IsBackground(abbr string) bool { return slices.Contains(backgrounds, abbr) }
