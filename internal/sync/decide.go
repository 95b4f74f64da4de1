// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sync

import (
	"slices"

	"github.com/tomtom215/crawlspeed/internal/models"
)

// DecisionKind is the outcome of one sweep step.
type DecisionKind int

const (
	// DecisionNone leaves the sweep untouched (log results).
	DecisionNone DecisionKind = iota
	// DecisionQuery issues Decision.Query.
	DecisionQuery
	// DecisionReplay resends Decision.Message verbatim.
	DecisionReplay
	// DecisionStall treats the result as a timeout and steps again.
	DecisionStall
	// DecisionDone ends the sweep.
	DecisionDone
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionNone:
		return "none"
	case DecisionQuery:
		return "query"
	case DecisionReplay:
		return "replay"
	case DecisionStall:
		return "stall"
	case DecisionDone:
		return "done"
	default:
		return "unknown"
	}
}

// Decision is what the job does next.
type Decision struct {
	Kind    DecisionKind
	Axis    models.AggregationType // set for DecisionQuery
	Query   models.LgQuery         // set for DecisionQuery
	Message string                 // set for DecisionReplay
}

// sweepPolicy is the fixed configuration decide works against.
type sweepPolicy struct {
	aggregations []models.AggregationType
	playerLimit  int
	bots         []string
}

func (p *sweepPolicy) enabled(a models.AggregationType) bool {
	return slices.Contains(p.aggregations, a)
}

// decide advances state by one step for result. It consumes at most one item
// from state, may add the result's player, and records replayed kill messages
// in killed. It performs no I/O.
//
// Axes are tried in order player, race, background, god. The player axis stays
// active while fewer than playerLimit-1 players are known and fewer than
// playerLimit player queries were issued, so a stalled bot cannot keep the
// sweep on the player axis forever.
func decide(state *SweepState, policy *sweepPolicy, killed map[string]struct{}, result models.SequellResult) Decision {
	if result.Type == models.ResultLog {
		return Decision{Kind: DecisionNone}
	}

	if policy.enabled(models.AggregationPlayer) &&
		state.PlayerCount() < policy.playerLimit-1 &&
		state.PlayerQueries < policy.playerLimit {
		if result.Type == models.ResultLg {
			state.AddPlayer(result.Player)
		}
		state.PlayerQueries++
		blacklist := make([]string, 0, len(policy.bots)+len(state.Players))
		blacklist = append(blacklist, policy.bots...)
		blacklist = append(blacklist, state.Players...)
		return Decision{
			Kind:  DecisionQuery,
			Axis:  models.AggregationPlayer,
			Query: models.LgQuery{PlayerBlacklist: blacklist},
		}
	}

	if policy.enabled(models.AggregationRace) {
		if race, ok := state.PopRace(); ok {
			return Decision{
				Kind:  DecisionQuery,
				Axis:  models.AggregationRace,
				Query: models.LgQuery{Race: race, PlayerBlacklist: slices.Clone(policy.bots)},
			}
		}
	}

	if policy.enabled(models.AggregationBackground) {
		if bg, ok := state.PopBackground(); ok {
			return Decision{
				Kind:  DecisionQuery,
				Axis:  models.AggregationBackground,
				Query: models.LgQuery{Background: bg, PlayerBlacklist: slices.Clone(policy.bots)},
			}
		}
	}

	if policy.enabled(models.AggregationGod) {
		if god, ok := state.PopGod(); ok {
			return Decision{
				Kind:  DecisionQuery,
				Axis:  models.AggregationGod,
				Query: models.LgQuery{God: god, PlayerBlacklist: slices.Clone(policy.bots)},
			}
		}
	}

	if result.Type == models.ResultKilled {
		if _, seen := killed[result.Message]; !seen {
			killed[result.Message] = struct{}{}
			return Decision{Kind: DecisionReplay, Message: result.Message}
		}
		return Decision{Kind: DecisionStall}
	}

	return Decision{Kind: DecisionDone}
}
