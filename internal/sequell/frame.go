// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package sequell

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/crawlspeed/internal/models"
)

// frameTypeSend is the only outbound frame type understood by the bridge.
const frameTypeSend = "send"

// outboundFrame asks the bridge to say message in the bot's channel.
type outboundFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// errUnknownResultType marks frames that parsed but carry a type the client does not handle.
var errUnknownResultType = errors.New("unknown result type")

func encodeSend(message string) ([]byte, error) {
	return json.Marshal(outboundFrame{Type: frameTypeSend, Message: message})
}

// decodeResult parses an inbound frame. Only lg, log and killed results are accepted;
// timeout and init are local-only and rejected if the bridge ever sends them.
func decodeResult(data []byte) (models.SequellResult, error) {
	var result models.SequellResult
	if err := json.Unmarshal(data, &result); err != nil {
		return models.SequellResult{}, fmt.Errorf("malformed frame: %w", err)
	}
	if !result.Type.IsRemote() {
		return models.SequellResult{}, fmt.Errorf("%w: %q", errUnknownResultType, result.Type)
	}
	return result, nil
}
