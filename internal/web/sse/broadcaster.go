package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/apollo/internal/api/response"
	"github.com/mcoot/apollo/internal/model"
)

// ScoreboardEvent is the SSE event name carrying the scoreboard
const ScoreboardEvent = "scoreboard"

// ScoreboardSource provides the current scoreboard
type ScoreboardSource interface {
	Scoreboard(ctx context.Context) model.Scoreboard
}

// Broadcaster pushes the scoreboard to the hub whenever the state changes
// and on a fixed interval.
type Broadcaster struct {
	hub      *Hub
	source   ScoreboardSource
	interval time.Duration
	logger   *slog.Logger
	changed  chan struct{}
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, source ScoreboardSource, interval time.Duration, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:      hub,
		source:   source,
		interval: interval,
		logger:   logger.With(slog.String("component", "sse-broadcaster")),
		changed:  make(chan struct{}, 1),
	}
}

// StateChanged schedules a push without blocking
func (b *Broadcaster) StateChanged() {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

// Run pushes updates until ctx is cancelled
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.changed:
			b.push(ctx)
		case <-ticker.C:
			b.push(ctx)
		}
	}
}

// Message renders the current scoreboard as an SSE event
func (b *Broadcaster) Message(ctx context.Context) ([]byte, error) {
	data, err := json.Marshal(response.ScoreboardFromModel(b.source.Scoreboard(ctx)))
	if err != nil {
		return nil, fmt.Errorf("encode scoreboard: %w", err)
	}
	return formatSSEMessage(ScoreboardEvent, string(data)), nil
}

func (b *Broadcaster) push(ctx context.Context) {
	if b.hub.ClientCount() == 0 {
		return
	}
	msg, err := b.Message(ctx)
	if err != nil {
		b.logger.Error("sse failed to render scoreboard", slog.Any("error", err))
		return
	}
	b.hub.Broadcast(msg)
}
