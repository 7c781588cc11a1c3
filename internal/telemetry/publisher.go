package telemetry

import (
	"log/slog"

	"github.com/san-kum/turretlab/internal/control"
	"github.com/san-kum/turretlab/internal/dynamo"
)

// FrameSource is satisfied by control.Robot.
type FrameSource interface {
	Frame() control.Frame
}

// Publisher is a step observer that refreshes a Table and broadcasts it
// every Every steps.
type Publisher struct {
	src   FrameSource
	table *Table
	hub   *Hub
	every int
	n     int
	log   *slog.Logger
}

// NewPublisher returns a publisher. hub may be nil to only fill the table.
func NewPublisher(src FrameSource, table *Table, hub *Hub, every int) *Publisher {
	if every < 1 {
		every = 1
	}
	return &Publisher{src: src, table: table, hub: hub, every: every, log: slog.Default()}
}

func (p *Publisher) OnStep(x dynamo.State, u dynamo.Control, t float64) {
	p.n++
	if (p.n-1)%p.every != 0 {
		return
	}
	f := p.src.Frame()
	p.table.Publish(f)
	if p.hub == nil {
		return
	}
	if err := p.hub.Broadcast(Message{Frame: f, Dashboard: p.table.Snapshot()}); err != nil {
		p.log.Warn("telemetry broadcast failed", "err", err)
	}
}
