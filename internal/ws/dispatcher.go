package ws

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Dispatcher reshapes inbound frames and broadcasts them to the sender's room.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch relays one inbound frame to every member of the room, sender
// included. Known kinds are reduced to their documented fields; everything
// else goes out unmodified.
func (d *Dispatcher) Dispatch(code string, raw []byte) BroadcastReport {
	msg := Decode(raw)

	var out []byte
	switch m := msg.(type) {
	case TossChoice, TossNumber, TossResult, BatBowlChoice:
		out = d.reshape(m)
		d.registry.cacheToss(code, m.Kind(), out)
	case GameAction:
		out = d.reshape(m)
		d.registry.cacheGameData(code, m.Kind(), out)
	case Opaque:
		out = m.Raw
	default:
		zap.L().Warn("relay.unhandled_kind", zap.String("kind", msg.Kind()))
		out = raw
	}
	return d.Broadcast(code, out)
}

func (d *Dispatcher) reshape(m Message) []byte {
	out, err := json.Marshal(m)
	if err != nil {
		// RawMessage fields were validated by the decoder; not reachable in practice.
		zap.L().Error("relay.reshape", zap.String("kind", m.Kind()), zap.Error(err))
		return nil
	}
	return out
}

// Broadcast sends msg to the current members of the room.
func (d *Dispatcher) Broadcast(code string, msg []byte) BroadcastReport {
	if msg == nil {
		return BroadcastReport{}
	}
	report := fanOut(d.registry.MembersOf(code), msg)
	if report.Skipped() > 0 {
		zap.L().Debug("relay.broadcast",
			zap.String("room", code),
			zap.Int("delivered", report.Delivered()),
			zap.Int("skipped", report.Skipped()),
		)
	}
	return report
}

// BroadcastJSON marshals v and broadcasts it to the room.
func (d *Dispatcher) BroadcastJSON(code string, v any) BroadcastReport {
	msg, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("relay.marshal", zap.String("room", code), zap.Error(err))
		return BroadcastReport{}
	}
	return d.Broadcast(code, msg)
}
