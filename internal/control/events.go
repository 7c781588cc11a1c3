package control

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownEvent = errors.New("control: unknown event kind")

type EventKind string

const (
	TurnRelative  EventKind = "turn_relative"  // Value: degrees from current yaw
	TurnAbsolute  EventKind = "turn_absolute"  // Value: target yaw
	CancelTurn    EventKind = "cancel_turn"
	Rehome        EventKind = "rehome"
	CancelWrap    EventKind = "cancel_wrap"
	TrackingSpeed EventKind = "tracking_speed" // Value: multiplier
	Jog           EventKind = "jog"            // Value: manual turret output, 0 resumes tracking
	ResetYaw      EventKind = "reset_yaw"      // Value: heading to report from now on
)

var eventKinds = []EventKind{TurnRelative, TurnAbsolute, CancelTurn, Rehome, CancelWrap, TrackingSpeed, Jog, ResetYaw}

// EventKinds lists every accepted kind.
func EventKinds() []EventKind {
	out := make([]EventKind, len(eventKinds))
	copy(out, eventKinds)
	return out
}

// Event is an operator command. Scripted events fire once, on the first
// tick at or after At.
type Event struct {
	At    float64   `yaml:"at" json:"at"`
	Kind  EventKind `yaml:"kind" json:"kind"`
	Value float64   `yaml:"value,omitempty" json:"value,omitempty"`
}

func (e Event) Validate() error {
	for _, k := range eventKinds {
		if e.Kind == k {
			if e.At < 0 {
				return fmt.Errorf("event %s: negative time %g", e.Kind, e.At)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Kind)
}

func (e Event) String() string {
	switch e.Kind {
	case CancelTurn, Rehome, CancelWrap:
		return fmt.Sprintf("%.2fs %s", e.At, e.Kind)
	}
	return fmt.Sprintf("%.2fs %s(%g)", e.At, e.Kind, e.Value)
}

// sortEvents orders a script by time, keeping the written order for ties.
func sortEvents(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}
