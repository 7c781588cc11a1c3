package telemetry

import (
	"sort"
	"sync"

	"github.com/san-kum/turretlab/internal/control"
)

// Table is a goroutine-safe key/value dashboard. Values are float64, bool
// or string.
type Table struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewTable() *Table {
	return &Table{values: make(map[string]any)}
}

func (t *Table) PutNumber(key string, v float64) { t.put(key, v) }
func (t *Table) PutBoolean(key string, v bool)   { t.put(key, v) }
func (t *Table) PutString(key string, v string)  { t.put(key, v) }

func (t *Table) put(key string, v any) {
	t.mu.Lock()
	t.values[key] = v
	t.mu.Unlock()
}

// Number returns the value under key, or def when it is missing or not a
// number.
func (t *Table) Number(key string, def float64) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.values[key].(float64); ok {
		return v
	}
	return def
}

func (t *Table) Boolean(key string, def bool) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.values[key].(bool); ok {
		return v
	}
	return def
}

func (t *Table) String(key string, def string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.values[key].(string); ok {
		return v
	}
	return def
}

// Keys returns every key in sorted order.
func (t *Table) Keys() []string {
	t.mu.RLock()
	keys := make([]string, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	t.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Snapshot copies the table.
func (t *Table) Snapshot() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]any, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// Publish writes the dashboard entries for one loop frame.
func (t *Table) Publish(f control.Frame) {
	tu, hd := f.Turret, f.Heading

	t.PutNumber("Turret Angle", tu.AngleDegrees)
	t.PutNumber("Turret Encoder", tu.RawPosition)
	t.PutNumber("Turret Output", tu.Output)
	t.PutBoolean("Turret Near Limit", tu.NearLimit)
	t.PutBoolean("Turret Wrapping", tu.Wrapping)
	t.PutNumber("Wrap Direction", float64(tu.WrapDirection))
	t.PutBoolean("Wrap Search Phase", tu.InSearchPhase)
	t.PutNumber("Wrap Start", tu.WrapStart)
	t.PutNumber("Wrap Travel", tu.WrapTravel)
	t.PutNumber("Wrap Count", float64(tu.WrapCount))
	t.PutString("Wrap Last Exit", tu.LastExit)
	t.PutNumber("Tracking Speed", tu.TrackingSpeed)

	t.PutNumber("Gyro Yaw", f.Yaw)
	t.PutBoolean("Auto-turn Active", hd.Active)
	t.PutNumber("Auto-turn Target", hd.Target)
	t.PutNumber("Auto-turn Error", hd.Error)
	t.PutNumber("Auto-turn Settle ms", hd.SettleMs)
	t.PutNumber("Auto-turn Stall ms", hd.StallMs)
	t.PutNumber("Auto-turn Oscillations", float64(hd.Oscillations))
	t.PutString("Auto-turn Outcome", hd.Outcome)

	t.PutBoolean("Target Visible", f.Vision.Visible)
	t.PutNumber("Target Offset", f.Vision.Offset)
	t.PutNumber("Camera Heading", f.CameraHeading)
	t.PutNumber("Time", f.Time)
}
