package carousel

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action    string  `json:"action"`
	Label     string  `json:"label,omitempty"`
	DeltaY    float64 `json:"deltaY,omitempty"`
	Direction string  `json:"direction,omitempty"`
	FromX     float64 `json:"fromX,omitempty"`
	ToX       float64 `json:"toX,omitempty"`
	Index     int     `json:"index,omitempty"`
	Frames    int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure of an input script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner plays a scripted sequence of wheel, key, swipe and screenshot
// actions into a Carousel, one step per frame, for automated visual checks.
//
// Example:
//
//	{"steps": [
//		{"action": "wheel", "deltaY": 120},
//		{"action": "wait", "frames": 30},
//		{"action": "swipe", "fromX": 600, "toX": 200, "frames": 10},
//		{"action": "key", "direction": "right"},
//		{"action": "goto", "index": 3},
//		{"action": "screenshot", "label": "after-swipe"}
//	]}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses and validates a JSON input script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "wheel", "swipe", "goto", "wait", "screenshot":
		case "key":
			if _, ok := parseDirection(st.Direction); !ok {
				return nil, fmt.Errorf("parse input script: step %d: unknown direction %q", i, st.Direction)
			}
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

func parseDirection(s string) (Direction, bool) {
	switch s {
	case "left", "prev":
		return DirectionPrev, true
	case "right", "next":
		return DirectionNext, true
	}
	return 0, false
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Carousel.Update before
// input is polled.
func (r *ScriptRunner) step(c *Carousel) {
	if r.done {
		return
	}
	// Let queued input drain before advancing.
	if c.input.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		c.Screenshot(st.Label)
	case "wheel":
		c.input.InjectWheel(st.DeltaY)
	case "key":
		dir, _ := parseDirection(st.Direction)
		c.input.InjectKey(dir)
	case "swipe":
		c.input.InjectSwipe(st.FromX, st.ToX, st.Frames)
	case "goto":
		c.input.InjectGoTo(st.Index)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && c.input.Pending() == 0 {
		r.done = true
	}
}
