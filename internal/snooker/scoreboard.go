// Package snooker keeps the little side-room snooker scoreboard. It is
// deliberately an instance with its own lock rather than package state, so
// two scoreboards (or concurrent requests against one) can't corrupt each
// other.
package snooker

import "sync"

const (
	SlotTop    = "top"
	SlotBottom = "bottom"
)

const foulPenalty = 4

type State struct {
	Top            int  `json:"top"`
	Bottom         int  `json:"bottom"`
	ColoursEnabled bool `json:"colours_enabled"`
}

type Action struct {
	Type  string `json:"type"`
	Slot  string `json:"slot"`
	Value *int   `json:"value"`
}

type Scoreboard struct {
	mu    sync.Mutex
	state State
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{}
}

func (s *Scoreboard) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs one scoring action and returns the resulting state. Potting a
// red arms a colour attempt; the colour (or a miss or foul) disarms it.
// Unknown actions leave the board untouched.
func (s *Scoreboard) Apply(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action.Type {
	case "reset":
		s.state = State{}

	case "red":
		if slot := s.slot(action.Slot); slot != nil {
			*slot++
			s.state.ColoursEnabled = true
		}

	case "colour":
		if slot := s.slot(action.Slot); s.state.ColoursEnabled && slot != nil && action.Value != nil {
			*slot += *action.Value
			s.state.ColoursEnabled = false
		}

	case "miss":
		s.state.ColoursEnabled = false

	case "foul":
		if slot := s.slot(action.Slot); slot != nil {
			*slot -= foulPenalty
		}
		s.state.ColoursEnabled = false

	case "foul_colour":
		if slot := s.slot(action.Slot); slot != nil && action.Value != nil {
			*slot -= *action.Value
		}
		s.state.ColoursEnabled = false
	}

	return s.state
}

func (s *Scoreboard) slot(name string) *int {
	switch name {
	case SlotTop:
		return &s.state.Top
	case SlotBottom:
		return &s.state.Bottom
	}
	return nil
}
