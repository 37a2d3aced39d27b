package playback

import "github.com/ramedia/lovescroll/catch"

// Snapshot is a read-only view of the experience for renderers outside the front end
type Snapshot struct {
	Phase    Phase
	FromName string
	ToName   string

	Completed int
	Total     int
	Focused   int
	Caption   string

	// ShowProgress is false during the gate and the finale
	ShowProgress bool

	GatePhase catch.Phase
	Score     int
	Combo     int

	Letter         string
	LetterComplete bool
}

// Snapshot captures the current state
func (p *Player) Snapshot() Snapshot {
	s := Snapshot{
		Phase:        p.phase,
		FromName:     p.exp.FromName,
		ToName:       p.exp.ToName,
		Completed:    p.story.Completed(),
		Total:        p.story.Total(),
		Focused:      p.story.Focused(),
		ShowProgress: p.phase == PhaseStarted,
		GatePhase:    p.gate.Phase(),
		Score:        p.gate.Score(),
		Combo:        p.gate.Combo(),
		Letter:       p.finale.Text(),
	}
	s.LetterComplete = p.finale.Complete()

	units := p.story.Units()
	idx := p.story.OpenIndex()
	if idx < 0 {
		idx = s.Focused
	}
	if idx >= 0 && idx < len(units) {
		s.Caption = units[idx].Caption
	}
	return s
}
