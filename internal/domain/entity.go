package domain

// EntityWindowSpec is a per-entity override of the global window.
type EntityWindowSpec struct {
	EntityID string       `json:"entity_id"`
	Start    CalendarDate `json:"start"`
	End      CalendarDate `json:"end"`
}

// Normalized returns the spec with Start <= End.
func (s EntityWindowSpec) Normalized() EntityWindowSpec {
	return EntityWindowSpec{
		EntityID: s.EntityID,
		Start:    MinDate(s.Start, s.End),
		End:      MaxDate(s.Start, s.End),
	}
}

func (s EntityWindowSpec) Bounds() GlobalBounds {
	n := s.Normalized()
	return GlobalBounds{Start: n.Start, End: n.End}
}

// WindowSource records which policy produced an entity's windows.
type WindowSource string

const (
	WindowSourceGlobal        WindowSource = "global"
	WindowSourceOverride      WindowSource = "override"
	WindowSourceControlFull   WindowSource = "control_full"
	WindowSourceControlRandom WindowSource = "control_random"
)

func (s WindowSource) String() string {
	return string(s)
}
