package grammar

import "fmt"

type ActionKind uint8

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	// ActionReduceThenShift reduces and then shifts the lookahead into
	// State. Left-recursive lists use it to stay flat.
	ActionReduceThenShift
	ActionAccept
)

var actionKindNames = map[ActionKind]string{
	ActionError:           "error",
	ActionShift:           "shift",
	ActionReduce:          "reduce",
	ActionReduceThenShift: "reduce-shift",
	ActionAccept:          "accept",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type StateID uint16

type ProductionID uint16

// Action is one entry of a state's action row. The zero value is the
// implicit error action.
type Action struct {
	Kind       ActionKind
	State      StateID
	Production ProductionID
	PopCount   int
	// Reusable reports whether a lookahead lexed in a different state may
	// be consumed by this action without re-lexing it.
	Reusable bool
}

func (a Action) IsError() bool {
	return a.Kind == ActionError
}

func (a Action) String() string {
	switch a.Kind {
	case ActionShift:
		return fmt.Sprintf("shift %d", a.State)
	case ActionReduce:
		return fmt.Sprintf("reduce %d/%d", a.Production, a.PopCount)
	case ActionReduceThenShift:
		return fmt.Sprintf("reduce %d/%d shift %d", a.Production, a.PopCount, a.State)
	case ActionAccept:
		return "accept"
	}
	return "error"
}
