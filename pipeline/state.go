package pipeline

// State is the stage a run is in.
//
// A run moves Idle → Reading → (CopyOnly | Recoding) → Writing → Done. Aborted is terminal and can be reached from
// Reading, Recoding (cancellation only) and Writing.
type State int

const (
	Idle State = iota
	Reading
	CopyOnly
	Recoding
	Writing
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reading:
		return "reading"
	case CopyOnly:
		return "copy only"
	case Recoding:
		return "recoding"
	case Writing:
		return "writing"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal returns true for Done and Aborted.
func (s State) Terminal() bool {
	return s == Done || s == Aborted
}
