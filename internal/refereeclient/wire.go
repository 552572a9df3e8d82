package refereeclient

import (
	"fmt"

	"github.com/nprevot/hitman/internal/herr"
	"github.com/nprevot/hitman/internal/referee"
	"github.com/nprevot/hitman/pkg/board"
)

// wireCell is one entry of a phase-1 submission.
type wireCell struct {
	I       int    `json:"i"`
	J       int    `json:"j"`
	Content string `json:"content"`
}

type wireSubmission struct {
	Cells []wireCell `json:"cells"`
}

// wireObservation mirrors referee.Observation over the wire; Facing is
// omitted (empty string) for non-person content.
type wireObservation struct {
	I       int    `json:"i"`
	J       int    `json:"j"`
	Content string `json:"content"`
	Facing  string `json:"facing,omitempty"`
}

// wireStatus mirrors referee.Status over the wire.
type wireStatus struct {
	Cols        int               `json:"cols"`
	Rows        int               `json:"rows"`
	GuardCount  int               `json:"guard_count"`
	CivilCount  int               `json:"civil_count"`
	PosI        int               `json:"pos_i"`
	PosJ        int               `json:"pos_j"`
	Orientation string            `json:"orientation"`
	Vision      []wireObservation `json:"vision"`
	Hear        int               `json:"hear"`
	Penalties   int               `json:"penalties"`
	FinalScore  int               `json:"final_score"`
}

func (w wireStatus) toStatus() (referee.Status, error) {
	dir, err := directionFromTag(w.Orientation)
	if err != nil {
		return referee.Status{}, err
	}
	vision := make([]referee.Observation, len(w.Vision))
	for i, v := range w.Vision {
		content, err := contentFromTag(v.Content)
		if err != nil {
			return referee.Status{}, err
		}
		var facing board.Direction
		if content.IsPerson() {
			facing, err = directionFromTag(v.Facing)
			if err != nil {
				return referee.Status{}, err
			}
		}
		vision[i] = referee.Observation{Pos: board.Coord{I: v.I, J: v.J}, Content: content, Facing: facing}
	}
	return referee.Status{
		Cols:        w.Cols,
		Rows:        w.Rows,
		GuardCount:  w.GuardCount,
		CivilCount:  w.CivilCount,
		Position:    board.Coord{I: w.PosI, J: w.PosJ},
		Orientation: dir,
		Vision:      vision,
		Hear:        w.Hear,
		Penalties:   w.Penalties,
		FinalScore:  w.FinalScore,
	}, nil
}

func contentFromTag(tag string) (board.Content, error) {
	switch tag {
	case "unknown":
		return board.Unknown, nil
	case "empty":
		return board.Empty, nil
	case "wall":
		return board.Wall, nil
	case "rope":
		return board.Rope, nil
	case "suit":
		return board.Suit, nil
	case "target":
		return board.Target, nil
	case "guard":
		return board.Guard, nil
	case "guest":
		return board.Guest, nil
	default:
		return 0, fmt.Errorf("unrecognized content tag %q: %w", tag, herr.ErrInvalidArgument)
	}
}

func directionFromTag(tag string) (board.Direction, error) {
	switch tag {
	case "N":
		return board.North, nil
	case "E":
		return board.East, nil
	case "S":
		return board.South, nil
	case "W":
		return board.West, nil
	default:
		return 0, fmt.Errorf("unrecognized direction tag %q: %w", tag, herr.ErrInvalidArgument)
	}
}
