package core

// PlayerID identifies one side of a match.
// Player1 is always the local human on the left half; Player2 is the CPU on the right.
type PlayerID int

const (
	NoPlayer PlayerID = iota
	Player1
	Player2
)

// Opponent returns the other side. NoPlayer maps to NoPlayer.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}

// Index returns 0 for Player1, 1 for Player2 and -1 otherwise.
// Used to address per-side arrays.
func (p PlayerID) Index() int {
	switch p {
	case Player1:
		return 0
	case Player2:
		return 1
	default:
		return -1
	}
}

// String returns a short display label.
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "player"
	case Player2:
		return "cpu"
	default:
		return "none"
	}
}

// MarshalText encodes the side as its display label.
func (p PlayerID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePlayerID is the inverse of String.
func ParsePlayerID(s string) (PlayerID, bool) {
	switch s {
	case "player":
		return Player1, true
	case "cpu":
		return Player2, true
	case "none":
		return NoPlayer, true
	default:
		return NoPlayer, false
	}
}
