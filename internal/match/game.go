package match

import (
	"encoding/json"
	"fmt"
)

// PointLabel is one step of the advantage-family point sequence.
type PointLabel string

// Point labels in scoring order.
const (
	Love      PointLabel = "0"
	Fifteen   PointLabel = "15"
	Thirty    PointLabel = "30"
	Forty     PointLabel = "40"
	Advantage PointLabel = "AD"
)

// NextLabel returns the label one step further along {0,15,30,40}.
// Labels at or beyond Forty do not advance via this rule; deuce and
// advantage transitions are handled by the engine.
func NextLabel(l PointLabel) PointLabel {
	switch l {
	case Love:
		return Fifteen
	case Fifteen:
		return Thirty
	case Thirty:
		return Forty
	default:
		return l
	}
}

// Game is the in-progress game sub-state of a match. Exactly one variant
// is active per match, selected by the policy's engine family. Dispatch on
// the variant happens only inside the engines, never at call sites.
type Game interface {
	// Kind returns the union discriminator used in snapshots.
	Kind() string
	// Clone returns an independent copy.
	Clone() Game
}

// AdvantageGame holds each side's point label for advantage-family sports.
type AdvantageGame struct {
	Label1 PointLabel `json:"label1"`
	Label2 PointLabel `json:"label2"`
}

// NewAdvantageGame returns a fresh 0-0 game.
func NewAdvantageGame() AdvantageGame {
	return AdvantageGame{Label1: Love, Label2: Love}
}

// Kind implements Game.
func (g AdvantageGame) Kind() string { return "advantage" }

// Clone implements Game.
func (g AdvantageGame) Clone() Game { return g }

// Label returns the given side's point label.
func (g AdvantageGame) Label(s Side) PointLabel {
	if s == Side1 {
		return g.Label1
	}
	return g.Label2
}

// WithLabel returns a copy with the given side's label replaced.
func (g AdvantageGame) WithLabel(s Side, l PointLabel) AdvantageGame {
	if s == Side1 {
		g.Label1 = l
	} else {
		g.Label2 = l
	}
	return g
}

// RallyGame holds each side's rally tally for rally-family sports, plus
// which numbered server slot on the serving side currently serves
// (doubles second-server rotation; only meaningful under side-out rules).
type RallyGame struct {
	Points1    int `json:"points1"`
	Points2    int `json:"points2"`
	ServerSlot int `json:"server_slot"`
}

// NewRallyGame returns a fresh 0-0 game with the first server slot active.
func NewRallyGame() RallyGame {
	return RallyGame{ServerSlot: 1}
}

// Kind implements Game.
func (g RallyGame) Kind() string { return "rally" }

// Clone implements Game.
func (g RallyGame) Clone() Game { return g }

// Points returns the given side's tally.
func (g RallyGame) Points(s Side) int {
	if s == Side1 {
		return g.Points1
	}
	return g.Points2
}

// WithPoint returns a copy with one point added for the given side.
func (g RallyGame) WithPoint(s Side) RallyGame {
	if s == Side1 {
		g.Points1++
	} else {
		g.Points2++
	}
	return g
}

// gameEnvelope is the tagged wire form of the Game union.
type gameEnvelope struct {
	Kind      string         `json:"kind"`
	Advantage *AdvantageGame `json:"advantage,omitempty"`
	Rally     *RallyGame     `json:"rally,omitempty"`
}

// MarshalGame encodes a Game with its discriminator.
func MarshalGame(g Game) ([]byte, error) {
	env := gameEnvelope{Kind: g.Kind()}
	switch v := g.(type) {
	case AdvantageGame:
		env.Advantage = &v
	case RallyGame:
		env.Rally = &v
	default:
		return nil, fmt.Errorf("marshal game: unknown variant %T", g)
	}
	return json.Marshal(env)
}

// UnmarshalGame decodes a tagged Game envelope.
func UnmarshalGame(data []byte) (Game, error) {
	var env gameEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal game: %w", err)
	}
	switch env.Kind {
	case "advantage":
		if env.Advantage == nil {
			return nil, fmt.Errorf("unmarshal game: advantage envelope missing body")
		}
		return *env.Advantage, nil
	case "rally":
		if env.Rally == nil {
			return nil, fmt.Errorf("unmarshal game: rally envelope missing body")
		}
		return *env.Rally, nil
	default:
		return nil, fmt.Errorf("unmarshal game: unknown kind %q", env.Kind)
	}
}
