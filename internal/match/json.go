package match

import (
	"encoding/json"
	"fmt"
)

// stateJSON is the wire form of State. The Game union needs a tagged
// envelope, so State cannot rely on default struct encoding.
type stateJSON struct {
	MatchID    string          `json:"match_id"`
	Policy     Policy          `json:"policy"`
	Sets       []SetState      `json:"sets"`
	CurrentSet int             `json:"current_set"`
	Game       json.RawMessage `json:"game"`
	Serving    Side            `json:"serving"`
	Winner     Side            `json:"winner,omitempty"`
	Complete   bool            `json:"complete"`
}

// MarshalJSON implements json.Marshaler.
func (s State) MarshalJSON() ([]byte, error) {
	if s.Game == nil {
		return nil, fmt.Errorf("marshal state %s: game state is nil", s.MatchID)
	}
	game, err := MarshalGame(s.Game)
	if err != nil {
		return nil, fmt.Errorf("marshal state %s: %w", s.MatchID, err)
	}
	return json.Marshal(stateJSON{
		MatchID:    s.MatchID,
		Policy:     s.Policy,
		Sets:       s.Sets,
		CurrentSet: s.CurrentSet,
		Game:       game,
		Serving:    s.Serving,
		Winner:     s.Winner,
		Complete:   s.Complete,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(data []byte) error {
	var doc stateJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal state: %w", err)
	}
	game, err := UnmarshalGame(doc.Game)
	if err != nil {
		return fmt.Errorf("unmarshal state %s: %w", doc.MatchID, err)
	}
	*s = State{
		MatchID:    doc.MatchID,
		Policy:     doc.Policy,
		Sets:       doc.Sets,
		CurrentSet: doc.CurrentSet,
		Game:       game,
		Serving:    doc.Serving,
		Winner:     doc.Winner,
		Complete:   doc.Complete,
	}
	return nil
}
