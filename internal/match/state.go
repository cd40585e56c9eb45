package match

// ScorePair is a numeric tally for each side.
type ScorePair struct {
	Side1 int `json:"side1"`
	Side2 int `json:"side2"`
}

// Get returns the given side's value.
func (p ScorePair) Get(s Side) int {
	if s == Side1 {
		return p.Side1
	}
	return p.Side2
}

// Add returns a copy with one added for the given side.
func (p ScorePair) Add(s Side) ScorePair {
	if s == Side1 {
		p.Side1++
	} else {
		p.Side2++
	}
	return p
}

// Lead returns how far the given side is ahead (negative if behind).
func (p ScorePair) Lead(s Side) int {
	if s == Side1 {
		return p.Side1 - p.Side2
	}
	return p.Side2 - p.Side1
}

// Total returns the sum of both tallies.
func (p ScorePair) Total() int {
	return p.Side1 + p.Side2
}

// SetState is one set of a match.
//
// A set has a winner only once its policy's win condition is met. While
// IsTiebreak is true the Tiebreak tally must be non-nil; the active game
// state is unused for the duration of the tiebreak.
type SetState struct {
	// Number is the 1-based set number.
	Number int `json:"number"`

	// Games counts games won by each side. For rally-family sports a set
	// is a single game, so the winner's count reaches exactly 1.
	Games ScorePair `json:"games"`

	// IsTiebreak marks the set as being decided by a tiebreak.
	IsTiebreak bool `json:"is_tiebreak"`

	// Tiebreak is the running tiebreak tally, nil unless a tiebreak has
	// started. It is retained after the set ends for score formatting.
	Tiebreak *ScorePair `json:"tiebreak,omitempty"`

	// TiebreakServer is the side that served the first tiebreak point.
	// Serve rotation inside and after the tiebreak derives from it.
	TiebreakServer Side `json:"tiebreak_server,omitempty"`

	// Points records the final rally tallies of a completed rally-family
	// set (the "11-7" score line). Nil for advantage-family sets.
	Points *ScorePair `json:"points,omitempty"`

	// Winner is SideNone until the set is decided.
	Winner Side `json:"winner,omitempty"`
}

// Clone returns an independent copy of the set.
func (s SetState) Clone() SetState {
	if s.Tiebreak != nil {
		tb := *s.Tiebreak
		s.Tiebreak = &tb
	}
	if s.Points != nil {
		pts := *s.Points
		s.Points = &pts
	}
	return s
}

// State is the full value of a match at one instant.
//
// States are immutable: engine transitions and event replay always produce
// new values, so a snapshot recorded in the event log never changes after
// the fact.
type State struct {
	// MatchID identifies the match the state belongs to.
	MatchID string `json:"match_id"`

	// Policy is the rule configuration the match is played under.
	Policy Policy `json:"policy"`

	// Sets is the ordered set history; one entry is appended as each set
	// begins. sets[CurrentSet] is the only set without a winner unless
	// the match is complete.
	Sets []SetState `json:"sets"`

	// CurrentSet indexes the active set within Sets.
	CurrentSet int `json:"current_set"`

	// Game is the active game sub-state. Unused while the current set is
	// in a tiebreak (the tiebreak tally lives on the set).
	Game Game `json:"game"`

	// Serving is the side serving the next rally.
	Serving Side `json:"serving"`

	// Winner is SideNone until the match completes.
	Winner Side `json:"winner,omitempty"`

	// Complete is true once a side has won the required sets. All
	// further transitions are no-ops.
	Complete bool `json:"complete"`
}

// Clone returns a deep, independent copy of the state.
func (s State) Clone() State {
	sets := make([]SetState, len(s.Sets))
	for i, set := range s.Sets {
		sets[i] = set.Clone()
	}
	s.Sets = sets
	if s.Game != nil {
		s.Game = s.Game.Clone()
	}
	return s
}

// ActiveSet returns a pointer to the current set of the (already cloned)
// state. Callers own the state they pass; the pointer is only valid until
// the next clone.
func (s *State) ActiveSet() *SetState {
	return &s.Sets[s.CurrentSet]
}

// SetsWon counts completed sets won by the given side.
func (s State) SetsWon(side Side) int {
	n := 0
	for _, set := range s.Sets {
		if set.Winner == side {
			n++
		}
	}
	return n
}
