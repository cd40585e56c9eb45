package match

import "fmt"

// Sport tags the rule variant a match is played under.
type Sport string

// Built-in sports.
const (
	SportTennis     Sport = "tennis"
	SportPadel      Sport = "padel"
	SportPickleball Sport = "pickleball"
	SportBadminton  Sport = "badminton"
)

// Family selects which scoring engine interprets a policy.
type Family string

const (
	// FamilyAdvantage covers sports scored in games with 0/15/30/40/AD labels.
	FamilyAdvantage Family = "advantage"
	// FamilyRally covers sports scored in numeric rallies (rally or side-out).
	FamilyRally Family = "rally"
)

// Policy is the immutable rule configuration for one sport variant.
//
// A policy is fixed once a match starts; swapping policies mid-match is
// undefined behavior and is never attempted by the engines.
type Policy struct {
	Sport Sport `json:"sport"`

	// SetsToWin is the number of sets required to win the match.
	SetsToWin int `json:"sets_to_win"`

	// GamesPerSet is the game count required to win a set
	// (advantage family only).
	GamesPerSet int `json:"games_per_set,omitempty"`

	// TiebreakAt is the game count at which a set enters a tiebreak
	// when both sides reach it. Zero disables tiebreaks.
	TiebreakAt int `json:"tiebreak_at,omitempty"`

	// FinalSetSuperTiebreak enables a larger tiebreak target on the
	// deciding set; SuperTiebreakTo is its target (e.g. 10).
	FinalSetSuperTiebreak bool `json:"final_set_super_tiebreak,omitempty"`
	SuperTiebreakTo       int  `json:"super_tiebreak_to,omitempty"`

	// Advantage enables deuce/advantage play at 40-40. When false, the
	// side scoring from 40-40 wins the game outright (sudden death).
	Advantage bool `json:"advantage,omitempty"`

	// WinByTwo requires a two-point lead to close a rally game.
	WinByTwo bool `json:"win_by_two,omitempty"`

	// PointsPerGame is the rally-family game target (e.g. 11, 21).
	PointsPerGame int `json:"points_per_game,omitempty"`

	// RallyScoring awards a point to whichever side wins a rally.
	// SideOut restricts scoring to the serving side; the receiving side
	// winning a rally rotates serve instead. At most one is set.
	RallyScoring bool `json:"rally_scoring,omitempty"`
	SideOut      bool `json:"side_out,omitempty"`
}

// Family returns the engine family the policy belongs to.
func (p Policy) Family() Family {
	if p.RallyScoring || p.SideOut {
		return FamilyRally
	}
	return FamilyAdvantage
}

// TiebreakTarget returns the point target for a tiebreak played in the
// given set number under this policy.
func (p Policy) TiebreakTarget(setNumber int) int {
	if p.FinalSetSuperTiebreak && setNumber == p.DecidingSet() {
		return p.SuperTiebreakTo
	}
	return 7
}

// DecidingSet returns the number of the last possible set of a match.
func (p Policy) DecidingSet() int {
	return 2*p.SetsToWin - 1
}

// Validate checks the structural sanity of a policy. Built-in policies are
// valid by construction; this guards externally loaded rule files.
func (p Policy) Validate() error {
	if p.Sport == "" {
		return fmt.Errorf("policy: sport is required")
	}
	if p.SetsToWin < 1 {
		return fmt.Errorf("policy %s: sets_to_win must be at least 1", p.Sport)
	}
	if p.RallyScoring && p.SideOut {
		return fmt.Errorf("policy %s: rally_scoring and side_out are mutually exclusive", p.Sport)
	}
	switch p.Family() {
	case FamilyRally:
		if p.PointsPerGame < 1 {
			return fmt.Errorf("policy %s: points_per_game must be at least 1", p.Sport)
		}
	case FamilyAdvantage:
		if p.GamesPerSet < 1 {
			return fmt.Errorf("policy %s: games_per_set must be at least 1", p.Sport)
		}
		if p.TiebreakAt < 0 {
			return fmt.Errorf("policy %s: tiebreak_at must not be negative", p.Sport)
		}
		if p.FinalSetSuperTiebreak && p.SuperTiebreakTo < 2 {
			return fmt.Errorf("policy %s: super_tiebreak_to must be at least 2", p.Sport)
		}
	}
	return nil
}

// builtins holds the compiled-in policies, keyed by sport.
// The map is read-only after package initialization.
var builtins = map[Sport]Policy{
	SportTennis: {
		Sport:                 SportTennis,
		SetsToWin:             2,
		GamesPerSet:           6,
		TiebreakAt:            6,
		FinalSetSuperTiebreak: true,
		SuperTiebreakTo:       10,
		Advantage:             true,
		WinByTwo:              true,
	},
	SportPadel: {
		// Golden-point padel: no advantage play at deuce.
		Sport:       SportPadel,
		SetsToWin:   2,
		GamesPerSet: 6,
		TiebreakAt:  6,
		Advantage:   false,
		WinByTwo:    true,
	},
	SportPickleball: {
		Sport:         SportPickleball,
		SetsToWin:     2,
		PointsPerGame: 11,
		WinByTwo:      true,
		SideOut:       true,
	},
	SportBadminton: {
		Sport:         SportBadminton,
		SetsToWin:     2,
		PointsPerGame: 21,
		WinByTwo:      true,
		RallyScoring:  true,
	},
}

// PolicyFor returns the built-in policy for a sport.
func PolicyFor(sport Sport) (Policy, bool) {
	p, ok := builtins[sport]
	return p, ok
}

// Sports returns the built-in sports in a stable order.
func Sports() []Sport {
	return []Sport{SportTennis, SportPadel, SportPickleball, SportBadminton}
}
