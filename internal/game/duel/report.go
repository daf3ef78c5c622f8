package duel

import "github.com/cory-johannsen/steelkilt/internal/game/combat"

// EventKind classifies a turn in the event log.
type EventKind string

const (
	EventAttack   EventKind = "attack"
	EventShot     EventKind = "shot"
	EventAim      EventKind = "aim"
	EventHold     EventKind = "hold"
	EventReady    EventKind = "ready"
	EventReload   EventKind = "reload"
	EventRejected EventKind = "maneuver_rejected"
)

// Event records one combatant's turn.
type Event struct {
	Round int
	Kind  EventKind
	// Side identifies the actor; names need not be unique.
	Side   combat.Side
	Actor  string
	Target string
	// Exchange is set for EventAttack.
	Exchange *combat.Exchange
	// Shot is set for EventShot.
	Shot      *combat.RangedResult
	Narrative string
}

// Outcome is how a duel ended.
type Outcome int

const (
	// Draw means the round limit was reached with both combatants standing.
	Draw Outcome = iota
	// Victory means one combatant can no longer act.
	Victory
)

func (o Outcome) String() string {
	if o == Victory {
		return "victory"
	}
	return "draw"
}

// Report summarizes a finished duel.
type Report struct {
	Rounds  int
	Outcome Outcome
	// Winner and Loser are empty for a Draw.
	Winner    string
	Loser     string
	LoserDead bool
	Events    []Event
}

// Hits returns the number of attacks and shots by side that hit.
func (r *Report) Hits(side combat.Side) int {
	n := 0
	for _, e := range r.Events {
		if e.Side != side {
			continue
		}
		if (e.Exchange != nil && e.Exchange.Hit) || (e.Shot != nil && e.Shot.Hit) {
			n++
		}
	}
	return n
}
