package types

import "slices"

// Clone returns a copy of the player that shares no memory with p
func (p *Player) Clone() Player {
	out := *p
	out.Attributes = p.Attributes.Clone()
	out.Nationalities = slices.Clone(p.Nationalities)
	out.TransferHistory = slices.Clone(p.TransferHistory)
	if p.InjuryReturn != nil {
		back := *p.InjuryReturn
		out.InjuryReturn = &back
	}
	return out
}

// Clone returns a copy of the record with its own goalkeeping block
func (a Attributes) Clone() Attributes {
	if a.Goalkeeping != nil {
		gk := *a.Goalkeeping
		a.Goalkeeping = &gk
	}
	return a
}

// Clone returns a copy of the team that shares no memory with t
func (t *Team) Clone() Team {
	out := *t
	out.PlayerIDs = slices.Clone(t.PlayerIDs)
	out.Lineup = slices.Clone(t.Lineup)
	out.SeasonStats.Form = slices.Clone(t.SeasonStats.Form)
	return out
}

// Clone returns a copy of the match that shares no memory with m
func (m *Match) Clone() Match {
	out := *m
	if m.Result != nil {
		result := *m.Result
		result.Events = slices.Clone(m.Result.Events)
		result.HomeLineup = slices.Clone(m.Result.HomeLineup)
		result.AwayLineup = slices.Clone(m.Result.AwayLineup)
		out.Result = &result
	}
	return out
}

// Clone returns a copy of the offer that shares no memory with o
func (o *TransferOffer) Clone() TransferOffer {
	out := *o
	if o.ClosedAt != nil {
		closed := *o.ClosedAt
		out.ClosedAt = &closed
	}
	return out
}
