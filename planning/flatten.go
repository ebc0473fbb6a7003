package planning

import "github.com/Dosada05/volley-planner/models"

// SkippedMatch is a raw match left out of the flat list because one of its
// timestamps could not be parsed. Position is its index inside its pool or round.
type SkippedMatch struct {
	Phase    models.MatchPhase
	PoolID   string
	Position int
	Raw      models.RawMatch
	Err      error
}

type Flattened struct {
	Matches []models.Match
	Skipped []SkippedMatch
}

// Flatten walks the bracket in display order: every pool in order, then
// quarterfinals, semifinals and the final. Missing sections contribute nothing.
// The bracket is never modified.
func Flatten(b *models.Bracket) Flattened {
	var out Flattened
	out.Matches = make([]models.Match, 0, CountRawMatches(b))
	if b == nil {
		return out
	}

	for _, pool := range b.Pools {
		for i, raw := range pool.Matches {
			out.add(raw, models.PhasePool, pool.ID, i)
		}
	}

	if elim := b.EliminationPhase; elim != nil {
		for i, raw := range elim.Quarterfinals {
			out.add(raw, models.PhaseQuarterfinal, "", i)
		}
		for i, raw := range elim.Semifinals {
			out.add(raw, models.PhaseSemifinal, "", i)
		}
		if elim.Final != nil {
			out.add(*elim.Final, models.PhaseFinal, "", 0)
		}
	}
	return out
}

func (f *Flattened) add(raw models.RawMatch, phase models.MatchPhase, poolID string, position int) {
	m, err := normalize(raw, phase, poolID)
	if err != nil {
		f.Skipped = append(f.Skipped, SkippedMatch{
			Phase:    phase,
			PoolID:   poolID,
			Position: position,
			Raw:      raw,
			Err:      err,
		})
		return
	}
	f.Matches = append(f.Matches, m)
}

func normalize(raw models.RawMatch, phase models.MatchPhase, poolID string) (models.Match, error) {
	start, err := ParseInstant(raw.StartTime)
	if err != nil {
		return models.Match{}, err
	}
	end, err := ParseInstant(raw.EndTime)
	if err != nil {
		return models.Match{}, err
	}
	return models.Match{
		Court:     raw.Court,
		TeamA:     raw.TeamA,
		TeamB:     raw.TeamB,
		StartTime: start,
		EndTime:   end,
		Duration:  durationMinutes(start, end),
		Phase:     phase,
		PoolID:    poolID,
	}, nil
}

// CountRawMatches is the number of matches the bracket declares, parsable or not.
func CountRawMatches(b *models.Bracket) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, pool := range b.Pools {
		n += len(pool.Matches)
	}
	if elim := b.EliminationPhase; elim != nil {
		n += len(elim.Quarterfinals) + len(elim.Semifinals)
		if elim.Final != nil {
			n++
		}
	}
	return n
}
