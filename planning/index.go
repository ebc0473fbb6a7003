package planning

import (
	"sort"

	"github.com/Dosada05/volley-planner/models"
)

// DeriveTimeSlots returns the distinct "HH:MM" start labels, sorted.
// Lexicographic order on zero-padded 24h labels is chronological order.
func DeriveTimeSlots(matches []models.Match) []string {
	seen := make(map[string]struct{}, len(matches))
	slots := make([]string, 0, len(matches))
	for _, m := range matches {
		label := ClockLabel(m.StartTime)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		slots = append(slots, label)
	}
	sort.Strings(slots)
	return slots
}

// DeriveCourts returns the distinct court numbers in ascending numeric order.
func DeriveCourts(matches []models.Match) []int {
	seen := make(map[int]struct{}, len(matches))
	courts := make([]int, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.Court]; ok {
			continue
		}
		seen[m.Court] = struct{}{}
		courts = append(courts, m.Court)
	}
	sort.Ints(courts)
	return courts
}

// MatchAt returns the first match, in flattened order, starting at slot on court.
func MatchAt(matches []models.Match, slot string, court int) (models.Match, bool) {
	for _, m := range matches {
		if m.Court == court && ClockLabel(m.StartTime) == slot {
			return m, true
		}
	}
	return models.Match{}, false
}

type slotKey struct {
	slot  string
	court int
}

// ScheduleIndex answers slot/court lookups in constant time. It is built once
// from a flat match list and is read-only afterwards.
type ScheduleIndex struct {
	timeSlots []string
	courts    []int
	cells     map[slotKey]models.Match
	conflicts []models.Match
}

func NewScheduleIndex(matches []models.Match) *ScheduleIndex {
	idx := &ScheduleIndex{
		timeSlots: DeriveTimeSlots(matches),
		courts:    DeriveCourts(matches),
		cells:     make(map[slotKey]models.Match, len(matches)),
	}
	for _, m := range matches {
		key := slotKey{slot: ClockLabel(m.StartTime), court: m.Court}
		if _, taken := idx.cells[key]; taken {
			// first match wins, later ones are shadowed
			idx.conflicts = append(idx.conflicts, m)
			continue
		}
		idx.cells[key] = m
	}
	return idx
}

func (idx *ScheduleIndex) TimeSlots() []string {
	return append([]string(nil), idx.timeSlots...)
}

func (idx *ScheduleIndex) Courts() []int {
	return append([]int(nil), idx.courts...)
}

func (idx *ScheduleIndex) At(slot string, court int) (models.Match, bool) {
	m, ok := idx.cells[slotKey{slot: slot, court: court}]
	return m, ok
}

// Conflicts lists matches hidden by an earlier match on the same slot and court.
func (idx *ScheduleIndex) Conflicts() []models.Match {
	return append([]models.Match(nil), idx.conflicts...)
}
