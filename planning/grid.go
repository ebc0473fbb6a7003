package planning

import (
	"fmt"
	"strconv"

	"github.com/Dosada05/volley-planner/models"
)

const (
	TimeColumnLabel = "Time"
	FreeCellLabel   = "Free"
)

// CalendarCell is one court at one time slot. A cell without a match is
// explicitly Free so consumers can tell it apart from data not loaded yet.
type CalendarCell struct {
	Court int           `json:"court"`
	Free  bool          `json:"free"`
	Label string        `json:"label"`
	Match *models.Match `json:"match,omitempty"`
}

type CalendarRow struct {
	TimeSlot string         `json:"time_slot"`
	Cells    []CalendarCell `json:"cells"`
}

// Calendar is the time-by-court grid. Header holds the time column label
// followed by one label per court.
type Calendar struct {
	Header    []string       `json:"header"`
	Courts    []int          `json:"courts"`
	TimeSlots []string       `json:"time_slots"`
	Rows      []CalendarRow  `json:"rows"`
	Conflicts []models.Match `json:"conflicts,omitempty"`
}

func CourtLabel(court int) string {
	return "Court " + strconv.Itoa(court)
}

func BuildCalendar(matches []models.Match) Calendar {
	idx := NewScheduleIndex(matches)
	courts := idx.Courts()
	slots := idx.TimeSlots()

	header := make([]string, 0, len(courts)+1)
	header = append(header, TimeColumnLabel)
	for _, c := range courts {
		header = append(header, CourtLabel(c))
	}

	rows := make([]CalendarRow, 0, len(slots))
	for _, slot := range slots {
		row := CalendarRow{TimeSlot: slot, Cells: make([]CalendarCell, 0, len(courts))}
		for _, court := range courts {
			cell := CalendarCell{Court: court, Free: true, Label: FreeCellLabel}
			if m, ok := idx.At(slot, court); ok {
				match := m
				cell.Free = false
				cell.Label = fmt.Sprintf("%s vs %s", m.TeamA, m.TeamB)
				cell.Match = &match
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}

	return Calendar{
		Header:    header,
		Courts:    courts,
		TimeSlots: slots,
		Rows:      rows,
		Conflicts: idx.Conflicts(),
	}
}

type TableRow struct {
	Key      string            `json:"key"`
	Time     string            `json:"time"`
	Court    int               `json:"court"`
	TeamA    string            `json:"team_a"`
	TeamB    string            `json:"team_b"`
	Phase    models.MatchPhase `json:"phase"`
	Duration int               `json:"duration"`
}

// BuildTable lists matches in flattened order, each with a stable row key.
func BuildTable(matches []models.Match) []TableRow {
	rows := make([]TableRow, 0, len(matches))
	for i, m := range matches {
		rows = append(rows, TableRow{
			Key:      RowKey(i, m),
			Time:     ClockLabel(m.StartTime),
			Court:    m.Court,
			TeamA:    m.TeamA,
			TeamB:    m.TeamB,
			Phase:    m.Phase,
			Duration: m.Duration,
		})
	}
	return rows
}

// RowKey composes index, start, court and both teams into a row identity
// that stays stable across re-renders even when matches share some fields.
func RowKey(index int, m models.Match) string {
	start := "no-time"
	if !m.StartTime.IsZero() {
		start = m.StartTime.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	court := "no-court"
	if m.Court != 0 {
		court = strconv.Itoa(m.Court)
	}
	return fmt.Sprintf("match-%d-%s-%s-%s-%s", index, start, court,
		orDefault(m.TeamA, "team-a"), orDefault(m.TeamB, "team-b"))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
