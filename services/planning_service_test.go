package services

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/volley-planner/models"
	"github.com/Dosada05/volley-planner/planning"
	"github.com/Dosada05/volley-planner/repositories"
)

func sampleBracket() *models.Bracket {
	return &models.Bracket{
		Pools: []models.Pool{
			{
				ID:   "A",
				Name: "Poule A",
				Matches: []models.RawMatch{
					{Court: 2, TeamA: "Lions", TeamB: "Tigres", StartTime: "2024-06-01T09:00:00Z", EndTime: "2024-06-01T09:30:00Z"},
					{Court: 1, TeamA: "Aigles", TeamB: "Ours", StartTime: "2024-06-01T09:00:00Z", EndTime: "2024-06-01T09:30:00Z"},
					{Court: 1, TeamA: "Lions", TeamB: "Ours", StartTime: "garbage", EndTime: "2024-06-01T10:00:00Z"},
				},
			},
		},
		EliminationPhase: &models.EliminationPhase{
			Final: &models.RawMatch{Court: 1, TeamA: "Lions", TeamB: "Aigles", StartTime: "2024-06-01T11:00:00Z", EndTime: "2024-06-01T11:45:00Z"},
		},
	}
}

func newTestPlanningService(repo *fakePlanningRepo, up *fakeUploader, b *fakeBroadcaster) *planningService {
	svc := &planningService{
		planningRepo: repo,
		logger:       discardLogger(),
		now:          func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) },
		lastExports:  make(map[string]string),
	}
	if up != nil {
		svc.uploader = up
	}
	if b != nil {
		svc.broadcaster = b
	}
	return svc
}

func TestGeneratePlanning(t *testing.T) {
	total := 12
	repo := &fakePlanningRepo{doc: &repositories.PlanningDocument{Bracket: sampleBracket(), TotalMatches: &total}}
	hub := &fakeBroadcaster{}
	svc := newTestPlanningService(repo, nil, hub)

	p, err := svc.GeneratePlanning(context.Background(), "7")
	if err != nil {
		t.Fatalf("GeneratePlanning: %v", err)
	}
	if len(repo.generated) != 1 || repo.generated[0] != "7" {
		t.Errorf("generate calls = %v", repo.generated)
	}
	if p.TotalMatches != 12 {
		t.Errorf("total = %d, want 12 as reported", p.TotalMatches)
	}
	if len(p.Matches) != 3 {
		t.Fatalf("matches = %d, want 3 (one malformed skipped)", len(p.Matches))
	}
	if p.Matches[2].Phase != models.PhaseFinal {
		t.Errorf("last match phase = %s, want final", p.Matches[2].Phase)
	}
	if !p.FetchedAt.Equal(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("fetched at = %v", p.FetchedAt)
	}

	if len(hub.sent) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(hub.sent))
	}
	if hub.sent[0].room != "tournament_7" {
		t.Errorf("room = %q", hub.sent[0].room)
	}
	ev, ok := hub.sent[0].message.(planning.Event)
	if !ok || ev.Type != planning.EventPlanningGenerated {
		t.Errorf("message = %#v", hub.sent[0].message)
	}
}

func TestGeneratePlanningUpstreamError(t *testing.T) {
	hub := &fakeBroadcaster{}
	svc := newTestPlanningService(&fakePlanningRepo{err: errors.New("503")}, nil, hub)

	_, err := svc.GeneratePlanning(context.Background(), "7")
	if !errors.Is(err, ErrUpstreamFailure) {
		t.Fatalf("err = %v, want ErrUpstreamFailure", err)
	}
	if len(hub.sent) != 0 {
		t.Error("broadcast sent for failed generation")
	}
}

func TestGetPlanning(t *testing.T) {
	svc := newTestPlanningService(&fakePlanningRepo{doc: &repositories.PlanningDocument{Bracket: sampleBracket()}}, nil, nil)

	p, err := svc.GetPlanning(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetPlanning: %v", err)
	}
	// without a reported total the raw count is used, malformed match included
	if p.TotalMatches != 4 {
		t.Errorf("total = %d, want 4", p.TotalMatches)
	}
	if p.TournamentID != "7" || p.Bracket == nil {
		t.Errorf("planning = %+v", p)
	}
}

func TestGetPlanningErrors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		repoErr error
		want    error
	}{
		{name: "empty id", id: "", want: ErrValidationFailed},
		{name: "not found", id: "7", repoErr: repositories.ErrNotFound, want: ErrPlanningNotFound},
		{name: "upstream", id: "7", repoErr: repositories.ErrUnexpectedStatus, want: ErrUpstreamFailure},
		{name: "cancelled", id: "7", repoErr: context.Canceled, want: context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestPlanningService(&fakePlanningRepo{err: tt.repoErr}, nil, nil)
			_, err := svc.GetPlanning(context.Background(), tt.id)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetCalendar(t *testing.T) {
	svc := newTestPlanningService(&fakePlanningRepo{doc: &repositories.PlanningDocument{Bracket: sampleBracket()}}, nil, nil)

	cal, err := svc.GetCalendar(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetCalendar: %v", err)
	}
	wantHeader := []string{"Time", "Court 1", "Court 2"}
	if strings.Join(cal.Header, ",") != strings.Join(wantHeader, ",") {
		t.Errorf("header = %v, want %v", cal.Header, wantHeader)
	}
	if len(cal.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(cal.Rows))
	}
	final := cal.Rows[1]
	if final.TimeSlot != "11:00" || final.Cells[0].Label != "Lions vs Aigles" || !final.Cells[1].Free {
		t.Errorf("11:00 row = %+v", final)
	}
}

func TestGetTable(t *testing.T) {
	svc := newTestPlanningService(&fakePlanningRepo{doc: &repositories.PlanningDocument{Bracket: sampleBracket()}}, nil, nil)

	rows, err := svc.GetTable(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].TeamA != "Lions" || rows[0].Court != 2 || rows[0].Time != "09:00" {
		t.Errorf("row[0] = %+v", rows[0])
	}
}

func TestExportPlanning(t *testing.T) {
	up := &fakeUploader{}
	svc := newTestPlanningService(&fakePlanningRepo{doc: &repositories.PlanningDocument{Bracket: sampleBracket()}}, up, nil)

	res, err := svc.ExportPlanning(context.Background(), "7")
	if err != nil {
		t.Fatalf("ExportPlanning: %v", err)
	}
	if !strings.HasPrefix(res.Key, "plannings/7/") || !strings.HasSuffix(res.Key, ".csv") {
		t.Errorf("key = %q", res.Key)
	}
	if res.URL != "https://cdn.example.com/"+res.Key {
		t.Errorf("url = %q", res.URL)
	}
	if up.contentType != exportContentType {
		t.Errorf("content type = %q", up.contentType)
	}

	records, err := csv.NewReader(strings.NewReader(string(up.body))).ReadAll()
	if err != nil {
		t.Fatalf("uploaded body is not CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want header + 3 rows", len(records))
	}
	if records[0][0] != "Time" || records[0][2] != "Team A" {
		t.Errorf("header = %v", records[0])
	}
	want := []string{"11:00", "1", "Lions", "Aigles", "final", "45"}
	if strings.Join(records[3], "|") != strings.Join(want, "|") {
		t.Errorf("last record = %v, want %v", records[3], want)
	}
}

func TestExportPlanningReplacesPreviousExport(t *testing.T) {
	up := &fakeUploader{}
	svc := newTestPlanningService(&fakePlanningRepo{doc: &repositories.PlanningDocument{Bracket: sampleBracket()}}, up, nil)

	first, err := svc.ExportPlanning(context.Background(), "7")
	if err != nil {
		t.Fatalf("first export: %v", err)
	}
	if len(up.deleted) != 0 {
		t.Fatalf("deleted %v on first export", up.deleted)
	}

	second, err := svc.ExportPlanning(context.Background(), "7")
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if first.Key == second.Key {
		t.Fatal("export keys are not unique")
	}
	if len(up.deleted) != 1 || up.deleted[0] != first.Key {
		t.Errorf("deleted = %v, want [%s]", up.deleted, first.Key)
	}

	// other tournaments keep their exports
	if _, err := svc.ExportPlanning(context.Background(), "8"); err != nil {
		t.Fatalf("export of 8: %v", err)
	}
	if len(up.deleted) != 1 {
		t.Errorf("deleted = %v after exporting another tournament", up.deleted)
	}
}

func TestGeneratePlanningDeletesStaleExport(t *testing.T) {
	up := &fakeUploader{deleteErr: errors.New("already gone")}
	repo := &fakePlanningRepo{doc: &repositories.PlanningDocument{Bracket: sampleBracket()}}
	svc := newTestPlanningService(repo, up, nil)

	exp, err := svc.ExportPlanning(context.Background(), "7")
	if err != nil {
		t.Fatalf("ExportPlanning: %v", err)
	}
	// a failing delete must not fail generation
	if _, err := svc.GeneratePlanning(context.Background(), "7"); err != nil {
		t.Fatalf("GeneratePlanning: %v", err)
	}
	if len(up.deleted) != 1 || up.deleted[0] != exp.Key {
		t.Errorf("deleted = %v, want [%s]", up.deleted, exp.Key)
	}

	if _, err := svc.GeneratePlanning(context.Background(), "7"); err != nil {
		t.Fatalf("second GeneratePlanning: %v", err)
	}
	if len(up.deleted) != 1 {
		t.Errorf("deleted = %v, stale export deleted twice", up.deleted)
	}
}

func TestExportPlanningUnavailable(t *testing.T) {
	repo := &fakePlanningRepo{doc: &repositories.PlanningDocument{Bracket: sampleBracket()}}
	svc := newTestPlanningService(repo, nil, nil)

	if _, err := svc.ExportPlanning(context.Background(), "7"); !errors.Is(err, ErrExportUnavailable) {
		t.Fatalf("err = %v, want ErrExportUnavailable", err)
	}
	if repo.fetchedCount != 0 {
		t.Error("planning fetched although export is unavailable")
	}
}

func TestExportPlanningUploadFails(t *testing.T) {
	up := &fakeUploader{err: errors.New("access denied")}
	svc := newTestPlanningService(&fakePlanningRepo{doc: &repositories.PlanningDocument{Bracket: sampleBracket()}}, up, nil)

	if _, err := svc.ExportPlanning(context.Background(), "7"); !errors.Is(err, ErrExportFailed) {
		t.Fatalf("err = %v, want ErrExportFailed", err)
	}
}

func TestListTournaments(t *testing.T) {
	repo := &fakeTournamentRepo{tournaments: []models.Tournament{{ID: "1", Name: "Open d'été"}}}
	got, err := NewTournamentService(repo).ListTournaments(context.Background())
	if err != nil {
		t.Fatalf("ListTournaments: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Open d'été" {
		t.Errorf("tournaments = %+v", got)
	}

	_, err = NewTournamentService(&fakeTournamentRepo{err: repositories.ErrNotFound}).ListTournaments(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
