package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/Dosada05/volley-planner/models"
	"github.com/Dosada05/volley-planner/planning"
	"github.com/Dosada05/volley-planner/repositories"
	"github.com/Dosada05/volley-planner/storage"
	"github.com/google/uuid"
)

const exportContentType = "text/csv; charset=utf-8"

// Broadcaster pushes an event to every client watching a room.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message any)
}

type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type PlanningService interface {
	GeneratePlanning(ctx context.Context, tournamentID string) (*models.Planning, error)
	GetPlanning(ctx context.Context, tournamentID string) (*models.Planning, error)
	GetCalendar(ctx context.Context, tournamentID string) (*planning.Calendar, error)
	GetTable(ctx context.Context, tournamentID string) ([]planning.TableRow, error)
	ExportPlanning(ctx context.Context, tournamentID string) (*ExportResult, error)
}

type planningService struct {
	planningRepo repositories.PlanningRepository
	uploader     storage.FileUploader
	broadcaster  Broadcaster
	logger       *slog.Logger
	now          func() time.Time

	// последний экспорт по турниру; удаляется, когда его заменяют
	exportsMu   sync.Mutex
	lastExports map[string]string
}

// NewPlanningService wires the planning pipeline. uploader and broadcaster may
// be nil: exports are then refused and no realtime event is sent.
func NewPlanningService(
	planningRepo repositories.PlanningRepository,
	uploader storage.FileUploader,
	broadcaster Broadcaster,
	logger *slog.Logger,
) PlanningService {
	if logger == nil {
		logger = slog.Default()
	}
	return &planningService{
		planningRepo: planningRepo,
		uploader:     uploader,
		broadcaster:  broadcaster,
		logger:       logger,
		now:          time.Now,
		lastExports:  make(map[string]string),
	}
}

func (s *planningService) GeneratePlanning(ctx context.Context, tournamentID string) (*models.Planning, error) {
	if tournamentID == "" {
		return nil, ValidationErrors{"tournament_id": "must be provided"}
	}

	doc, err := s.planningRepo.Generate(ctx, tournamentID)
	if err != nil {
		return nil, upstreamError("generate planning for tournament "+tournamentID, err, ErrPlanningNotFound)
	}

	p := s.buildPlanning(ctx, tournamentID, doc)
	s.dropExport(ctx, tournamentID, "")
	s.logger.InfoContext(ctx, "planning generated",
		slog.String("tournament_id", tournamentID),
		slog.Int("total_matches", p.TotalMatches),
		slog.Int("flattened_matches", len(p.Matches)))

	if s.broadcaster != nil {
		room := planning.TournamentRoom(tournamentID)
		s.broadcaster.BroadcastToRoom(room, planning.Event{
			Type: planning.EventPlanningGenerated,
			Payload: map[string]any{
				"tournament_id": tournamentID,
				"total_matches": p.TotalMatches,
			},
			RoomID: room,
		})
	}
	return p, nil
}

func (s *planningService) GetPlanning(ctx context.Context, tournamentID string) (*models.Planning, error) {
	if tournamentID == "" {
		return nil, ValidationErrors{"tournament_id": "must be provided"}
	}

	doc, err := s.planningRepo.GetByTournament(ctx, tournamentID)
	if err != nil {
		return nil, upstreamError("get planning for tournament "+tournamentID, err, ErrPlanningNotFound)
	}
	return s.buildPlanning(ctx, tournamentID, doc), nil
}

func (s *planningService) GetCalendar(ctx context.Context, tournamentID string) (*planning.Calendar, error) {
	p, err := s.GetPlanning(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	cal := planning.BuildCalendar(p.Matches)
	if len(cal.Conflicts) > 0 {
		s.logger.WarnContext(ctx, "planning has matches sharing a court and start time",
			slog.String("tournament_id", tournamentID),
			slog.Int("shadowed", len(cal.Conflicts)))
	}
	return &cal, nil
}

func (s *planningService) GetTable(ctx context.Context, tournamentID string) ([]planning.TableRow, error) {
	p, err := s.GetPlanning(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return planning.BuildTable(p.Matches), nil
}

func (s *planningService) ExportPlanning(ctx context.Context, tournamentID string) (*ExportResult, error) {
	if s.uploader == nil {
		return nil, ErrExportUnavailable
	}

	rows, err := s.GetTable(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	body, err := encodeTableCSV(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	key := fmt.Sprintf("plannings/%s/%s.csv", url.PathEscape(tournamentID), uuid.NewString())
	res, err := s.uploader.Upload(ctx, key, exportContentType, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	s.dropExport(ctx, tournamentID, res.Key)
	s.logger.InfoContext(ctx, "planning exported",
		slog.String("tournament_id", tournamentID),
		slog.String("key", res.Key),
		slog.Int("rows", len(rows)))
	return &ExportResult{Key: res.Key, URL: res.Location}, nil
}

// dropExport deletes the export previously stored for tournamentID and
// records current (if any) as the new one. A failed delete only leaves an
// orphan object behind, so it is logged and not returned.
func (s *planningService) dropExport(ctx context.Context, tournamentID, current string) {
	if s.uploader == nil {
		return
	}

	s.exportsMu.Lock()
	if s.lastExports == nil {
		s.lastExports = make(map[string]string)
	}
	previous := s.lastExports[tournamentID]
	if current == "" {
		delete(s.lastExports, tournamentID)
	} else {
		s.lastExports[tournamentID] = current
	}
	s.exportsMu.Unlock()

	if previous == "" || previous == current {
		return
	}
	if err := s.uploader.Delete(ctx, previous); err != nil {
		s.logger.WarnContext(ctx, "failed to delete superseded planning export",
			slog.String("tournament_id", tournamentID),
			slog.String("key", previous),
			slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "superseded planning export deleted",
		slog.String("tournament_id", tournamentID),
		slog.String("key", previous))
}

// buildPlanning flattens the bracket. Matches with unparsable timestamps are
// dropped from the views and logged so the rest of the schedule still renders.
func (s *planningService) buildPlanning(ctx context.Context, tournamentID string, doc *repositories.PlanningDocument) *models.Planning {
	flat := planning.Flatten(doc.Bracket)
	for _, sk := range flat.Skipped {
		s.logger.WarnContext(ctx, "skipping match with malformed timestamp",
			slog.String("tournament_id", tournamentID),
			slog.String("phase", string(sk.Phase)),
			slog.String("pool_id", sk.PoolID),
			slog.Int("position", sk.Position),
			slog.Any("error", sk.Err))
	}

	total := planning.CountRawMatches(doc.Bracket)
	if doc.TotalMatches != nil {
		total = *doc.TotalMatches
	}

	return &models.Planning{
		TournamentID: tournamentID,
		TotalMatches: total,
		Bracket:      doc.Bracket,
		Matches:      flat.Matches,
		FetchedAt:    s.now().UTC(),
	}
}

func encodeTableCSV(rows []planning.TableRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Time", "Court", "Team A", "Team B", "Phase", "Duration (min)"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			r.Time,
			strconv.Itoa(r.Court),
			r.TeamA,
			r.TeamB,
			string(r.Phase),
			strconv.Itoa(r.Duration),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
