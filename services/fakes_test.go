package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Dosada05/volley-planner/models"
	"github.com/Dosada05/volley-planner/repositories"
	"github.com/Dosada05/volley-planner/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo answers each email with a scripted sequence of lookups; the
// last entry repeats once the script runs out.
type fakeUserRepo struct {
	mu      sync.Mutex
	scripts map[string][]models.UserLookup
	errs    map[string]error
	calls   map[string]int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		scripts: map[string][]models.UserLookup{},
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeUserRepo) found(email string, id models.ID) *fakeUserRepo {
	f.scripts[email] = []models.UserLookup{{Status: models.LookupFound, User: &models.User{ID: id, Email: email}}}
	return f
}

func (f *fakeUserRepo) script(email string, lookups ...models.UserLookup) *fakeUserRepo {
	f.scripts[email] = lookups
	return f
}

func (f *fakeUserRepo) callCount(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[email]
}

func (f *fakeUserRepo) LookupByEmail(ctx context.Context, email string) (models.UserLookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.calls[email]
	f.calls[email] = n + 1
	if err, ok := f.errs[email]; ok {
		return models.UserLookup{}, err
	}
	script, ok := f.scripts[email]
	if !ok || len(script) == 0 {
		return models.UserLookup{Status: models.LookupNotFound}, nil
	}
	if n >= len(script) {
		n = len(script) - 1
	}
	return script[n], nil
}

type fakeTeamRepo struct {
	mu         sync.Mutex
	teams      []models.Team
	listErr    error
	createErr  error
	addErr     error
	created    []models.CreateTeamPayload
	addedTeam  models.ID
	addedPlays []models.TeamPlayer
}

func (f *fakeTeamRepo) ListWithMembers(ctx context.Context) ([]models.Team, error) {
	return f.teams, f.listErr
}

func (f *fakeTeamRepo) Create(ctx context.Context, tournamentID string, payload models.CreateTeamPayload) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, payload)
	return &models.Team{ID: "team-1", Name: payload.Name, TournamentID: tournamentID, CaptainID: payload.CaptainID}, nil
}

func (f *fakeTeamRepo) AddMembers(ctx context.Context, teamID models.ID, players []models.TeamPlayer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addedTeam = teamID
	f.addedPlays = players
	return f.addErr
}

type fakePlanningRepo struct {
	doc          *repositories.PlanningDocument
	err          error
	generated    []string
	fetchedCount int
}

func (f *fakePlanningRepo) Generate(ctx context.Context, tournamentID string) (*repositories.PlanningDocument, error) {
	f.generated = append(f.generated, tournamentID)
	return f.doc, f.err
}

func (f *fakePlanningRepo) GetByTournament(ctx context.Context, tournamentID string) (*repositories.PlanningDocument, error) {
	f.fetchedCount++
	return f.doc, f.err
}

type fakeTournamentRepo struct {
	tournaments []models.Tournament
	err         error
}

func (f *fakeTournamentRepo) List(ctx context.Context) ([]models.Tournament, error) {
	return f.tournaments, f.err
}

type broadcast struct {
	room    string
	message any
}

type fakeBroadcaster struct {
	sent []broadcast
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, message any) {
	f.sent = append(f.sent, broadcast{room: roomID, message: message})
}

type fakeUploader struct {
	key         string
	contentType string
	body        []byte
	err         error
	deleted     []string
	deleteErr   error
}

func (f *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	f.key, f.contentType, f.body = key, contentType, buf.Bytes()
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
