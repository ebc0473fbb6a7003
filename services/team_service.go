package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Dosada05/volley-planner/models"
	"github.com/Dosada05/volley-planner/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLookupRetryDelay = 2 * time.Second
	DefaultLookupMaxRetries = 3

	defaultResolveConcurrency = 8
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Sentinels for ResolverConfig: zero fields take the defaults, so turning
// retries or the wait off has to be explicit.
const (
	NoRetries    = -1
	NoRetryDelay = time.Duration(-1)
)

// ResolverConfig bounds the email lookup retry loop. A pending lookup is
// retried MaxRetries times, RetryDelay apart. The zero value is the default
// 2s / 3 retries policy; use NoRetries and NoRetryDelay to disable either.
type ResolverConfig struct {
	RetryDelay  time.Duration
	MaxRetries  int
	Concurrency int
}

func (c ResolverConfig) withDefaults() ResolverConfig {
	switch {
	case c.RetryDelay == 0:
		c.RetryDelay = DefaultLookupRetryDelay
	case c.RetryDelay < 0:
		c.RetryDelay = 0
	}
	switch {
	case c.MaxRetries == 0:
		c.MaxRetries = DefaultLookupMaxRetries
	case c.MaxRetries < 0:
		c.MaxRetries = 0
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaultResolveConcurrency
	}
	return c
}

// ExplicitResolverConfig builds a config from values that are always set, e.g.
// loaded from the environment: a zero delay or retry count means none.
func ExplicitResolverConfig(delay time.Duration, maxRetries int) ResolverConfig {
	cfg := ResolverConfig{RetryDelay: delay, MaxRetries: maxRetries}
	if delay <= 0 {
		cfg.RetryDelay = NoRetryDelay
	}
	if maxRetries <= 0 {
		cfg.MaxRetries = NoRetries
	}
	return cfg
}

// DefaultResolverConfig returns the 2s / 3 retries policy.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		RetryDelay:  DefaultLookupRetryDelay,
		MaxRetries:  DefaultLookupMaxRetries,
		Concurrency: defaultResolveConcurrency,
	}
}

type UnresolvedReason string

const (
	ReasonNotFound        UnresolvedReason = "not_found"
	ReasonLookupExhausted UnresolvedReason = "lookup_exhausted"
	ReasonMissingEmail    UnresolvedReason = "missing_email"
	ReasonLookupFailed    UnresolvedReason = "lookup_failed"
)

// ReasonFor classifies a resolution error.
func ReasonFor(err error) UnresolvedReason {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrUserLookupExhausted):
		return ReasonLookupExhausted
	case errors.Is(err, ErrMemberEmailMissing):
		return ReasonMissingEmail
	default:
		return ReasonLookupFailed
	}
}

type ResolvedMember struct {
	Member models.TeamMember `json:"member"`
	UserID models.ID         `json:"user_id"`
}

type UnresolvedMember struct {
	Member models.TeamMember `json:"member"`
	Reason UnresolvedReason  `json:"reason"`
	Err    error             `json:"-"`
}

// TeamResolution keeps both lists in the order the members were given.
type TeamResolution struct {
	Resolved   []ResolvedMember   `json:"resolved"`
	Unresolved []UnresolvedMember `json:"unresolved"`
}

func (r TeamResolution) Complete() bool {
	return len(r.Unresolved) == 0
}

type CreateTeamInput struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	ContactEmail string              `json:"contact_email"`
	ContactPhone string              `json:"contact_phone"`
	SkillLevel   string              `json:"skill_level"`
	Members      []models.TeamMember `json:"members"`

	// RequireFullRoster refuses to create the team when the captain or any
	// member cannot be resolved to a user id.
	RequireFullRoster bool `json:"require_full_roster"`
}

type TeamCreationResult struct {
	Team          *models.Team     `json:"team"`
	CaptainID     *models.ID       `json:"captain_id"`
	CaptainReason UnresolvedReason `json:"captain_unresolved_reason,omitempty"`
	Resolution    TeamResolution   `json:"resolution"`
	MembersAdded  int              `json:"members_added"`
}

type TeamService interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	CreateTeam(ctx context.Context, tournamentID string, input CreateTeamInput) (*TeamCreationResult, error)
	ResolveEmail(ctx context.Context, email string) (models.ID, error)
	ResolveTeamMembers(ctx context.Context, members []models.TeamMember) TeamResolution
}

type teamService struct {
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
	cfg      ResolverConfig
	logger   *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	cfg ResolverConfig,
	logger *slog.Logger,
) TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &teamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.ListWithMembers(ctx)
	if err != nil {
		return nil, upstreamError("list teams", err, ErrNotFound)
	}
	if teams == nil {
		return []models.Team{}, nil
	}
	return teams, nil
}

// ResolveEmail maps an email to a user id. A pending lookup (invitation just
// sent) is retried after RetryDelay up to MaxRetries times. Transport errors
// are not retried.
func (s *teamService) ResolveEmail(ctx context.Context, email string) (models.ID, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrMemberEmailMissing
	}

	attempts := s.cfg.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		lookup, err := s.userRepo.LookupByEmail(ctx, email)
		if err != nil {
			// a non-2xx status, 404 included, is a failed lookup, not an unknown user
			return "", upstreamError("lookup user "+email, err, ErrUpstreamFailure)
		}

		switch lookup.Status {
		case models.LookupFound:
			if lookup.User == nil || lookup.User.ID == "" {
				return "", fmt.Errorf("%w: lookup of %s returned no user id", ErrUpstreamFailure, email)
			}
			return lookup.User.ID, nil
		case models.LookupNotFound:
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, email)
		case models.LookupPending:
			if attempt == attempts {
				break
			}
			s.logger.DebugContext(ctx, "user invitation pending, retrying lookup",
				slog.String("email", email),
				slog.Int("attempt", attempt),
				slog.Duration("delay", s.cfg.RetryDelay))
			if err := sleepContext(ctx, s.cfg.RetryDelay); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("%w: unknown lookup status %q for %s", ErrUpstreamFailure, lookup.Status, email)
		}
	}

	return "", fmt.Errorf("%w: %s after %d attempts", ErrUserLookupExhausted, email, attempts)
}

// ResolveTeamMembers resolves every member concurrently. One failing lookup
// never affects the others.
func (s *teamService) ResolveTeamMembers(ctx context.Context, members []models.TeamMember) TeamResolution {
	type outcome struct {
		id  models.ID
		err error
	}
	outcomes := make([]outcome, len(members))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, m := range members {
		g.Go(func() error {
			id, err := s.ResolveEmail(ctx, m.Email)
			outcomes[i] = outcome{id: id, err: err}
			return nil
		})
	}
	_ = g.Wait()

	res := TeamResolution{
		Resolved:   []ResolvedMember{},
		Unresolved: []UnresolvedMember{},
	}
	for i, o := range outcomes {
		if o.err != nil {
			res.Unresolved = append(res.Unresolved, UnresolvedMember{
				Member: members[i],
				Reason: ReasonFor(o.err),
				Err:    o.err,
			})
			continue
		}
		res.Resolved = append(res.Resolved, ResolvedMember{Member: members[i], UserID: o.id})
	}
	return res
}

func (s *teamService) CreateTeam(ctx context.Context, tournamentID string, input CreateTeamInput) (*TeamCreationResult, error) {
	if verr := validateCreateTeam(tournamentID, input); verr != nil {
		return nil, verr
	}

	var (
		captainID  models.ID
		captainErr error
		resolution TeamResolution
		g          errgroup.Group
	)
	g.Go(func() error {
		captainID, captainErr = s.ResolveEmail(ctx, input.ContactEmail)
		return nil
	})
	g.Go(func() error {
		resolution = s.ResolveTeamMembers(ctx, input.Members)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, u := range resolution.Unresolved {
		s.logger.WarnContext(ctx, "team member not resolved",
			slog.String("tournament_id", tournamentID),
			slog.String("email", u.Member.Email),
			slog.String("reason", string(u.Reason)),
			slog.Any("error", u.Err))
	}
	if captainErr != nil {
		s.logger.WarnContext(ctx, "team captain not resolved",
			slog.String("tournament_id", tournamentID),
			slog.String("email", input.ContactEmail),
			slog.Any("error", captainErr))
	}

	if input.RequireFullRoster && (captainErr != nil || !resolution.Complete()) {
		return nil, &IncompleteRosterError{
			CaptainEmail: input.ContactEmail,
			CaptainErr:   captainErr,
			Unresolved:   resolution.Unresolved,
		}
	}

	result := &TeamCreationResult{Resolution: resolution}
	var captainRef *models.ID
	if captainErr == nil {
		captainRef = &captainID
		result.CaptainID = captainRef
	} else {
		result.CaptainReason = ReasonFor(captainErr)
	}

	payload := models.CreateTeamPayload{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		TournamentID: tournamentID,
		CaptainID:    captainRef,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		ContactPhone: input.ContactPhone,
		SkillLevel:   input.SkillLevel,
		Notes:        fmt.Sprintf("Team created with %d member(s) added", len(resolution.Resolved)),
	}

	team, err := s.teamRepo.Create(ctx, tournamentID, payload)
	if err != nil {
		return nil, upstreamError("create team", err, ErrNotFound)
	}
	result.Team = team

	if len(resolution.Resolved) == 0 {
		return result, nil
	}

	players := make([]models.TeamPlayer, 0, len(resolution.Resolved))
	for _, r := range resolution.Resolved {
		players = append(players, toTeamPlayer(r))
	}
	if err := s.teamRepo.AddMembers(ctx, team.ID, players); err != nil {
		s.logger.ErrorContext(ctx, "team created but members were not added",
			slog.String("team_id", team.ID.String()),
			slog.Int("members", len(players)),
			slog.Any("error", err))
		return result, fmt.Errorf("%w: team %s: %w", ErrMembersNotAdded, team.ID, err)
	}
	result.MembersAdded = len(players)

	s.logger.InfoContext(ctx, "team created",
		slog.String("tournament_id", tournamentID),
		slog.String("team_id", team.ID.String()),
		slog.Int("members_added", result.MembersAdded),
		slog.Int("members_unresolved", len(resolution.Unresolved)))
	return result, nil
}

func toTeamPlayer(r ResolvedMember) models.TeamPlayer {
	role := r.Member.Role
	if role == "" {
		role = models.MemberRolePlayer
	}
	status := r.Member.Status
	if status == "" {
		status = models.MemberStatusActive
	}
	return models.TeamPlayer{
		UserID:   r.UserID,
		Role:     role,
		Position: r.Member.Position,
		Status:   status,
	}
}

func validateCreateTeam(tournamentID string, input CreateTeamInput) error {
	errs := ValidationErrors{}
	if tournamentID == "" {
		errs["tournament_id"] = "must be provided"
	}
	if strings.TrimSpace(input.Name) == "" {
		errs["name"] = "is required"
	}
	contact := strings.TrimSpace(input.ContactEmail)
	switch {
	case contact == "":
		errs["contact_email"] = "is required"
	case !emailPattern.MatchString(contact):
		errs["contact_email"] = "invalid email format"
	}
	for i, m := range input.Members {
		field := fmt.Sprintf("members[%d]", i)
		if strings.TrimSpace(m.Name) == "" {
			errs[field+".name"] = "is required"
		}
		// members without an email are reported as unresolved, not rejected
		if email := strings.TrimSpace(m.Email); email != "" && !emailPattern.MatchString(email) {
			errs[field+".email"] = "invalid email format"
		}
		if m.Role != "" && m.Role != models.MemberRolePlayer && m.Role != models.MemberRoleCaptain {
			errs[field+".role"] = "must be player or captain"
		}
		if m.Status != "" && m.Status != models.MemberStatusActive && m.Status != models.MemberStatusInactive {
			errs[field+".status"] = "must be active or inactive"
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
