package services

import (
	"context"

	"github.com/Dosada05/volley-planner/models"
	"github.com/Dosada05/volley-planner/repositories"
)

type TournamentService interface {
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo}
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, upstreamError("list tournaments", err, ErrNotFound)
	}
	if tournaments == nil {
		return []models.Tournament{}, nil
	}
	return tournaments, nil
}
