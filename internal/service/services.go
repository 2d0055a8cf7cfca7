package service

import (
	"github.com/mlockett42/bingo-live/internal/config"
	"github.com/mlockett42/bingo-live/internal/events"
	"github.com/mlockett42/bingo-live/internal/repository"
)

type Services struct {
	Auth      *AuthService
	Game      *GameService
	Draw      *DrawService
	Card      *CardService
	Claim     *ClaimService
	Scheduler *AutoDrawScheduler
}

func NewServices(repos *repository.Repositories, publisher events.Publisher, cfg *config.Config) *Services {
	cards := NewCardService(repos.Card, repos.Draw, cfg)
	draws := NewDrawService(repos.Game, publisher, cfg)
	scheduler := NewAutoDrawScheduler(draws, repos.Game)

	return &Services{
		Auth:      NewAuthService(repos.User, repos.Session, cfg),
		Game:      NewGameService(repos, cards, scheduler, publisher, cfg),
		Draw:      draws,
		Card:      cards,
		Claim:     NewClaimService(repos, cards, publisher, cfg),
		Scheduler: scheduler,
	}
}
