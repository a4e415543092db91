package services

import (
	"errors"
	"log"
	"math/rand"
	"sync"

	"student-rewards-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	IslandMaxRounds    = 5
	IslandCardsPerDraw = 3
)

var (
	ErrNoGame         = errors.New("no island game in progress")
	ErrDeckTooSmall   = errors.New("not enough cards in the deck")
	ErrCardNotDrawn   = errors.New("card index out of range")
	ErrOptionNotDrawn = errors.New("option index out of range")
	ErrAlreadyChosen  = errors.New("a card was already chosen this round")
	ErrNothingChosen  = errors.New("choose a card before advancing")
	ErrCardNotFound   = errors.New("island card not found")
	ErrBadCardOptions = errors.New("island card needs exactly 3 options")
)

// islandGame is the in-memory state of one running survival game.
type islandGame struct {
	deck    []models.IslandCard
	current []models.IslandCard
	round   int
	chosen  bool

	survival  int
	ingenuity int
	teamwork  int
}

// IslandService runs the La Isla decision-card game: shuffle the deck, deal
// three situation cards a round, let the group pick one and live with the
// consequence. Rounds played feed the la_isla_rounds badge criteria.
type IslandService struct {
	DB     *gorm.DB
	Badges *BadgeService

	mu    sync.Mutex
	games map[string]*islandGame
}

func NewIslandService(db *gorm.DB, badges *BadgeService) *IslandService {
	return &IslandService{DB: db, Badges: badges, games: make(map[string]*islandGame)}
}

// GameState is the player-visible snapshot.
type GameState struct {
	Round     int                 `json:"round"`
	MaxRounds int                 `json:"max_rounds"`
	DeckLeft  int                 `json:"deck_left"`
	Cards     []models.IslandCard `json:"cards,omitempty"`
	Survival  int                 `json:"survival"`
	Ingenuity int                 `json:"ingenuity"`
	Teamwork  int                 `json:"teamwork"`
	Finished  bool                `json:"finished"`
	Rounds    int                 `json:"rounds_played,omitempty"`
}

// StartGame shuffles the full deck and deals the first round. An unfinished
// previous game is abandoned, but its completed rounds still count.
func (s *IslandService) StartGame(ci string) (*GameState, error) {
	var cards []models.IslandCard
	if err := s.DB.Find(&cards).Error; err != nil {
		return nil, err
	}
	if len(cards) < IslandCardsPerDraw {
		return nil, ErrDeckTooSmall
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, running := s.games[ci]; running {
		if err := s.recordRounds(ci, completedRounds(old)); err != nil {
			return nil, err
		}
		delete(s.games, ci)
	}

	rand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	game := &islandGame{
		deck:    cards[IslandCardsPerDraw:],
		current: cards[:IslandCardsPerDraw],
		round:   1,
	}
	s.games[ci] = game
	return s.stateOf(game), nil
}

// Choose picks one of the dealt cards and one of its options, applying the
// option's stat deltas. One choice per round, no take-backs.
func (s *IslandService) Choose(ci string, cardIndex, optionIndex int) (*models.CardOption, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, running := s.games[ci]
	if !running {
		return nil, nil, ErrNoGame
	}
	if game.chosen {
		return nil, nil, ErrAlreadyChosen
	}
	if cardIndex < 0 || cardIndex >= len(game.current) {
		return nil, nil, ErrCardNotDrawn
	}
	card := game.current[cardIndex]
	if optionIndex < 0 || optionIndex >= len(card.Options) {
		return nil, nil, ErrOptionNotDrawn
	}

	option := card.Options[optionIndex]
	game.survival += option.Survival
	game.ingenuity += option.Ingenuity
	game.teamwork += option.Teamwork
	game.chosen = true

	return &option, s.stateOf(game), nil
}

// NextRound deals the next three cards, or finishes the game after the last
// round (or when the deck runs dry). Finishing records the rounds played
// against the student and re-checks automatic badges.
func (s *IslandService) NextRound(ci string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, running := s.games[ci]
	if !running {
		return nil, ErrNoGame
	}
	if !game.chosen {
		return nil, ErrNothingChosen
	}

	if game.round < IslandMaxRounds && len(game.deck) >= IslandCardsPerDraw {
		game.current = game.deck[:IslandCardsPerDraw]
		game.deck = game.deck[IslandCardsPerDraw:]
		game.round++
		game.chosen = false
		return s.stateOf(game), nil
	}

	// Record before discarding the game: if the counter write fails the
	// session stays open and the player can retry the final advance.
	rounds := game.round
	if err := s.recordRounds(ci, rounds); err != nil {
		return nil, err
	}

	final := &GameState{
		Round:     game.round,
		MaxRounds: IslandMaxRounds,
		Survival:  game.survival,
		Ingenuity: game.ingenuity,
		Teamwork:  game.teamwork,
		Finished:  true,
		Rounds:    rounds,
	}
	delete(s.games, ci)
	return final, nil
}

func completedRounds(game *islandGame) int {
	if game.chosen {
		return game.round
	}
	return game.round - 1
}

// recordRounds bumps the student's lifetime round counter. Called with the
// service mutex held; the DB update itself is a single atomic increment.
func (s *IslandService) recordRounds(ci string, rounds int) error {
	if rounds <= 0 {
		return nil
	}
	err := s.DB.Model(&models.Student{}).
		Where("ci = ?", ci).
		Update("island_rounds", gorm.Expr("island_rounds + ?", rounds)).Error
	if err != nil {
		return err
	}
	log.Printf("🏝️ La Isla: %s played %d rounds", ci, rounds)

	if _, err := s.Badges.EvaluateAndUnlock(ci); err != nil {
		log.Printf("⚠️  Badge evaluation after island game failed for %s: %v", ci, err)
	}
	return nil
}

func (s *IslandService) stateOf(game *islandGame) *GameState {
	return &GameState{
		Round:     game.round,
		MaxRounds: IslandMaxRounds,
		DeckLeft:  len(game.deck),
		Cards:     game.current,
		Survival:  game.survival,
		Ingenuity: game.ingenuity,
		Teamwork:  game.teamwork,
	}
}

// Cards lists the full deck, for administration.
func (s *IslandService) Cards() ([]models.IslandCard, error) {
	var cards []models.IslandCard
	err := s.DB.Order("id ASC").Find(&cards).Error
	return cards, err
}

// CreateCard validates and stores a situation card.
func (s *IslandService) CreateCard(card *models.IslandCard) error {
	if len(card.Options) != 3 {
		return ErrBadCardOptions
	}
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	return s.DB.Create(card).Error
}

// DeleteCard removes a situation card from the deck.
func (s *IslandService) DeleteCard(id string) error {
	res := s.DB.Delete(&models.IslandCard{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}
