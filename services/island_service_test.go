package services

import (
	"fmt"
	"testing"

	"student-rewards-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIslandStack(t *testing.T) *IslandService {
	t.Helper()
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	return NewIslandService(db, NewBadgeService(db, ledger))
}

func seedDeck(t *testing.T, svc *IslandService, size int) {
	t.Helper()
	for i := 0; i < size; i++ {
		require.NoError(t, svc.CreateCard(&models.IslandCard{
			Situation: fmt.Sprintf("Situation %d", i),
			Options: models.OptionList{
				{Text: "Safe", Consequence: "Nothing happens", Survival: 1},
				{Text: "Clever", Consequence: "You improvise", Ingenuity: 2},
				{Text: "Together", Consequence: "The group helps", Teamwork: 3},
			},
		}))
	}
}

func TestIslandFullGame(t *testing.T) {
	svc := newIslandStack(t)
	seedStudent(t, svc.DB, "100", 0)
	seedDeck(t, svc, 16)

	state, err := svc.StartGame("100")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Round)
	assert.Equal(t, IslandMaxRounds, state.MaxRounds)
	require.Len(t, state.Cards, IslandCardsPerDraw)
	assert.Equal(t, 13, state.DeckLeft)

	for round := 1; round <= IslandMaxRounds; round++ {
		option, _, err := svc.Choose("100", 0, 1)
		require.NoError(t, err)
		assert.Equal(t, "Clever", option.Text)

		state, err = svc.NextRound("100")
		require.NoError(t, err)
		if round < IslandMaxRounds {
			assert.False(t, state.Finished)
			assert.Equal(t, round+1, state.Round)
		}
	}

	assert.True(t, state.Finished)
	assert.Equal(t, IslandMaxRounds, state.Rounds)
	assert.Equal(t, 2*IslandMaxRounds, state.Ingenuity)
	assert.Zero(t, state.Survival)

	var student models.Student
	require.NoError(t, svc.DB.First(&student, "ci = ?", "100").Error)
	assert.Equal(t, IslandMaxRounds, student.IslandRounds)

	// The game is gone once finished.
	_, _, err = svc.Choose("100", 0, 0)
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestIslandEndsEarlyWhenDeckRunsDry(t *testing.T) {
	svc := newIslandStack(t)
	seedStudent(t, svc.DB, "100", 0)
	seedDeck(t, svc, 6) // two rounds worth

	_, err := svc.StartGame("100")
	require.NoError(t, err)

	_, _, err = svc.Choose("100", 0, 0)
	require.NoError(t, err)
	state, err := svc.NextRound("100")
	require.NoError(t, err)
	assert.False(t, state.Finished)

	_, _, err = svc.Choose("100", 0, 0)
	require.NoError(t, err)
	state, err = svc.NextRound("100")
	require.NoError(t, err)
	assert.True(t, state.Finished)
	assert.Equal(t, 2, state.Rounds)
}

func TestIslandChooseGuards(t *testing.T) {
	svc := newIslandStack(t)
	seedStudent(t, svc.DB, "100", 0)
	seedDeck(t, svc, 16)

	_, _, err := svc.Choose("100", 0, 0)
	assert.ErrorIs(t, err, ErrNoGame)

	_, err = svc.StartGame("100")
	require.NoError(t, err)

	_, _, err = svc.Choose("100", 5, 0)
	assert.ErrorIs(t, err, ErrCardNotDrawn)
	_, _, err = svc.Choose("100", 0, 7)
	assert.ErrorIs(t, err, ErrOptionNotDrawn)

	_, err = svc.NextRound("100")
	assert.ErrorIs(t, err, ErrNothingChosen)

	_, _, err = svc.Choose("100", 0, 0)
	require.NoError(t, err)
	_, _, err = svc.Choose("100", 1, 0)
	assert.ErrorIs(t, err, ErrAlreadyChosen)
}

func TestIslandFinishSurfacesCounterFailure(t *testing.T) {
	svc := newIslandStack(t)
	seedStudent(t, svc.DB, "100", 0)
	seedDeck(t, svc, 6)

	_, err := svc.StartGame("100")
	require.NoError(t, err)
	_, _, err = svc.Choose("100", 0, 0)
	require.NoError(t, err)
	_, err = svc.NextRound("100")
	require.NoError(t, err)
	_, _, err = svc.Choose("100", 0, 0)
	require.NoError(t, err)

	// The round counter write fails on the final advance; the player must
	// see the failure, not a successful final state.
	require.NoError(t, svc.DB.Migrator().DropTable(&models.Student{}))
	_, err = svc.NextRound("100")
	require.Error(t, err)

	require.NoError(t, svc.DB.AutoMigrate(&models.Student{}))
	seedStudent(t, svc.DB, "100", 0)

	state, err := svc.NextRound("100")
	require.NoError(t, err)
	assert.True(t, state.Finished, "the session stays open for a retry")

	var student models.Student
	require.NoError(t, svc.DB.First(&student, "ci = ?", "100").Error)
	assert.Equal(t, 2, student.IslandRounds)
}

func TestIslandRestartKeepsCompletedRounds(t *testing.T) {
	svc := newIslandStack(t)
	seedStudent(t, svc.DB, "100", 0)
	seedDeck(t, svc, 16)

	_, err := svc.StartGame("100")
	require.NoError(t, err)
	_, _, err = svc.Choose("100", 0, 0)
	require.NoError(t, err)
	_, err = svc.NextRound("100")
	require.NoError(t, err)

	// Abandoning after one completed round still counts that round.
	_, err = svc.StartGame("100")
	require.NoError(t, err)

	var student models.Student
	require.NoError(t, svc.DB.First(&student, "ci = ?", "100").Error)
	assert.Equal(t, 1, student.IslandRounds)
}

func TestIslandDeckTooSmall(t *testing.T) {
	svc := newIslandStack(t)
	seedStudent(t, svc.DB, "100", 0)
	seedDeck(t, svc, 2)

	_, err := svc.StartGame("100")
	assert.ErrorIs(t, err, ErrDeckTooSmall)
}

func TestCreateCardValidation(t *testing.T) {
	svc := newIslandStack(t)
	err := svc.CreateCard(&models.IslandCard{
		Situation: "Two options only",
		Options:   models.OptionList{{Text: "a"}, {Text: "b"}},
	})
	assert.ErrorIs(t, err, ErrBadCardOptions)
}

func TestSeedIslandDeckIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedIslandDeck(db))

	var first int64
	require.NoError(t, db.Model(&models.IslandCard{}).Count(&first).Error)
	assert.Positive(t, first)

	require.NoError(t, SeedIslandDeck(db))
	var second int64
	require.NoError(t, db.Model(&models.IslandCard{}).Count(&second).Error)
	assert.Equal(t, first, second)
}
