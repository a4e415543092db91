package services

import (
	"log"

	"student-rewards-system/models"

	"gorm.io/gorm"
)

// starterDeck is the default card set loaded on first boot. Admins can edit
// or replace it afterwards.
var starterDeck = []models.IslandCard{
	{ID: "storm", Situation: "A tropical storm is closing in on the island", Options: models.OptionList{
		{Text: "Shelter in a nearby cave", Consequence: "You find a safe, dry refuge", Survival: 2, Ingenuity: 0, Teamwork: 1},
		{Text: "Build a temporary shelter", Consequence: "The shelter holds but needs repairs", Survival: 1, Ingenuity: 2, Teamwork: 1},
		{Text: "Climb to higher ground", Consequence: "The exposure takes its toll", Survival: -1, Ingenuity: 1, Teamwork: 0},
	}},
	{ID: "food", Situation: "Food supplies are running low", Options: models.OptionList{
		{Text: "Fish along the coast", Consequence: "You catch several fish", Survival: 2, Ingenuity: 1, Teamwork: 0},
		{Text: "Forage for fruit in the jungle", Consequence: "You find coconuts and bananas", Survival: 1, Ingenuity: 0, Teamwork: 1},
		{Text: "Set animal traps", Consequence: "The traps barely work", Survival: 0, Ingenuity: 1, Teamwork: -1},
	}},
	{ID: "water", Situation: "The freshwater source is contaminated", Options: models.OptionList{
		{Text: "Boil the water before drinking", Consequence: "Most contaminants are removed", Survival: 1, Ingenuity: 1, Teamwork: 0},
		{Text: "Build a sand filter", Consequence: "You get cleaner water", Survival: 0, Ingenuity: 2, Teamwork: 1},
		{Text: "Ignore the contamination", Consequence: "The group falls badly ill", Survival: -2, Ingenuity: 0, Teamwork: 0},
	}},
	{ID: "shelter", Situation: "Animals have wrecked the main shelter", Options: models.OptionList{
		{Text: "Rebuild with stronger materials", Consequence: "The new shelter is tougher", Survival: 1, Ingenuity: 2, Teamwork: 1},
		{Text: "Scout a new campsite", Consequence: "You find a safer spot", Survival: 0, Ingenuity: 1, Teamwork: 1},
		{Text: "Sleep in the open", Consequence: "Insects and cold make for a rough night", Survival: -1, Ingenuity: 0, Teamwork: 0},
	}},
	{ID: "navigation", Situation: "The group gets lost on an expedition", Options: models.OptionList{
		{Text: "Navigate by sun and stars", Consequence: "You make it back to camp", Survival: 1, Ingenuity: 2, Teamwork: 0},
		{Text: "Follow a river downstream", Consequence: "You reach the coast", Survival: 0, Ingenuity: 1, Teamwork: 1},
		{Text: "Wander without a plan", Consequence: "You get even more lost", Survival: -1, Ingenuity: 0, Teamwork: 0},
	}},
	{ID: "fire", Situation: "Nobody can get a campfire going", Options: models.OptionList{
		{Text: "Use a bow drill", Consequence: "A small flame catches", Survival: 1, Ingenuity: 2, Teamwork: 0},
		{Text: "Strike stones for sparks", Consequence: "After much effort, the fire lights", Survival: 0, Ingenuity: 1, Teamwork: 1},
		{Text: "Give up and wait for dawn", Consequence: "A cold night for everyone", Survival: -1, Ingenuity: 0, Teamwork: 0},
	}},
	{ID: "illness", Situation: "A group member falls seriously ill", Options: models.OptionList{
		{Text: "Try local medicinal herbs", Consequence: "They slowly recover", Survival: 1, Ingenuity: 1, Teamwork: 1},
		{Text: "Prescribe rest and fluids", Consequence: "A full recovery", Survival: 2, Ingenuity: 0, Teamwork: 1},
		{Text: "Ignore the illness", Consequence: "Things get worse", Survival: -2, Ingenuity: 0, Teamwork: -1},
	}},
	{ID: "animals", Situation: "Wild animals are circling the camp", Options: models.OptionList{
		{Text: "Make noise to scare them off", Consequence: "The animals retreat", Survival: 1, Ingenuity: 1, Teamwork: 1},
		{Text: "Light a fire to keep them away", Consequence: "They avoid the flames", Survival: 2, Ingenuity: 1, Teamwork: 0},
		{Text: "Confront them head on", Consequence: "The group takes injuries", Survival: -1, Ingenuity: 0, Teamwork: -1},
	}},
	{ID: "tools", Situation: "An essential tool breaks", Options: models.OptionList{
		{Text: "Improvise a replacement", Consequence: "The makeshift tool works well", Survival: 1, Ingenuity: 2, Teamwork: 0},
		{Text: "Repair the broken tool", Consequence: "Good as new", Survival: 0, Ingenuity: 2, Teamwork: 1},
		{Text: "Do nothing", Consequence: "The missing tool hurts everyone", Survival: -1, Ingenuity: 0, Teamwork: 0},
	}},
	{ID: "communication", Situation: "You need to reach the outside world", Options: models.OptionList{
		{Text: "Build a smoke signal", Consequence: "A passing plane spots it", Survival: 2, Ingenuity: 2, Teamwork: 1},
		{Text: "Send a message in a bottle", Consequence: "Someone finds the bottle", Survival: 1, Ingenuity: 1, Teamwork: 0},
		{Text: "Wait to be found", Consequence: "The wait drags on", Survival: 0, Ingenuity: 0, Teamwork: 0},
	}},
	{ID: "exploration", Situation: "The group debates exploring uncharted terrain", Options: models.OptionList{
		{Text: "Mount a well-equipped expedition", Consequence: "You discover valuable resources", Survival: 1, Ingenuity: 2, Teamwork: 1},
		{Text: "Go in unprepared", Consequence: "Unexpected dangers strike", Survival: -1, Ingenuity: 0, Teamwork: 0},
		{Text: "Stay at camp", Consequence: "An opportunity slips away", Survival: 0, Ingenuity: 0, Teamwork: 0},
	}},
	{ID: "leadership", Situation: "The group argues over who should lead", Options: models.OptionList{
		{Text: "Elect a leader democratically", Consequence: "The group works better together", Survival: 1, Ingenuity: 0, Teamwork: 2},
		{Text: "Let the strongest take charge", Consequence: "Resentment builds", Survival: 0, Ingenuity: 0, Teamwork: -1},
		{Text: "Go leaderless", Consequence: "The group falls apart", Survival: -1, Ingenuity: 0, Teamwork: -2},
	}},
	{ID: "morale", Situation: "Group morale has hit bottom", Options: models.OptionList{
		{Text: "Organize games and downtime", Consequence: "Spirits lift", Survival: 0, Ingenuity: 1, Teamwork: 2},
		{Text: "Set small achievable goals", Consequence: "Motivation returns", Survival: 1, Ingenuity: 1, Teamwork: 1},
		{Text: "Ignore the problem", Consequence: "Morale keeps sliding", Survival: 0, Ingenuity: 0, Teamwork: -1},
	}},
	{ID: "resources", Situation: "You discover a valuable new resource", Options: models.OptionList{
		{Text: "Use it wisely", Consequence: "Quality of life improves", Survival: 2, Ingenuity: 1, Teamwork: 1},
		{Text: "Hoard it", Consequence: "Conflicts flare up", Survival: 0, Ingenuity: 0, Teamwork: -1},
		{Text: "Set clear sharing rules", Consequence: "The group works better together", Survival: 1, Ingenuity: 1, Teamwork: 1},
	}},
	{ID: "weather", Situation: "Extreme weather puts the group to the test", Options: models.OptionList{
		{Text: "Adapt to the conditions", Consequence: "The group pulls through", Survival: 2, Ingenuity: 1, Teamwork: 1},
		{Text: "Hunker down in shelter", Consequence: "Everyone stays protected", Survival: 1, Ingenuity: 1, Teamwork: 1},
		{Text: "Push on regardless", Consequence: "The group suffers", Survival: -1, Ingenuity: 0, Teamwork: 0},
	}},
	{ID: "raft", Situation: "Someone proposes building a raft to escape", Options: models.OptionList{
		{Text: "Plan the build carefully", Consequence: "A seaworthy raft takes shape", Survival: 1, Ingenuity: 2, Teamwork: 1},
		{Text: "Lash something together fast", Consequence: "It falls apart in the surf", Survival: -1, Ingenuity: 1, Teamwork: 0},
		{Text: "Stay and improve the camp", Consequence: "Life on the island gets easier", Survival: 1, Ingenuity: 0, Teamwork: 1},
	}},
}

// SeedIslandDeck loads the starter deck on an empty table. Idempotent.
func SeedIslandDeck(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.IslandCard{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if err := db.Create(&starterDeck).Error; err != nil {
		return err
	}
	log.Printf("🏝️ Seeded La Isla deck with %d cards", len(starterDeck))
	return nil
}
