package handlers

import (
	"student-rewards-system/middleware"
	"student-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

type profileBody struct {
	FavoriteMovie  string `json:"favorite_movie"`
	FavoriteHobby  string `json:"favorite_hobby"`
	FavoriteTeam   string `json:"favorite_team"`
	FavoriteMusic  string `json:"favorite_music"`
	FavoriteGame   string `json:"favorite_game"`
	AdditionalInfo string `json:"additional_info"`
}

func SetupStudentRoutes(app *fiber.App, students *services.StudentService, ledger *services.LedgerService) {
	me := app.Group("/me", middleware.StudentAuth())

	me.Get("/", func(c *fiber.Ctx) error {
		student, err := students.Get(studentCI(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"student": student,
			"level":   services.LevelFor(student.Points),
		})
	})

	me.Put("/profile", func(c *fiber.Ctx) error {
		var body profileBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "cause": err.Error()})
		}

		awarded, err := students.UpdateProfile(studentCI(c), services.ProfileUpdate{
			FavoriteMovie:  body.FavoriteMovie,
			FavoriteHobby:  body.FavoriteHobby,
			FavoriteTeam:   body.FavoriteTeam,
			FavoriteMusic:  body.FavoriteMusic,
			FavoriteGame:   body.FavoriteGame,
			AdditionalInfo: body.AdditionalInfo,
		})
		if err != nil {
			return fail(c, err)
		}

		student, err := students.Get(studentCI(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"student": student, "bonus_awarded": awarded})
	})

	me.Get("/movements", func(c *fiber.Ctx) error {
		movements, err := ledger.MovementsFor(studentCI(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"movements": movements})
	})

	app.Get("/leaderboard", middleware.StudentAuth(), func(c *fiber.Ctx) error {
		top, own, err := students.Leaderboard(studentCI(c), 3)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"top": top, "me": own})
	})
}
