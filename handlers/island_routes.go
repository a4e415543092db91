package handlers

import (
	"student-rewards-system/middleware"
	"student-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

type chooseBody struct {
	Card   *int `json:"card" validate:"required"`
	Option *int `json:"option" validate:"required"`
}

func SetupIslandRoutes(app *fiber.App, island *services.IslandService) {
	group := app.Group("/island", middleware.StudentAuth())

	group.Post("/start", func(c *fiber.Ctx) error {
		state, err := island.StartGame(studentCI(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(state)
	})

	group.Post("/choose", func(c *fiber.Ctx) error {
		var body chooseBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "cause": err.Error()})
		}
		if err := validate.Struct(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "card and option are required"})
		}

		option, state, err := island.Choose(studentCI(c), *body.Card, *body.Option)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"consequence": option, "game": state})
	})

	group.Post("/next", func(c *fiber.Ctx) error {
		state, err := island.NextRound(studentCI(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(state)
	})
}
