package handlers

import (
	"student-rewards-system/middleware"
	"student-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

type answerBody struct {
	Option *int `json:"option" validate:"required"`
}

func SetupTriviaRoutes(app *fiber.App, trivias *services.TriviaService) {
	group := app.Group("/trivias", middleware.StudentAuth())

	group.Get("/", func(c *fiber.Ctx) error {
		active, err := trivias.ActiveTrivias()
		if err != nil {
			return fail(c, err)
		}
		completed, err := trivias.CompletedIDs(studentCI(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"trivias": active, "completed": completed})
	})

	group.Post("/:id/start", func(c *fiber.Ctx) error {
		state, err := trivias.Start(studentCI(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(state)
	})

	group.Post("/:id/answer", func(c *fiber.Ctx) error {
		var body answerBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "cause": err.Error()})
		}
		if err := validate.Struct(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "option is required"})
		}

		state, err := trivias.Answer(studentCI(c), c.Params("id"), *body.Option)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(state)
	})
}
