package handlers

import (
	"student-rewards-system/middleware"
	"student-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

type donateBody struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

func SetupStoreRoutes(app *fiber.App, store *services.StoreService) {
	group := app.Group("/store", middleware.StudentAuth())

	group.Get("/", func(c *fiber.Ctx) error {
		normal, unlockable, err := store.Products()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"products": normal, "unlockables": unlockable})
	})

	group.Post("/:id/purchase", func(c *fiber.Ctx) error {
		result, err := store.Purchase(studentCI(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})

	group.Post("/:id/donate", func(c *fiber.Ctx) error {
		var body donateBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "cause": err.Error()})
		}
		if err := validate.Struct(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be a positive number"})
		}

		result, err := store.Donate(studentCI(c), c.Params("id"), body.Amount)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})
}
