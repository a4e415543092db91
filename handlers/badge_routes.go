package handlers

import (
	"student-rewards-system/middleware"
	"student-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBadgeRoutes(app *fiber.App, badges *services.BadgeService) {
	group := app.Group("/badges", middleware.StudentAuth())

	group.Get("/", func(c *fiber.Ctx) error {
		catalog, err := badges.Catalog()
		if err != nil {
			return fail(c, err)
		}
		unlocked, err := badges.UnlockedFor(studentCI(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"badges": catalog, "unlocked": unlocked})
	})

	// Re-runs the award check on demand so the client can refresh after any
	// activity. Already-owned badges are skipped, so spamming this is safe.
	group.Post("/evaluate", func(c *fiber.Ctx) error {
		unlocked, err := badges.EvaluateAndUnlock(studentCI(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"unlocked": unlocked})
	})

	group.Post("/:id/unlock", func(c *fiber.Ctx) error {
		badge, err := badges.UnlockCustom(studentCI(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"badge": badge})
	})
}
