package handlers

import (
	"errors"
	"log"
	"os"
	"time"

	"student-rewards-system/middleware"
	"student-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

const (
	studentTokenTTL = 30 * 24 * time.Hour
	adminTokenTTL   = 12 * time.Hour
)

type loginBody struct {
	CI   string `json:"ci" validate:"required"`
	Name string `json:"name"`
}

type adminLoginBody struct {
	Code string `json:"code" validate:"required"`
}

// SetupAuthRoutes wires token issuance. Students sign in with their CI and
// are registered on first login; admins exchange the shared access code.
func SetupAuthRoutes(app *fiber.App, students *services.StudentService) {
	auth := app.Group("/auth")

	auth.Post("/login", func(c *fiber.Ctx) error {
		var body loginBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "cause": err.Error()})
		}
		if err := validate.Struct(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ci is required"})
		}

		student, err := students.Get(body.CI)
		if errors.Is(err, services.ErrStudentNotFound) {
			student, err = students.Create(body.CI, body.Name)
			if err == nil {
				log.Printf("🧑‍🎓 Registered student %s", body.CI)
			}
		}
		if err != nil {
			return fail(c, err)
		}

		token, err := middleware.IssueToken(student.CI, middleware.RoleStudent, studentTokenTTL)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not issue token"})
		}
		return c.JSON(fiber.Map{"token": token, "student": student})
	})

	auth.Post("/admin", func(c *fiber.Ctx) error {
		var body adminLoginBody
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "cause": err.Error()})
		}

		expected := os.Getenv("ADMIN_ACCESS_CODE")
		if expected == "" || body.Code != expected {
			log.Println("🚫 Rejected admin access code")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid access code"})
		}

		token, err := middleware.IssueToken("admin", middleware.RoleAdmin, adminTokenTTL)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not issue token"})
		}
		return c.JSON(fiber.Map{"token": token})
	})
}
