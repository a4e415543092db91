package handlers

import (
	"io"
	"log"
	"net/http"
	"strings"

	"student-rewards-system/middleware"
	"student-rewards-system/services"
	"student-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(app *fiber.App, missions *services.MissionService) {
	group := app.Group("/missions", middleware.StudentAuth())

	group.Get("/", func(c *fiber.Ctx) error {
		active, err := missions.Active()
		if err != nil {
			return fail(c, err)
		}
		submissions, err := missions.SubmissionsFor(studentCI(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"missions": active, "submissions": submissions})
	})

	// Accepts either a multipart "file" (stored in R2) or a "link" form
	// field pointing at external work. Exactly one of the two is required.
	group.Post("/:id/submit", func(c *fiber.Ctx) error {
		url, err := resolveSubmission(c)
		if err != nil {
			return fail(c, err)
		}

		submission, err := missions.Submit(studentCI(c), c.Params("id"), url)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"submission": submission})
	})

	// Proxies stored submission files so the bucket never needs to be public.
	app.Get("/files/+", middleware.StudentAuth(), func(c *fiber.Ctx) error {
		key := c.Params("+")
		body, contentType, err := utils.DownloadObject(c.Context(), key)
		if err != nil {
			log.Printf("⚠️ Could not fetch object %s: %v", key, err)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
		}
		defer body.Close()

		c.Set("Content-Type", contentType)
		data, err := io.ReadAll(body)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not read file"})
		}
		return c.Send(data)
	})
}

func resolveSubmission(c *fiber.Ctx) (string, error) {
	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader != nil {
		return utils.UploadSubmission(fileHeader)
	}

	link := strings.TrimSpace(c.FormValue("link"))
	if link == "" {
		return "", services.ErrEmptySubmission
	}
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return "", services.ErrEmptySubmission
	}

	// Before accepting a link we check it actually resolves.
	resp, err := utils.HTTPClient.Head(link)
	if err != nil {
		return "", services.ErrEmptySubmission
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", services.ErrEmptySubmission
	}
	return link, nil
}
