package handlers

import (
	"errors"

	"student-rewards-system/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// fail converts service errors to user-facing notices. Nothing from the
// service layer propagates as an unhandled failure; flows either applied
// fully or not at all, so the client can always just retry.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrBadgeNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrTriviaNotFound),
		errors.Is(err, services.ErrMissionNotFound),
		errors.Is(err, services.ErrCardNotFound),
		errors.Is(err, services.ErrNoAttempt),
		errors.Is(err, services.ErrNoGame):
		return fiber.StatusNotFound

	case errors.Is(err, services.ErrTriviaAlreadyAnswered),
		errors.Is(err, services.ErrBadgeAlreadyOwned),
		errors.Is(err, services.ErrAlreadyPurchased),
		errors.Is(err, services.ErrAlreadySubmitted),
		errors.Is(err, services.ErrAttemptInProgress),
		errors.Is(err, services.ErrAlreadyChosen),
		errors.Is(err, services.ErrProductUnlocked),
		errors.Is(err, services.ErrTriviaExists),
		errors.Is(err, services.ErrStudentExists),
		errors.Is(err, services.ErrBadgeNameTaken):
		return fiber.StatusConflict

	case errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrNegativeAmount),
		errors.Is(err, services.ErrInvalidDonation),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidOption),
		errors.Is(err, services.ErrBadQuestionSet),
		errors.Is(err, services.ErrBadCardOptions),
		errors.Is(err, services.ErrDeckTooSmall),
		errors.Is(err, services.ErrCardNotDrawn),
		errors.Is(err, services.ErrOptionNotDrawn),
		errors.Is(err, services.ErrNothingChosen),
		errors.Is(err, services.ErrTriviaInactive),
		errors.Is(err, services.ErrMissionInactive),
		errors.Is(err, services.ErrEmptySubmission),
		errors.Is(err, services.ErrProductUnlockable),
		errors.Is(err, services.ErrProductNotUnlock),
		errors.Is(err, services.ErrBadgeNotCustom),
		errors.Is(err, services.ErrBadgeCriteriaShape):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// studentCI pulls the authenticated CI set by the middleware.
func studentCI(c *fiber.Ctx) string {
	ci, _ := c.Locals("ci").(string)
	return ci
}
