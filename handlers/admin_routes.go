package handlers

import (
	"log"
	"time"

	"student-rewards-system/middleware"
	"student-rewards-system/models"
	"student-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

// AdminServices bundles everything the management surface touches.
type AdminServices struct {
	Students *services.StudentService
	Ledger   *services.LedgerService
	Badges   *services.BadgeService
	Store    *services.StoreService
	Trivias  *services.TriviaService
	Island   *services.IslandService
	Missions *services.MissionService
}

type createStudentBody struct {
	CI   string `json:"ci" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type grantBody struct {
	Points int    `json:"points" validate:"required,gt=0"`
	Earned *bool  `json:"earned" validate:"required"`
	Reason string `json:"reason"`
}

type badgeBody struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Points      int             `json:"points" validate:"gte=0"`
	Criteria    models.Criteria `json:"criteria"`
	Custom      bool            `json:"custom"`
}

type productBody struct {
	Name        string `json:"name" validate:"required"`
	Price       int    `json:"price" validate:"required,gt=0"`
	Description string `json:"description"`
	Unlockable  bool   `json:"unlockable"`
	Repeatable  bool   `json:"repeatable"`
}

type triviaBody struct {
	Title     string            `json:"title" validate:"required"`
	Date      string            `json:"date" validate:"required"`
	Questions []models.Question `json:"questions" validate:"required"`
}

type activeBody struct {
	Active *bool `json:"active" validate:"required"`
}

type cardBody struct {
	Situation string              `json:"situation" validate:"required"`
	Options   []models.CardOption `json:"options" validate:"required,len=3"`
}

type missionBody struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Points      int    `json:"points" validate:"gte=0"`
}

func SetupAdminRoutes(app *fiber.App, svc AdminServices) {
	admin := app.Group("/admin", middleware.AdminAuth())

	setupAdminStudents(admin, svc)
	setupAdminBadges(admin, svc)
	setupAdminStore(admin, svc)
	setupAdminTrivias(admin, svc)
	setupAdminIsland(admin, svc)
	setupAdminMissions(admin, svc)
}

func setupAdminStudents(admin fiber.Router, svc AdminServices) {
	admin.Get("/students", func(c *fiber.Ctx) error {
		students, err := svc.Students.List()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"students": students})
	})

	admin.Post("/students", func(c *fiber.Ctx) error {
		var body createStudentBody
		if !parseBody(c, &body) {
			return nil
		}
		student, err := svc.Students.Create(body.CI, body.Name)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"student": student})
	})

	admin.Get("/students/:ci", func(c *fiber.Ctx) error {
		student, err := svc.Students.Get(c.Params("ci"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"student": student})
	})

	admin.Delete("/students/:ci", func(c *fiber.Ctx) error {
		if err := svc.Students.Delete(c.Params("ci")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"deleted": c.Params("ci")})
	})

	admin.Get("/students/:ci/movements", func(c *fiber.Ctx) error {
		movements, err := svc.Ledger.MovementsFor(c.Params("ci"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"movements": movements})
	})

	// Checks the cached balance against the movement log. Read-only; a
	// mismatch is reported, not repaired.
	admin.Get("/students/:ci/reconcile", func(c *fiber.Ctx) error {
		report, err := svc.Ledger.Reconcile(c.Params("ci"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(report)
	})

	admin.Post("/students/:ci/points", func(c *fiber.Ctx) error {
		var body grantBody
		if !parseBody(c, &body) {
			return nil
		}

		balance, movement, err := svc.Ledger.ApplyDelta(c.Params("ci"), body.Points, *body.Earned, models.MovementTypeManual, nil)
		if err != nil {
			return fail(c, err)
		}
		log.Printf("💰 Manual adjustment of %d points for %s (%s)", body.Points, c.Params("ci"), body.Reason)

		if *body.Earned {
			if _, err := svc.Badges.EvaluateAndUnlock(c.Params("ci")); err != nil {
				log.Printf("⚠️ Badge evaluation after manual grant failed: %v", err)
			}
		}
		return c.JSON(fiber.Map{"balance": balance, "movement": movement})
	})
}

func setupAdminBadges(admin fiber.Router, svc AdminServices) {
	admin.Post("/badges", func(c *fiber.Ctx) error {
		var body badgeBody
		if !parseBody(c, &body) {
			return nil
		}
		badge := models.Badge{
			Name:        body.Name,
			Description: body.Description,
			Icon:        body.Icon,
			Points:      body.Points,
			Criteria:    body.Criteria,
			Custom:      body.Custom,
		}
		if err := svc.Badges.CreateBadge(&badge); err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"badge": badge})
	})

	admin.Put("/badges/:id", func(c *fiber.Ctx) error {
		var body badgeBody
		if !parseBody(c, &body) {
			return nil
		}
		badge := models.Badge{
			Name:        body.Name,
			Description: body.Description,
			Icon:        body.Icon,
			Points:      body.Points,
			Criteria:    body.Criteria,
			Custom:      body.Custom,
		}
		if err := svc.Badges.UpdateBadge(c.Params("id"), &badge); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"badge": badge})
	})

	admin.Delete("/badges/:id", func(c *fiber.Ctx) error {
		if err := svc.Badges.DeleteBadge(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"deleted": c.Params("id")})
	})
}

func setupAdminStore(admin fiber.Router, svc AdminServices) {
	admin.Post("/products", func(c *fiber.Ctx) error {
		var body productBody
		if !parseBody(c, &body) {
			return nil
		}
		product := models.Product{
			Name:        body.Name,
			Price:       body.Price,
			Description: body.Description,
			Unlockable:  body.Unlockable,
			Repeatable:  body.Repeatable,
		}
		if err := svc.Store.CreateProduct(&product); err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": product})
	})

	admin.Put("/products/:id", func(c *fiber.Ctx) error {
		var body productBody
		if !parseBody(c, &body) {
			return nil
		}
		product := models.Product{
			Name:        body.Name,
			Price:       body.Price,
			Description: body.Description,
			Unlockable:  body.Unlockable,
			Repeatable:  body.Repeatable,
		}
		if err := svc.Store.UpdateProduct(c.Params("id"), &product); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"product": product})
	})

	admin.Delete("/products/:id", func(c *fiber.Ctx) error {
		if err := svc.Store.DeleteProduct(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"deleted": c.Params("id")})
	})
}

func setupAdminTrivias(admin fiber.Router, svc AdminServices) {
	admin.Get("/trivias", func(c *fiber.Ctx) error {
		trivias, err := svc.Trivias.AllTrivias()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"trivias": trivias})
	})

	admin.Post("/trivias", func(c *fiber.Ctx) error {
		var body triviaBody
		if !parseBody(c, &body) {
			return nil
		}
		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
		trivia, err := svc.Trivias.CreateTrivia(body.Title, date, body.Questions)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"trivia": trivia})
	})

	admin.Patch("/trivias/:id/active", func(c *fiber.Ctx) error {
		var body activeBody
		if !parseBody(c, &body) {
			return nil
		}
		if err := svc.Trivias.SetActive(c.Params("id"), *body.Active); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"id": c.Params("id"), "active": *body.Active})
	})

	admin.Delete("/trivias/:id", func(c *fiber.Ctx) error {
		if err := svc.Trivias.DeleteTrivia(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"deleted": c.Params("id")})
	})
}

func setupAdminIsland(admin fiber.Router, svc AdminServices) {
	admin.Get("/island/cards", func(c *fiber.Ctx) error {
		cards, err := svc.Island.Cards()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"cards": cards})
	})

	admin.Post("/island/cards", func(c *fiber.Ctx) error {
		var body cardBody
		if !parseBody(c, &body) {
			return nil
		}
		card := models.IslandCard{
			Situation: body.Situation,
			Options:   models.OptionList(body.Options),
		}
		if err := svc.Island.CreateCard(&card); err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"card": card})
	})

	admin.Delete("/island/cards/:id", func(c *fiber.Ctx) error {
		if err := svc.Island.DeleteCard(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"deleted": c.Params("id")})
	})
}

func setupAdminMissions(admin fiber.Router, svc AdminServices) {
	admin.Get("/missions", func(c *fiber.Ctx) error {
		missions, err := svc.Missions.All()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"missions": missions})
	})

	admin.Post("/missions", func(c *fiber.Ctx) error {
		var body missionBody
		if !parseBody(c, &body) {
			return nil
		}
		mission := models.Mission{
			Name:        body.Name,
			Description: body.Description,
			Points:      body.Points,
			Active:      true,
		}
		if err := svc.Missions.CreateMission(&mission); err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"mission": mission})
	})

	admin.Patch("/missions/:id/active", func(c *fiber.Ctx) error {
		var body activeBody
		if !parseBody(c, &body) {
			return nil
		}
		if err := svc.Missions.SetActive(c.Params("id"), *body.Active); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"id": c.Params("id"), "active": *body.Active})
	})

	admin.Delete("/missions/:id", func(c *fiber.Ctx) error {
		if err := svc.Missions.DeleteMission(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"deleted": c.Params("id")})
	})
}

// parseBody decodes and validates a JSON body. On failure it writes the 400
// itself and reports false so handlers can bail with a bare return.
func parseBody(c *fiber.Ctx, out interface{}) bool {
	if err := c.BodyParser(out); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "cause": err.Error()})
		return false
	}
	if err := validate.Struct(out); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
		return false
	}
	return true
}
