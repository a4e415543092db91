package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"student-rewards-system/handlers"
	"student-rewards-system/models"
	"student-rewards-system/services"
	"student-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // mission uploads
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.StudentBadge{},
		&models.Movement{},
		&models.Badge{},
		&models.Product{},
		&models.Trivia{},
		&models.TriviaResponse{},
		&models.IslandCard{},
		&models.Mission{},
		&models.MissionSubmission{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedIslandDeck(db); err != nil {
		log.Fatal("failed to seed island deck:", err)
	}

	ledgerService := services.NewLedgerService(db)
	badgeService := services.NewBadgeService(db, ledgerService)
	studentService := services.NewStudentService(db, ledgerService, badgeService)
	triviaService := services.NewTriviaService(db, ledgerService, badgeService)
	storeService := services.NewStoreService(db, ledgerService)
	islandService := services.NewIslandService(db, badgeService)
	missionService := services.NewMissionService(db, ledgerService, badgeService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	triviaService.StartActivationScheduler()

	handlers.SetupAuthRoutes(app, studentService)
	handlers.SetupStudentRoutes(app, studentService, ledgerService)
	handlers.SetupTriviaRoutes(app, triviaService)
	handlers.SetupStoreRoutes(app, storeService)
	handlers.SetupBadgeRoutes(app, badgeService)
	handlers.SetupIslandRoutes(app, islandService)
	handlers.SetupMissionRoutes(app, missionService)
	handlers.SetupAdminRoutes(app, handlers.AdminServices{
		Students: studentService,
		Ledger:   ledgerService,
		Badges:   badgeService,
		Store:    storeService,
		Trivias:  triviaService,
		Island:   islandService,
		Missions: missionService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Trivia activation scheduler running (every 1m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
