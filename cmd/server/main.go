package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/altamedia/contentflow/configs"
	"github.com/altamedia/contentflow/internal/api/handlers"
	job "github.com/altamedia/contentflow/internal/jobs"
	"github.com/altamedia/contentflow/internal/queue"
	"github.com/altamedia/contentflow/internal/repository"
	"github.com/altamedia/contentflow/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	scheduleCfg, err := config.LoadScheduleConfig(cfg.SchedulePath)
	if err != nil {
		log.Fatalf("Failed to load schedule configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  1 * time.Minute,
		WriteTimeout: 1 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	curatedMediaRepo := repository.NewCuratedMediaRepository(db)
	carouselUsageRepo := repository.NewCarouselUsageRepository(db)
	postRepo := repository.NewPostRepository(db)

	carouselService := service.NewCarouselService(*cfg, curatedMediaRepo)
	planningTimesService := service.NewPlanningTimesService()
	plannerService, err := service.NewPlannerService(scheduleCfg, curatedMediaRepo, carouselUsageRepo, postRepo, carouselService, planningTimesService)
	if err != nil {
		log.Fatalf("Failed to construct planner: %v", err)
	}
	postService := service.NewPostService(postRepo)

	api := app.Group("/api")

	plan := handlers.NewPlanHandler(plannerService, planningTimesService, client)
	api.Get("/plan/preview", plan.PreviewWeeklyPlan)
	api.Get("/plan/validate", plan.ValidateSchedule)
	api.Get("/plan/times", plan.OptimalTimes)
	api.Post("/plan/schedule", plan.ScheduleWeek)

	post := handlers.NewPostHandler(postService)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/remove", post.RemovePost)

	// cron jobs
	weeklyPlanJob := job.NewWeeklyPlanJob(client)

	//queue
	queueW := queue.NewQueue(plannerService)

	c := cron.New()
	c.AddFunc(cfg.CronSpec, weeklyPlanJob.EnqueueNextWeek)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: cfg.QueueConcurrency,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePlanWeek, queueW.HandlePlanWeekTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTPPort)); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%d", cfg.HTTPPort)

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
