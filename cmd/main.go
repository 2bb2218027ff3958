package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/plusprep/backend/config"
	"github.com/plusprep/backend/database"
	_ "github.com/plusprep/backend/docs" // Swagger docs - auto-generated
	adminctrl "github.com/plusprep/backend/internal/controller/admin"
	userctrl "github.com/plusprep/backend/internal/controller/user"
	"github.com/plusprep/backend/internal/logger"
	"github.com/plusprep/backend/internal/model"
	"github.com/plusprep/backend/internal/repository"
	"github.com/plusprep/backend/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title PlusPrep 11+ Practice API
// @version 1.0
// @description API for 11+ exam preparation: question bank, practice sessions, timed mock exams and mastery tracking.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewPracticeSessionRepository,
			repository.NewAttemptRepository,
			repository.NewMockExamRepository,
			repository.NewMasteryRepository,
		),

		fx.Provide(
			service.NewQuestionService,
			service.NewPracticeService,
			service.NewMockExamService,
			service.NewMasteryService,
			service.NewRecommendationService,
		),

		fx.Provide(
			adminctrl.NewQuestionController,
			userctrl.NewQuestionController,
			userctrl.NewPracticeController,
			userctrl.NewMockExamController,
			userctrl.NewProgressController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminQuestionCtrl *adminctrl.QuestionController,
	questionCtrl *userctrl.QuestionController,
	practiceCtrl *userctrl.PracticeController,
	mockExamCtrl *userctrl.MockExamController,
	progressCtrl *userctrl.ProgressController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		questionsAdminGroup := adminAPIGroup.Group("/questions")
		questionsAdminGroup.POST("", adminQuestionCtrl.CreateQuestion)
		questionsAdminGroup.POST("/import", adminQuestionCtrl.ImportQuestions)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		// Question bank
		userAPIGroup.GET("/questions", questionCtrl.ListQuestions)
		userAPIGroup.GET("/questions/:question_id", questionCtrl.GetQuestion)
		userAPIGroup.GET("/questions/:question_id/hints", questionCtrl.GetHints)
		userAPIGroup.POST("/questions/:question_id/check", questionCtrl.CheckAnswer)

		// Practice sessions
		userAPIGroup.POST("/practice/sessions", practiceCtrl.StartSession)
		userAPIGroup.GET("/practice/sessions/:session_id", practiceCtrl.GetSession)
		userAPIGroup.GET("/practice/sessions/:session_id/next", practiceCtrl.NextQuestion)
		userAPIGroup.POST("/practice/sessions/:session_id/answers", practiceCtrl.SubmitAnswer)
		userAPIGroup.POST("/practice/sessions/:session_id/complete", practiceCtrl.CompleteSession)

		// Mock exams
		userAPIGroup.POST("/mock-exams", mockExamCtrl.StartExam)
		userAPIGroup.POST("/mock-exams/:exam_id/begin", mockExamCtrl.BeginExam)
		userAPIGroup.GET("/mock-exams/:exam_id/current-section", mockExamCtrl.GetCurrentSection)
		userAPIGroup.POST("/mock-exams/:exam_id/answers", mockExamCtrl.SubmitAnswer)
		userAPIGroup.POST("/mock-exams/:exam_id/finish-section", mockExamCtrl.FinishSection)
		userAPIGroup.POST("/mock-exams/:exam_id/elapsed", mockExamCtrl.ReportElapsed)
		userAPIGroup.POST("/mock-exams/:exam_id/next-section", mockExamCtrl.AdvanceSection)
		userAPIGroup.POST("/mock-exams/:exam_id/complete", mockExamCtrl.CompleteExam)

		// Progress and recommendations
		userAPIGroup.GET("/progress/:user_id", progressCtrl.GetSummary)
		userAPIGroup.GET("/progress/:user_id/weak-areas", progressCtrl.GetWeakAreas)
		userAPIGroup.GET("/progress/:user_id/strong-areas", progressCtrl.GetStrongAreas)
		userAPIGroup.GET("/progress/:user_id/recommendations", progressCtrl.GetRecommendations)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("PlusPrep API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Question{},
		&model.PracticeSession{},
		&model.Attempt{},
		&model.MockExamSession{},
		&model.MasteryRecord{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
