package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"

	docs "github.com/praxis-learning/praxis_api/docs"
	"github.com/praxis-learning/praxis_api/middleware"
	"github.com/praxis-learning/praxis_api/services/handlers"
	"github.com/praxis-learning/praxis_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc        *AuthService
	userSvc        *UserService
	courseSvc      *CourseService
	ledgerSvc      *PointLedgerService
	leaderboardSvc *LeaderboardService
	feedSvc        *FeedService
	monitoringSvc  *MonitoringService

	authMw *middleware.AuthMiddleware
	rateMw *middleware.RateLimitMiddleware

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.courseSvc = svc.Service(COURSE_SVC).(*CourseService)
	svc.ledgerSvc = svc.Service(POINT_LEDGER_SVC).(*PointLedgerService)
	svc.leaderboardSvc = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.feedSvc = svc.Service(FEED_SVC).(*FeedService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.authMw = svc.Service(middleware.AUTH_MIDDLEWARE_SVC).(*middleware.AuthMiddleware)
	svc.rateMw = svc.Service(middleware.RATE_LIMIT_MIDDLEWARE_SVC).(*middleware.RateLimitMiddleware)

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())

	if os.Getenv("LOG_LEVEL") == "TRACE" {
		app.Use(logger.New())
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	svc.registerRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	userHandler := handlers.NewUserHandler(svc.userSvc)
	courseHandler := handlers.NewCourseHandler(svc.courseSvc, svc.ledgerSvc)
	lessonHandler := handlers.NewLessonHandler(svc.ledgerSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.leaderboardSvc)
	feedHandler := handlers.NewFeedHandler(svc.feedSvc)

	requiredAuth := svc.authMw.RequiredAuth()
	optionalAuth := svc.authMw.OptionalAuth()

	v1 := app.Group("/api/v1", svc.rateMw.Limit("api_general"))

	v1.Get("/ping", svc.ping)

	v1.Post("/register", svc.rateMw.Limit("auth"), authHandler.Register)
	v1.Post("/login", svc.rateMw.Limit("auth"), authHandler.Login)

	v1.Get("/leaderboard/:period", optionalAuth, leaderboardHandler.GetLeaderboard)
	v1.Get("/feed", feedHandler.GetRecentFeed)

	me := v1.Group("/me", requiredAuth)
	me.Get("/", userHandler.GetProfile)
	me.Put("/", userHandler.UpdateProfile)
	me.Post("/avatar", userHandler.UploadAvatar)
	me.Get("/feed", feedHandler.GetUserFeed)
	me.Get("/calendar", feedHandler.GetCalendar)

	courses := v1.Group("/courses", requiredAuth)
	courses.Get("/", courseHandler.ListCourses)
	courses.Post("/", courseHandler.CreateCourse)
	courses.Get("/:courseId", courseHandler.GetCourse)
	courses.Post("/:courseId/join", courseHandler.JoinCourse)
	courses.Post("/:courseId/leave", courseHandler.LeaveCourse)
	courses.Post("/:courseId/complete", courseHandler.CompleteCourse)
	courses.Get("/:courseId/status", courseHandler.GetEnrollmentStatus)

	v1.Post("/lessons/:lessonId/complete", requiredAuth, svc.rateMw.Limit("lesson_complete"), lessonHandler.CompleteLesson)
	v1.Delete("/completed-lessons/:completedLessonId", requiredAuth, lessonHandler.DeleteCompletedLesson)
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
