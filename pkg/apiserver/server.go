package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver/handlers"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/apiserver/middleware"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/auth"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/config"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/eventbus"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/model"
	"github.com/ZainRafiqueDev/task-manage-back-sub001/pkg/store/postgres"
)

type Server struct {
	router *gin.Engine
	db     *postgres.Store
	cfg    *config.Config
	logger *zap.Logger
	bus    *eventbus.Bus
	tokens *auth.TokenManager
}

func NewServer(db *postgres.Store, cfg *config.Config, logger *zap.Logger, bus *eventbus.Bus) *Server {
	s := &Server{
		db:     db,
		cfg:    cfg,
		logger: logger,
		bus:    bus,
		tokens: auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var gdb *gorm.DB
	if s.db != nil {
		gdb = s.db.DB()
	}

	projectRepo := postgres.NewProjectRepository(gdb)
	userRepo := postgres.NewUserRepository(gdb)
	taskRepo := postgres.NewTaskRepository(gdb)
	notificationRepo := postgres.NewNotificationRepository(gdb)
	groupRepo := postgres.NewProjectGroupRepository(gdb)

	projectHandler := handlers.NewProjectHandler(projectRepo, s.logger)
	timeEntryHandler := handlers.NewTimeEntryHandler(projectRepo, s.logger)
	paymentHandler := handlers.NewPaymentHandler(projectRepo, s.logger)
	milestoneHandler := handlers.NewMilestoneHandler(projectRepo, s.logger)
	teamLeadHandler := handlers.NewTeamLeadHandler(projectRepo, userRepo, notificationRepo, s.logger, s.bus)
	userHandler := handlers.NewUserHandler(userRepo, s.logger)
	taskHandler := handlers.NewTaskHandler(taskRepo, projectRepo, s.logger)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, s.logger)
	groupHandler := handlers.NewProjectGroupHandler(groupRepo, s.logger)

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(s.tokens))

	adminOnly := middleware.RequireRole(model.RoleAdmin)
	adminOrLead := middleware.RequireRole(model.RoleAdmin, model.RoleTeamLead)
	leadOnly := middleware.RequireRole(model.RoleTeamLead)

	projects := api.Group("/projects")
	{
		projects.GET("", projectHandler.List)
		projects.GET("/:id", projectHandler.Get)
		projects.POST("", adminOnly, projectHandler.Create)
		projects.PUT("/:id", adminOnly, projectHandler.Update)
		projects.DELETE("/:id", adminOnly, projectHandler.Delete)
		projects.PUT("/:id/recalculate", adminOnly, projectHandler.Recalculate)

		projects.POST("/:id/time-entries", timeEntryHandler.Add)
		projects.PUT("/:id/time-entries/:entryId", timeEntryHandler.Update)
		projects.DELETE("/:id/time-entries/:entryId", timeEntryHandler.Delete)

		projects.POST("/:id/payments", adminOnly, paymentHandler.Add)
		projects.PUT("/:id/payments/:paymentId", adminOnly, paymentHandler.Update)
		projects.DELETE("/:id/payments/:paymentId", adminOnly, paymentHandler.Delete)

		projects.POST("/:id/milestones", adminOrLead, milestoneHandler.Add)
		projects.PUT("/:id/milestones/:milestoneId", adminOrLead, milestoneHandler.Update)
		projects.DELETE("/:id/milestones/:milestoneId", adminOrLead, milestoneHandler.Delete)

		projects.GET("/:id/tasks", taskHandler.ListByProject)
	}

	teamlead := api.Group("/teamlead", leadOnly)
	{
		teamlead.GET("/projects/available", teamLeadHandler.Available)
		teamlead.PUT("/projects/:id/pick", teamLeadHandler.Pick)
		teamlead.PUT("/projects/:id/release", teamLeadHandler.Release)
		teamlead.PUT("/projects/:id/employees", teamLeadHandler.SetEmployees)
	}

	users := api.Group("/users")
	{
		users.GET("", adminOnly, userHandler.List)
		users.POST("", adminOnly, userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", adminOnly, userHandler.Update)
		users.DELETE("/:id", adminOnly, userHandler.Delete)
	}

	tasks := api.Group("/tasks")
	{
		tasks.POST("", adminOrLead, taskHandler.Create)
		tasks.GET("/mine", taskHandler.Mine)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", adminOrLead, taskHandler.Delete)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
	}

	groups := api.Group("/project-groups", adminOnly)
	{
		groups.POST("", groupHandler.Create)
		groups.GET("", groupHandler.List)
		groups.GET("/:id", groupHandler.Get)
		groups.PUT("/:id", groupHandler.Update)
		groups.DELETE("/:id", groupHandler.Delete)
	}

	s.router = r
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
