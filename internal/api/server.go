package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/rifamaster/rifa-api/docs"
	v1 "github.com/rifamaster/rifa-api/internal/api/handler/v1"
	"github.com/rifamaster/rifa-api/internal/api/middleware"
	"github.com/rifamaster/rifa-api/internal/config"
	"github.com/rifamaster/rifa-api/internal/repository"
	"github.com/rifamaster/rifa-api/internal/repository/dao"
	"github.com/rifamaster/rifa-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler, userHandler, raffleHandler, adminHandler := s.initHandlers(db)
	s.MountHandlers(authHandler, userHandler, raffleHandler, adminHandler)

	return s
}

// initHandlers wires the whole graph. There is exactly one
// InventoryService: its per-raffle locks must be shared by every code
// path that mutates ticket or raffle state.
func (s *Server) initHandlers(db *gorm.DB) (*v1.AuthHandler, *v1.UserHandler, *v1.RaffleHandler, *v1.AdminHandler) {
	raffleRepo := repository.NewRaffleRepository(dao.NewRaffleDAO(db))
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))

	inventory := service.NewInventoryService(raffleRepo)

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	raffleSvc := service.NewRaffleService(raffleRepo, inventory)
	purchaseSvc := service.NewPurchaseService(inventory, purchaseRepo, raffleRepo)
	drawSvc := service.NewDrawService(inventory)
	statsSvc := service.NewStatsService(raffleRepo, purchaseRepo, userRepo)

	authHandler := v1.NewAuthHandler(s.Config.API, authSvc)
	userHandler := v1.NewUserHandler(userSvc)
	raffleHandler := v1.NewRaffleHandler(raffleSvc, purchaseSvc, drawSvc, userSvc)
	adminHandler := v1.NewAdminHandler(statsSvc, userSvc)

	return authHandler, userHandler, raffleHandler, adminHandler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, raffleHandler *v1.RaffleHandler, adminHandler *v1.AdminHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	public := s.Router.Group(basePath)
	{
		public.GET("/raffles", raffleHandler.HandleGetRaffles)
		public.GET("/raffles/:raffleID", raffleHandler.HandleGetRaffle)
		public.GET("/raffles/:raffleID/tickets", raffleHandler.HandleGetTickets)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)
		authenticated.POST("/raffles", raffleHandler.HandleCreateRaffle)
		authenticated.POST("/raffles/:raffleID/purchase", raffleHandler.HandlePurchase)
		authenticated.POST("/raffles/:raffleID/draw", raffleHandler.HandleDraw)
		authenticated.POST("/raffles/:raffleID/close", raffleHandler.HandleCloseRaffle)
		authenticated.GET("/purchases", raffleHandler.HandleGetPurchases)
		authenticated.GET("/admin/stats", adminHandler.HandleGetStats)
		authenticated.GET("/admin/export", adminHandler.HandleExport)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Rifa API"
	docs.SwaggerInfo.Description = "Raffle ticketing API with atomic purchases and fair draws."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
