package router

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/berekarkirti/Fruit-Inventory/config"
	"github.com/berekarkirti/Fruit-Inventory/internal/handler"
	"github.com/berekarkirti/Fruit-Inventory/internal/middleware"
	"github.com/berekarkirti/Fruit-Inventory/internal/repository"
	"github.com/berekarkirti/Fruit-Inventory/internal/service"
	"github.com/berekarkirti/Fruit-Inventory/internal/workflow"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.RateLimit))

	userRepo := repository.NewUserRepository(db)
	fruitRepo := repository.NewFruitRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.Auth)
	fruitSvc := service.NewFruitService(fruitRepo, rdb)

	authH := handler.NewAuthHandler(authSvc)
	fruitsH := handler.NewFruitsHandler(fruitSvc)

	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authH.Login)
		auth.POST("/setup", authH.Setup)
		auth.GET("/users", authH.ListUsers)
	}

	jwtMW := middleware.JWTAuth(cfg.Auth.JWTSecret)
	fruits := r.Group("/api/fruits", jwtMW)
	{
		managerOrOwner := middleware.RequireRole(workflow.RoleManager, workflow.RoleOwner)
		ownerOnly := middleware.RequireRole(workflow.RoleOwner)

		fruits.GET("", managerOrOwner, fruitsH.List)
		fruits.POST("", managerOrOwner, fruitsH.Create)
		fruits.GET("/stats", managerOrOwner, fruitsH.Stats)
		fruits.GET("/pending", ownerOnly, fruitsH.Pending)
		fruits.PUT("/:id", managerOrOwner, fruitsH.Update)
		fruits.DELETE("/:id", managerOrOwner, fruitsH.Delete)
		fruits.PUT("/:id/approve", ownerOnly, fruitsH.Approve)
		fruits.PUT("/:id/reject", ownerOnly, fruitsH.Reject)
	}

	return r
}
