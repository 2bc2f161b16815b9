package main

import (
	"log"
	"net/http"

	_ "blogapi/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"blogapi/internal/auth"
	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/handler"
	"blogapi/internal/model"
	"blogapi/internal/repository"
	"blogapi/internal/router"
	"blogapi/internal/service"
)

// @title Blog API
// @version 1.0
// @description Blog backend with users, posts, categories, tags and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Tag{},
		&model.Post{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// The signing secret is loaded once here and read-only afterwards.
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, cfg.AccessTokenTTL)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, cacheClient)
	tagService := service.NewTagService(tagRepo, cacheClient)
	postService := service.NewPostService(postRepo, categoryRepo, tagRepo, cacheClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	tagHandler := handler.NewTagHandler(tagService)
	postHandler := handler.NewPostHandler(postService)

	router.Register(
		e,
		cfg,
		authService,
		authHandler,
		userHandler,
		categoryHandler,
		tagHandler,
		postHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
