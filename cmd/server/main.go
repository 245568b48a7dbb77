package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Sohaib59/ecommerce-store/internal/config"
	"github.com/Sohaib59/ecommerce-store/internal/database"
	"github.com/Sohaib59/ecommerce-store/internal/handler"
	"github.com/Sohaib59/ecommerce-store/internal/queue"
	"github.com/Sohaib59/ecommerce-store/internal/repository"
	"github.com/Sohaib59/ecommerce-store/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil when Redis is unreachable; cache and rate limiting degrade to
	// pass-through in that case.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	brands := repository.NewBrandRepo(db)
	categories := repository.NewCategoryRepo(db)
	products := repository.NewProductRepo(db)
	images := repository.NewImageRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens, profiles)
	userH := handler.NewUserHandler(cfg, users, profiles)
	profileH := handler.NewProfileHandler(profiles)
	brandH := handler.NewBrandHandler(brands)
	categoryH := handler.NewCategoryHandler(categories)
	productH := handler.NewProductHandler(products, categories, brands)
	imageH := handler.NewImageHandler(images, products)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, tokens, config.LoadRateLimitConfig(), rdb)
	router.RegisterUsers(e, userH, tokens)
	router.RegisterProfiles(e, profileH, tokens)
	router.RegisterCatalog(e, brandH, categoryH, productH, imageH, tokens, config.LoadCacheConfig(), rdb)

	go func() {
		if err := queue.StartAccountConsumer(); err != nil {
			log.Printf("account-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
