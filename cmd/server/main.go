package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/moviehub/catalog/internal/config"
	"github.com/moviehub/catalog/internal/database"
	"github.com/moviehub/catalog/internal/handler"
	"github.com/moviehub/catalog/internal/queue"
	"github.com/moviehub/catalog/internal/repository"
	"github.com/moviehub/catalog/internal/router"
	"github.com/moviehub/catalog/internal/service/orderevents"
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

	users := repository.NewUserRepo(db)
	categories := repository.NewCategoryRepo(db)
	movies := repository.NewMovieRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	orders := repository.NewOrderRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	catalogH := handler.NewCatalogHandler(movies, categories)
	favoriteH := handler.NewFavoriteHandler(favorites, movies)
	orderH := handler.NewOrderHandler(orders, orderevents.PublishOrderPlaced)
	adminH := handler.NewAdminUserHandler(cfg, users)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterPublic(e, authH, catalogH)
	router.RegisterAuthenticated(e, authH, favoriteH, orderH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, catalogH, cfg.JWTSecret)

	// The consumer reconnects on its own; it never stops the server.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
