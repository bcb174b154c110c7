package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"starburger.dev/FoodCart/configs"
	"starburger.dev/FoodCart/pkg/geocache"
	"starburger.dev/FoodCart/pkg/geocoder"
	"starburger.dev/FoodCart/pkg/ingest"
	"starburger.dev/FoodCart/pkg/lifecycle"
	"starburger.dev/FoodCart/pkg/repository"
	"starburger.dev/FoodCart/pkg/server"
)

const timeout = 5 * time.Second

type ServeCmd struct {
	ConfigFile string `default:".FoodCart.toml" help:"Path to config file" short:"c"`
}

func (s *ServeCmd) Run(_ *Context) error {
	logConfig := zap.NewProductionConfig()

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	coder := geocoder.GetGeocoder(conf.Geocoder.Provider, conf, logger)
	if coder == nil {
		logger.Error("unknown geocoding provider", zap.String("provider", conf.Geocoder.Provider))

		return fmt.Errorf("%w: unknown geocoding provider %q", configs.ErrConfiguration, conf.Geocoder.Provider)
	}

	cache := geocache.New(repo, coder, logger)
	engine := ingest.NewEngine(repo, repo, conf.Ingestion.MaxQuantity, logger)
	manager := lifecycle.NewManager(repo, cache, logger)

	router := server.NewRouter(
		server.NewOrderServer(engine, logger),
		server.NewCatalogServer(repo, logger),
		server.NewAdminServer(manager, repo, logger),
	)

	address := fmt.Sprintf(":%d", conf.Server.Port)

	corsHandler := configureCORS(router)
	serverHandler := h2c.NewHandler(corsHandler, &http2.Server{})

	svr := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: timeout,
		Handler:           serverHandler,
	}

	logger.Info("serving", zap.String("address", address))

	err = svr.ListenAndServe()
	if err != nil {
		logger.Error("failed to start server", zap.Error(err))

		return err
	}

	return nil
}

func configureCORS(handler http.Handler) http.Handler {
	corsOpts := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"},
		AllowedHeaders: []string{
			"accept",
			"accept-encoding",
			"accept-language",
			"authorization",
			"cache-control",
			"content-length",
			"content-type",
			"date",
			"keep-alive",
			"origin",
			"referer",
			"user-agent",
		},
		MaxAge: 86400, // 24 hours
	})

	return corsOpts.Handler(handler)
}
