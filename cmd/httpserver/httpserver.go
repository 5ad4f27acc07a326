// Package httpserver manages server creation and api routing.
package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/munkhbat-e/pocket-ledger/internal/ledgerdelivery"
	"github.com/munkhbat-e/pocket-ledger/internal/ledgerservice"
	"github.com/munkhbat-e/pocket-ledger/internal/middleware"
	"github.com/munkhbat-e/pocket-ledger/internal/snapshotgateway"
	"github.com/munkhbat-e/pocket-ledger/internal/snapshotrepo"
	"github.com/munkhbat-e/pocket-ledger/pkg/configpkg"
	"github.com/munkhbat-e/pocket-ledger/pkg/timepkg"
)

// Server holds the ledger, handlers router and configuration.
type Server struct {
	Ledger *ledgerservice.Service
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
// conn is the primary snapshot store connection and may be nil when the
// host runs without a database; the file fallback then carries all saves.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	var primary snapshotgateway.Store
	if conn != nil {
		primary = snapshotrepo.NewRepoPGS(conn)
	}

	fallback := snapshotrepo.NewRepoFile(config.DataDir)

	clock := timepkg.RealClock{}
	gateway := snapshotgateway.New(primary, fallback, config.SnapshotKey, clock)

	seed, err := decimal.NewFromString(config.InitialBalance)
	if err != nil {
		return nil, errors.New("cannot parse initial balance")
	}

	ctx := logger.WithContext(context.Background())
	ledgerService := ledgerservice.New(ctx, gateway, seed, clock)

	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/balance", ledgerHandler.GetBalance)
	engine.GET("/transactions", ledgerHandler.ListTransactions)
	engine.POST("/transfers", ledgerHandler.CreateTransfer)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("amount", ledgerdelivery.ValidAmount)
		if err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	server := &Server{
		Ledger: ledgerService,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
