// Package server поднимает HTTP API над собранной базой брендов:
// список, точечный поиск, метаданные и пересборка.
package server

import (
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"

	"branddb/builder"
	"branddb/database"
)

// Server HTTP-сервер базы брендов. Текущая база хранится под RWMutex
// и атомарно подменяется при пересборке.
type Server struct {
	engine  *gin.Engine
	builder *builder.Builder
	store   *database.SnapshotDB
	logger  *slog.Logger

	mu      sync.RWMutex
	current *builder.BrandDatabase
}

// New создает новый сервер. store может быть nil — тогда снапшоты
// не сохраняются.
func New(b *builder.Builder, store *database.SnapshotDB) *Server {
	logger := slog.Default().With("component", "server")

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestIDMiddleware())
	engine.Use(LoggingMiddleware(logger))

	s := &Server{
		engine:  engine,
		builder: b,
		store:   store,
		logger:  logger,
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api/v1")
	{
		api.GET("/brands", s.handleListBrands)
		api.GET("/brands/lookup", s.handleLookup)
		api.GET("/meta", s.handleMeta)
		api.GET("/snapshots", s.handleListSnapshots)
		api.POST("/rebuild", s.handleRebuild)
	}
}

// SetDatabase атомарно подменяет обслуживаемую базу.
func (s *Server) SetDatabase(db *builder.BrandDatabase) {
	s.mu.Lock()
	s.current = db
	s.mu.Unlock()
}

// Database возвращает текущую обслуживаемую базу (может быть nil).
func (s *Server) Database() *builder.BrandDatabase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Engine возвращает gin-движок. Используется в тестах.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run запускает сервер на указанном адресе.
func (s *Server) Run(addr string) error {
	s.logger.Info("Starting brand database server", "addr", addr)
	return s.engine.Run(addr)
}
