package server

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorResponse структура ошибки
type ErrorResponse struct {
	Error string `json:"error"`
}

// BrandListResponse структура ответа для списка брендов
type BrandListResponse struct {
	Brands []string `json:"brands"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// LookupResponse структура ответа точечного поиска
type LookupResponse struct {
	Name           string `json:"name"`
	Found          bool   `json:"found"`
	HighConfidence bool   `json:"high_confidence"`
}

// handleHealth проверка живости
// GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"database_ready": s.Database() != nil,
	})
}

// handleListBrands возвращает страницу списка брендов с необязательным
// фильтром по префиксу
// GET /api/v1/brands?q=&limit=&offset=
func (s *Server) handleListBrands(c *gin.Context) {
	db := s.Database()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "database not built yet"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	offset, _ := strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}

	brands := db.Brands
	if prefix := c.Query("q"); prefix != "" {
		// Список отсортирован, поэтому диапазон префикса находится
		// двумя бинарными поисками
		start := sort.SearchStrings(brands, prefix)
		end := start
		for end < len(brands) && strings.HasPrefix(brands[end], prefix) {
			end++
		}
		brands = brands[start:end]
	}

	total := len(brands)
	if offset > total {
		offset = total
	}
	page := brands[offset:]
	if len(page) > limit {
		page = page[:limit]
	}

	c.JSON(http.StatusOK, BrandListResponse{
		Brands: page,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// handleLookup проверяет точное вхождение названия в базу бинарным поиском
// GET /api/v1/brands/lookup?name=
func (s *Server) handleLookup(c *gin.Context) {
	db := s.Database()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "database not built yet"})
		return
	}

	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	c.JSON(http.StatusOK, LookupResponse{
		Name:           name,
		Found:          containsSorted(db.Brands, name),
		HighConfidence: containsSorted(db.HighConfidence, name),
	})
}

// handleMeta возвращает метаданные текущей базы
// GET /api/v1/meta
func (s *Server) handleMeta(c *gin.Context) {
	db := s.Database()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "database not built yet"})
		return
	}
	c.JSON(http.StatusOK, db.Meta)
}

// handleListSnapshots возвращает сводки сохраненных снапшотов
// GET /api/v1/snapshots?limit=
func (s *Server) handleListSnapshots(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "snapshot store is not configured"})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	infos, err := s.store.ListSnapshots(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": infos, "total": len(infos)})
}

// handleRebuild пересобирает базу и атомарно подменяет обслуживаемую.
// Снапшот сохраняется по возможности: отказ хранилища не отменяет подмену.
// POST /api/v1/rebuild
func (s *Server) handleRebuild(c *gin.Context) {
	db, err := s.builder.Build(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	s.SetDatabase(db)

	if s.store != nil {
		if err := s.store.SaveSnapshot(db); err != nil {
			s.logger.Warn("Failed to save snapshot", "build_id", db.Meta.BuildID, "error", err)
		}
	}

	c.JSON(http.StatusOK, db.Meta)
}

// containsSorted выполняет бинарный поиск точного совпадения.
func containsSorted(sorted []string, name string) bool {
	i := sort.SearchStrings(sorted, name)
	return i < len(sorted) && sorted[i] == name
}
