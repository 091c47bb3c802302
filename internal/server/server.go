// Package server exposes tables as widget data endpoints.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rebelice/datalist/internal/db/source"
	"github.com/rebelice/datalist/internal/logging"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/query"
)

// Store answers the queries of the data endpoints
type Store interface {
	List(ctx context.Context) ([]string, error)
	Page(ctx context.Context, table string, q query.Decoded) ([]models.Record, error)
	Pages(ctx context.Context, table string, q query.Decoded) (int, error)
	Insert(ctx context.Context, table string, form url.Values) (models.Record, error)
}

// Server is the HTTP surface over a Store
type Server struct {
	store Store
	log   *logging.Logger
}

// New creates a server
func New(store Store, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{store: store, log: log}
}

// Router builds the gin engine with the data routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(AccessLog(s.log))
	r.Use(gin.Recovery())

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.GET("", s.listTables)
	api.GET("/:table", s.page)
	api.GET("/:table/pages", s.pages)
	api.POST("/:table", s.insert)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) listTables(c *gin.Context) {
	tables, err := s.store.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (s *Server) page(c *gin.Context) {
	q, err := query.Decode(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, err := s.store.Page(c.Request.Context(), c.Param("table"), q)
	if err != nil {
		s.fail(c, err)
		return
	}
	if records == nil {
		records = []models.Record{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) pages(c *gin.Context) {
	q, err := query.Decode(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := s.store.Pages(c.Request.Context(), c.Param("table"), q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (s *Server) insert(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form body"})
		return
	}
	rec, err := s.store.Insert(c.Request.Context(), c.Param("table"), c.Request.PostForm)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// fail maps store errors to a status; internal errors are logged and hidden
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, source.ErrUnknownTable):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, source.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
