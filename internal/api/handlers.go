package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/symptom-diagnosis-server/internal/cache"
	"github.com/symptom-diagnosis-server/internal/domain"
	"github.com/symptom-diagnosis-server/internal/history"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// DiagnoseRequest is the body of POST /api/v1/diagnose.
type DiagnoseRequest struct {
	Symptoms domain.SymptomInput `json:"symptoms" binding:"required"`
}

// handleDiagnose runs the diagnosis pipeline on the submitted symptoms.
func (s *Server) handleDiagnose(c *gin.Context) {
	var req DiagnoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrInvalidInput,
			"Request body must contain a symptoms object",
			err.Error(),
			c.GetString("correlation_id"),
		))
		return
	}

	key := cache.Key(req.Symptoms)
	if s.cache != nil {
		if result, ok := s.cache.Get(c.Request.Context(), key); ok {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, result)
			return
		}
		c.Header("X-Cache", "MISS")
	}

	result := s.engine.Predict(req.Symptoms)

	if result.IsError() {
		// Rule violations come back as error-shaped records, not panics.
		c.JSON(http.StatusBadRequest, result)
		return
	}

	requestID := c.GetString("correlation_id")
	if s.store != nil {
		record := history.NewRecord(requestID, result)
		if err := s.store.Save(c.Request.Context(), record); err != nil {
			// Persistence is best effort; the caller still gets the result.
			s.logger.WithError(err).WithField("request_id", requestID).
				Warn("Failed to persist diagnosis record")
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(c.Request.Context(), key, result); err != nil {
			s.logger.WithError(err).Warn("Failed to cache diagnosis result")
		}
	}

	c.JSON(http.StatusOK, result)
}

// handleListSymptoms returns the recognized symptom vocabulary with weights.
func (s *Server) handleListSymptoms(c *gin.Context) {
	kb := s.engine.Base()

	symptoms := make([]gin.H, 0)
	for _, name := range kb.Symptoms() {
		weight, _ := kb.Weight(name)
		symptoms = append(symptoms, gin.H{"name": name, "weight": weight})
	}

	c.JSON(http.StatusOK, gin.H{
		"symptoms": symptoms,
		"count":    len(symptoms),
	})
}

// handleListConditions returns the known conditions and their symptom patterns.
func (s *Server) handleListConditions(c *gin.Context) {
	kb := s.engine.Base()

	conditions := make([]gin.H, 0)
	for _, name := range kb.Conditions() {
		conditions = append(conditions, gin.H{"name": name, "symptoms": kb.Pattern(name)})
	}

	c.JSON(http.StatusOK, gin.H{
		"conditions": conditions,
		"count":      len(conditions),
	})
}

// handleListHistory returns past diagnoses, newest first.
func (s *Server) handleListHistory(c *gin.Context) {
	if s.store == nil {
		s.storageDisabled(c)
		return
	}

	limit := queryInt(c, "limit", defaultHistoryLimit)
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	records, err := s.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.storageError(c, err, "Failed to list diagnosis history")
		return
	}

	total, err := s.store.Count(c.Request.Context())
	if err != nil {
		s.storageError(c, err, "Failed to count diagnosis history")
		return
	}

	if records == nil {
		records = []*history.Record{}
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// handleGetHistory returns one diagnosis record by ID.
func (s *Server) handleGetHistory(c *gin.Context) {
	if s.store == nil {
		s.storageDisabled(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrInvalidInput,
			"Record ID must be an integer",
			c.Param("id"),
			c.GetString("correlation_id"),
		))
		return
	}

	record, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.storageError(c, err, "Failed to load diagnosis record")
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, domain.NewAPIError(
			domain.ErrInvalidInput,
			"Record not found",
			c.Param("id"),
			c.GetString("correlation_id"),
		))
		return
	}

	c.JSON(http.StatusOK, record)
}

// handleDeleteHistory removes one diagnosis record by ID.
func (s *Server) handleDeleteHistory(c *gin.Context) {
	if s.store == nil {
		s.storageDisabled(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.NewAPIError(
			domain.ErrInvalidInput,
			"Record ID must be an integer",
			c.Param("id"),
			c.GetString("correlation_id"),
		))
		return
	}

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.storageError(c, err, "Failed to delete diagnosis record")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":   id,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) storageDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, domain.NewAPIError(
		domain.ErrStorageError,
		"History storage is disabled",
		"",
		c.GetString("correlation_id"),
	))
}

func (s *Server) storageError(c *gin.Context, err error, message string) {
	s.logger.WithError(err).WithFields(logrus.Fields{
		"request_id": c.GetString("correlation_id"),
		"path":       c.Request.URL.Path,
	}).Error(message)

	c.JSON(http.StatusInternalServerError, domain.NewAPIError(
		domain.ErrStorageError,
		message,
		"",
		c.GetString("correlation_id"),
	))
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
