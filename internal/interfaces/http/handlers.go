// Package http serves the dashboard API: dataset session lifecycle, filtered
// queries and chart payloads, plus health and metrics endpoints.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemLens-Insight/internal/application/analysis"
	"github.com/turtacn/ChemLens-Insight/internal/domain/compound"
	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

type handlers struct {
	svc            *analysis.Service
	maxUploadBytes int64
}

// loadSample starts a session from the bundled sample dataset.
func (h *handlers) loadSample(c *gin.Context) {
	view, err := h.svc.LoadSample(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// upload starts a session from a multipart CSV upload (form field "file").
func (h *handlers) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, errors.New(errors.ErrCodeBadRequest,
			"multipart form field \"file\" is required").WithCause(err))
		return
	}
	defer file.Close()

	view, err := h.svc.LoadUpload(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

type chemblLoadRequest struct {
	Targets []string `json:"targets" binding:"required,min=1"`
}

// loadChembl starts a session by fetching targets from ChEMBL.
func (h *handlers) loadChembl(c *gin.Context) {
	var req chemblLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.New(errors.ErrCodeBadRequest,
			"targets list is required").WithCause(err))
		return
	}

	view, err := h.svc.LoadFromChEMBL(c.Request.Context(), req.Targets)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// list describes every live session.
func (h *handlers) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"datasets": h.svc.List()})
}

// describe returns summary, slider bounds and target list for one session.
func (h *handlers) describe(c *gin.Context) {
	view, err := h.svc.Describe(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// query applies filter constraints and returns the matching rows plus a
// summary of the filtered view.
func (h *handlers) query(c *gin.Context) {
	var constraints compound.Constraints
	if err := c.ShouldBindJSON(&constraints); err != nil {
		respondError(c, errors.New(errors.ErrCodeBadRequest,
			"invalid filter constraints").WithCause(err))
		return
	}

	result, err := h.svc.Query(c.Param("id"), constraints)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// charts applies filter constraints and returns every chart payload.
func (h *handlers) charts(c *gin.Context) {
	var constraints compound.Constraints
	if err := c.ShouldBindJSON(&constraints); err != nil {
		respondError(c, errors.New(errors.ErrCodeBadRequest,
			"invalid filter constraints").WithCause(err))
		return
	}

	bundle, err := h.svc.Charts(c.Param("id"), constraints)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// remove discards a session.
func (h *handlers) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
