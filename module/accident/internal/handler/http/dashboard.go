package http

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
	"github.com/bhavisha4779/accident-relay/module/accident/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

//go:embed templates/dashboard.html
var templates embed.FS

type alertStateReader interface {
	Latest() domain.AlertState
}

type accidentService interface {
	ListRecent(ctx context.Context, limit int) ([]domain.Accident, error)
	Hospitals() []domain.Hospital
}

type accidentResponse struct {
	ID         string  `json:"id"`
	DeviceID   string  `json:"device_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Hospital   string  `json:"hospital"`
	DistanceKm float64 `json:"distance"`
	Timestamp  int64   `json:"timestamp"`
}

type DashboardHandler struct {
	state        alertStateReader
	accidentSvc  accidentService
	page         *template.Template
	pollInterval time.Duration
}

func NewDashboardHandler(state alertStateReader, accidentSvc accidentService, pollInterval time.Duration) *DashboardHandler {
	return &DashboardHandler{
		state:        state,
		accidentSvc:  accidentSvc,
		page:         template.Must(template.ParseFS(templates, "templates/dashboard.html")),
		pollInterval: pollInterval,
	}
}

func (h *DashboardHandler) Register(r *gin.RouterGroup) {
	r.GET("/", h.Index)
	r.GET("/data", h.GetData)
	r.GET("/history", h.GetHistory)
	r.GET("/hospitals", h.GetHospitals)
}

func (h *DashboardHandler) Index(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: h.page,
		Name:     "dashboard.html",
		Data: gin.H{
			"Title":          "Smart Accident Detection System",
			"PollIntervalMs": h.pollInterval.Milliseconds(),
		},
	})
}

func (h *DashboardHandler) GetData(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Latest())
}

func (h *DashboardHandler) GetHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = n
	}

	accidents, err := h.accidentSvc.ListRecent(c.Request.Context(), limit)
	if errors.Is(err, service.ErrHistoryDisabled) {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	results := make([]accidentResponse, len(accidents))
	for i, a := range accidents {
		results[i] = toAccidentResponse(&a)
	}
	c.JSON(http.StatusOK, results)
}

func (h *DashboardHandler) GetHospitals(c *gin.Context) {
	c.JSON(http.StatusOK, h.accidentSvc.Hospitals())
}

func toAccidentResponse(a *domain.Accident) accidentResponse {
	return accidentResponse{
		ID:         a.ID,
		DeviceID:   a.DeviceID,
		Latitude:   a.Lat,
		Longitude:  a.Lon,
		Hospital:   a.Hospital,
		DistanceKm: a.DistanceKm,
		Timestamp:  a.OccurredAt.Unix(),
	}
}
