package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"tara/pkg/astro"
	"tara/pkg/utils"
)

type d1ChartResp struct {
	Success  bool               `json:"success"`
	Data     []astro.PlanetData `json:"data"`
	Metadata chartMetadata      `json:"metadata"`
}

type chartMetadata struct {
	ResponseTime string `json:"responseTime"`
	Timestamp    string `json:"timestamp"`
}

// POST /api/astrology/d1-chart
func (s *Server) handlePostD1Chart(c echo.Context) error {
	if s.astro == nil {
		return c.JSON(http.StatusInternalServerError,
			utils.ErrJSON("astrology api credentials not configured; set ASTROLOGY_API_USER_ID and ASTROLOGY_API_KEY"))
	}

	var details astro.BirthDetails
	if err := c.Bind(&details); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if strings.TrimSpace(details.Date) == "" || strings.TrimSpace(details.Time) == "" || strings.TrimSpace(details.Timezone) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date, time, and timezone are required")
	}

	req, err := astro.ConvertBirthDetails(details)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	planets, err := s.astro.FetchPlanets(c.Request().Context(), req)
	if err != nil {
		log.Error("d1 chart fetch failed", "city", details.City, "error", err)
		s.countAstroError()
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error":  "failed fetching planetary positions",
			"detail": err.Error(),
		})
	}

	log.Info("d1 chart served", "city", details.City, "planets", len(planets), "took", time.Since(start))
	return c.JSON(http.StatusOK, d1ChartResp{
		Success: true,
		Data:    planets,
		Metadata: chartMetadata{
			ResponseTime: time.Since(start).String(),
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// GET /api/astrology-api-status
func (s *Server) handleGetAstrologyStatus(c echo.Context) error {
	status, checkedAt := astro.StatusUnconfigured, time.Time{}
	if s.status != nil {
		status, checkedAt = s.status.Status()
	}

	resp := map[string]any{"status": status}
	if !checkedAt.IsZero() {
		resp["checkedAt"] = checkedAt.UTC().Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, resp)
}

// GET /api/astrology/test-credentials
func (s *Server) handleGetTestCredentials(c echo.Context) error {
	if s.astro == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": astro.StatusUnconfigured})
	}

	ok, err := s.astro.ValidateCredentials(c.Request().Context())
	switch {
	case err != nil:
		s.countAstroError()
		return c.JSON(http.StatusOK, map[string]string{
			"status": astro.StatusError,
			"detail": err.Error(),
		})
	case !ok:
		return c.JSON(http.StatusOK, map[string]string{"status": astro.StatusInvalid})
	default:
		return c.JSON(http.StatusOK, map[string]string{"status": astro.StatusAvailable})
	}
}

// POST /api/astrology/planets, a direct proxy to the external API.
func (s *Server) handlePostPlanetsProxy(c echo.Context) error {
	if s.astro == nil {
		return c.JSON(http.StatusInternalServerError,
			utils.ErrJSON("astrology api credentials not configured; set ASTROLOGY_API_USER_ID and ASTROLOGY_API_KEY"))
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
	}

	status, body, err := s.astro.Proxy(c.Request().Context(), payload)
	if err != nil {
		if errors.Is(err, c.Request().Context().Err()) {
			return err
		}
		log.Error("planets proxy failed", "error", err)
		s.countAstroError()
		return c.JSON(http.StatusBadGateway, map[string]any{
			"error":  "astrology api unreachable",
			"detail": err.Error(),
		})
	}
	return c.Blob(status, echo.MIMEApplicationJSON, body)
}

func (s *Server) countAstroError() {
	if s.metrics != nil {
		s.metrics.AstrologyErrors.Inc()
	}
}
