package httpapi

import (
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/acolita/ringclock/internal/clock"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/labstack/echo/v4"
)

// unset is forwarded to SetTime for components the caller did not send.
// It is outside every ring's domain, so the component stays unchanged.
const unset = -1

type timeResponse struct {
	clock.Time
	Display string `json:"display"`
}

func newTimeResponse(t clock.Time) timeResponse {
	return timeResponse{Time: t, Display: t.String()}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleTime(c echo.Context) error {
	var t clock.Time
	if s.lazyTick {
		t, _ = s.shared.TickIfDue()
	} else {
		t = s.shared.Snapshot()
	}
	return c.JSON(http.StatusOK, newTimeResponse(t))
}

func (s *Server) handleSync(c echo.Context) error {
	t := s.shared.Sync()
	return c.JSON(http.StatusOK, newTimeResponse(t))
}

func (s *Server) handleAdjust(c echo.Context) error {
	hour, err := component(c, "hour")
	if err != nil {
		return err
	}
	minute, err := component(c, "minute")
	if err != nil {
		return err
	}
	second, err := component(c, "second")
	if err != nil {
		return err
	}

	t := s.shared.SetTime(hour, minute, second)
	return c.JSON(http.StatusOK, newTimeResponse(t))
}

// component reads an integer query or form value. Missing values yield unset.
func component(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return unset, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer, got %q", name, raw))
	}
	return v, nil
}

func (s *Server) handleStatic(c echo.Context) error {
	rel := strings.TrimPrefix(path.Clean("/"+c.Param("*")), "/")
	if rel == "" {
		rel = "index.html"
	}

	for _, pattern := range s.cfg.StaticExclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return echo.ErrNotFound
		}
	}

	return c.File(filepath.Join(s.cfg.StaticDir, filepath.FromSlash(rel)))
}
