package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/naturepower/internal/progress"
)

type statusRequest struct {
	Status progress.Status `json:"status" validate:"required,oneof=locked inprogress complete"`
}

type xpRequest struct {
	Points int `json:"points" validate:"gt=0"`
}

func (a *api) registerProgress(g *echo.Group) {
	pg := g.Group("/progress")
	pg.GET("", a.getProgress)
	pg.POST("/reset", a.resetProgress)
	pg.GET("/summary", a.progressSummary)
	pg.GET("/stats", a.progressStats)
	pg.GET("/export", a.exportProgress)
	pg.POST("/xp", a.addXP)
	pg.POST("/streak", a.updateStreak)
	pg.PUT("/lessons/:id", a.setLessonStatus)
	pg.POST("/lessons/:id/start", a.startLesson)
	pg.POST("/lessons/:id/complete", a.completeLesson)
}

func (a *api) getProgress(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Progress.Progress(c.Request().Context()))
}

func (a *api) resetProgress(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Progress.Reset(c.Request().Context()))
}

func (a *api) progressSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Progress.LessonProgress(c.Request().Context()))
}

func (a *api) progressStats(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Progress.Stats(c.Request().Context()))
}

func (a *api) exportProgress(c echo.Context) error {
	name, data, err := a.Progress.Export(c.Request().Context())
	if err != nil {
		return err
	}
	return attachment(c, name, echo.MIMEApplicationJSON, data)
}

func (a *api) addXP(c echo.Context) error {
	req := new(xpRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	total, err := a.Progress.AddXP(c.Request().Context(), req.Points)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"xp": total})
}

func (a *api) updateStreak(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Progress.UpdateStreak(c.Request().Context()))
}

func (a *api) setLessonStatus(c echo.Context) error {
	req := new(statusRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	st, err := a.Progress.SetLessonStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (a *api) startLesson(c echo.Context) error {
	st, err := a.Progress.StartLesson(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (a *api) completeLesson(c echo.Context) error {
	res, err := a.Progress.CompleteLesson(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// bindValid decodes the request into v and validates it.
func bindValid(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return err
	}
	return c.Validate(v)
}

func attachment(c echo.Context, name, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, contentType, data)
}
