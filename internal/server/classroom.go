package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/naturepower/internal/gallery"
)

func (a *api) registerGallery(g *echo.Group) {
	gg := g.Group("/gallery")
	gg.GET("", a.listGallery)
	gg.POST("", a.submitGallery)
	gg.GET("/stats", a.galleryStats)
	gg.GET("/settings", a.gallerySettings)
	gg.PUT("/settings", a.saveGallerySettings)
	gg.POST("/:id/approve", a.approveGallery)
	gg.POST("/:id/hide", a.hideGallery)
	gg.POST("/:id/like", a.likeGallery)
	gg.DELETE("/:id", a.deleteGallery)
}

func (a *api) listGallery(c echo.Context) error {
	f := new(gallery.Filter)
	if err := c.Bind(f); err != nil {
		return err
	}
	items := a.Gallery.List(c.Request().Context(), *f)
	if items == nil {
		items = []gallery.Item{}
	}
	return c.JSON(http.StatusOK, items)
}

func (a *api) submitGallery(c echo.Context) error {
	sub := new(gallery.Submission)
	if err := bindValid(c, sub); err != nil {
		return err
	}
	it, err := a.Gallery.Submit(c.Request().Context(), *sub)
	if err != nil {
		return newBadRequest(err.Error())
	}
	return c.JSON(http.StatusCreated, it)
}

func (a *api) galleryStats(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Gallery.Stats(c.Request().Context()))
}

func (a *api) gallerySettings(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Gallery.Settings(c.Request().Context()))
}

func (a *api) saveGallerySettings(c echo.Context) error {
	st := new(gallery.Settings)
	if err := c.Bind(st); err != nil {
		return err
	}
	if err := a.Gallery.SaveSettings(c.Request().Context(), *st); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (a *api) approveGallery(c echo.Context) error {
	return itemResult(c)(a.Gallery.ToggleApproval(c.Request().Context(), c.Param("id")))
}

func (a *api) hideGallery(c echo.Context) error {
	return itemResult(c)(a.Gallery.ToggleHidden(c.Request().Context(), c.Param("id")))
}

func (a *api) likeGallery(c echo.Context) error {
	return itemResult(c)(a.Gallery.Like(c.Request().Context(), c.Param("id")))
}

func itemResult(c echo.Context) func(gallery.Item, error) error {
	return func(it gallery.Item, err error) error {
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, it)
	}
}

func (a *api) deleteGallery(c echo.Context) error {
	if err := a.Gallery.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *api) registerTeacher(g *echo.Group) {
	tg := g.Group("/teacher")
	tg.GET("/stats", a.teacherStats)
	tg.GET("/export", a.teacherExport)
	tg.GET("/report", a.teacherReport)
}

func (a *api) teacherStats(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Teacher.Stats(c.Request().Context()))
}

func (a *api) teacherExport(c echo.Context) error {
	data, err := a.Teacher.Export(c.Request().Context())
	if err != nil {
		return err
	}
	return attachment(c, "nature-power-class-data-"+time.Now().UTC().Format("2006-01-02")+".json", echo.MIMEApplicationJSON, data)
}

func (a *api) teacherReport(c echo.Context) error {
	data, err := a.Teacher.Report(c.Request().Context())
	if err != nil {
		return err
	}
	return attachment(c, "nature-power-report-"+time.Now().UTC().Format("2006-01-02")+".xlsx", mimeXLSX, data)
}
