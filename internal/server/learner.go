package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/naturepower/internal/learn"
	"github.com/abhisek/naturepower/internal/prefs"
)

func (a *api) registerBadges(g *echo.Group) {
	bg := g.Group("/badges")
	bg.GET("", a.badgeBoard)
	bg.GET("/next", a.nextBadge)
	bg.GET("/stats", a.badgeStats)
	bg.POST("/:id", a.awardBadge)
}

func (a *api) badgeBoard(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Badges.Board(c.Request().Context()))
}

func (a *api) nextBadge(c echo.Context) error {
	b, ok := a.Badges.Next(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"next": nil, "allEarned": true})
	}
	return c.JSON(http.StatusOK, echo.Map{"next": b, "allEarned": false})
}

func (a *api) badgeStats(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Badges.Stats(c.Request().Context()))
}

func (a *api) awardBadge(c echo.Context) error {
	id := c.Param("id")
	awarded := a.Progress.AwardBadge(c.Request().Context(), id)
	code := http.StatusOK
	if awarded {
		code = http.StatusCreated
	}
	return c.JSON(code, echo.Map{"badge": a.Badges.Lookup(id), "newlyAwarded": awarded})
}

func (a *api) registerPrefs(g *echo.Group) {
	g.GET("/prefs", a.getPrefs)
	g.PUT("/prefs", a.putPrefs)
}

func (a *api) getPrefs(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Prefs.All(c.Request().Context()))
}

func (a *api) putPrefs(c echo.Context) error {
	p := new(prefs.Prefs)
	if err := bindValid(c, p); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := a.Prefs.Apply(ctx, *p); err != nil {
		return newBadRequest(err.Error())
	}
	return c.JSON(http.StatusOK, a.Prefs.All(ctx))
}

func (a *api) registerCatalog(g *echo.Group) {
	cg := g.Group("/catalog")
	cg.GET("/lessons", a.listLessons)
	cg.GET("/lessons/:id", a.getLesson)
	cg.GET("/glossary", a.listTerms)
	cg.GET("/glossary/:term", a.defineTerm)
}

func (a *api) listLessons(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Catalog.Lessons())
}

func (a *api) getLesson(c echo.Context) error {
	l, ok := a.Catalog.Lesson(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "lesson not found")
	}
	return c.JSON(http.StatusOK, l)
}

func (a *api) listTerms(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Catalog.Terms())
}

func (a *api) defineTerm(c echo.Context) error {
	term := c.Param("term")
	def, ok := a.Catalog.Define(term)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "term not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"term": term, "definition": def})
}

func (a *api) registerLearn(g *echo.Group) {
	lg := g.Group("/learn/:id")
	lg.POST("/start", a.learnStart)
	lg.POST("/finish", a.learnFinish)
}

func (a *api) learnStart(c echo.Context) error {
	st, err := a.Learn.Start(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// learnFinish accepts an optional reflection body.
func (a *api) learnFinish(c echo.Context) error {
	r := new(learn.Reflection)
	if c.Request().ContentLength != 0 {
		if err := c.Bind(r); err != nil {
			return err
		}
	}
	out, err := a.Learn.Finish(c.Request().Context(), c.Param("id"), *r)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
