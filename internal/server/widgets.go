package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/naturepower/internal/widgets"
	"github.com/abhisek/naturepower/internal/widgets/circuit"
	"github.com/abhisek/naturepower/internal/widgets/citizenship"
	"github.com/abhisek/naturepower/internal/widgets/design"
	"github.com/abhisek/naturepower/internal/widgets/houses"
	"github.com/abhisek/naturepower/internal/widgets/plates"
	"github.com/abhisek/naturepower/internal/widgets/shade"
	"github.com/abhisek/naturepower/internal/widgets/weather"
)

type circuitRequest struct {
	circuit.Board
	LessonID string `json:"lessonId"`
}

type shadeRequest struct {
	Shade    int    `json:"shade" validate:"gte=0,lte=100"`
	LessonID string `json:"lessonId"`
}

type designRequest struct {
	Features  []string `json:"features"`
	Reason    string   `json:"reason"`
	ClassCode string   `json:"classCode"`
	LessonID  string   `json:"lessonId"`
}

type weatherRequest struct {
	First    string `json:"first" validate:"required"`
	Second   string `json:"second" validate:"required"`
	Fact1    string `json:"fact1"`
	Fact2    string `json:"fact2"`
	LessonID string `json:"lessonId"`
}

type choiceRequest struct {
	Scenario string `json:"scenario" validate:"required"`
	Choice   int    `json:"choice" validate:"gte=0"`
}

type posterRequest struct {
	ClassName string   `json:"className"`
	Rules     []string `json:"rules"`
	Completed []string `json:"completed"`
	LessonID  string   `json:"lessonId"`
}

type platesRequest struct {
	Cities     []string `json:"cities"`
	RingOfFire bool     `json:"ringOfFire"`
	Reflection string   `json:"reflection"`
	LessonID   string   `json:"lessonId"`
}

type housesRequest struct {
	Board    map[string]string `json:"board" validate:"required"`
	LessonID string            `json:"lessonId"`
}

func (a *api) registerWidgets(g *echo.Group) {
	wg := g.Group("/widgets")
	wg.POST("/circuit", a.evaluateCircuit)
	wg.POST("/circuit/save", a.saveCircuit)
	wg.GET("/shade", a.readShade)
	wg.POST("/shade/save", a.saveShade)
	wg.POST("/design", a.evaluateDesign)
	wg.POST("/design/save", a.saveDesign)
	wg.GET("/weather", a.compareWeather)
	wg.POST("/weather/save", a.saveWeather)
	wg.GET("/citizenship", a.listScenarios)
	wg.POST("/citizenship", a.chooseScenario)
	wg.POST("/citizenship/save", a.savePoster)
	wg.GET("/plates", a.readPlates)
	wg.POST("/plates/save", a.savePlates)
	wg.POST("/houses", a.scoreHouses)
	wg.POST("/houses/save", a.saveHouses)
}

func (a *api) saveFinding(ctx context.Context, c echo.Context, f widgets.Finding) error {
	e, err := a.Journal.Create(ctx, f.Draft())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func lessonOr(id, def string) string {
	if id == "" {
		return def
	}
	return id
}

func (a *api) evaluateCircuit(c echo.Context) error {
	req := new(circuitRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, req.Board.Evaluate())
}

func (a *api) saveCircuit(c echo.Context) error {
	req := new(circuitRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	f, err := req.Board.Finding(lessonOr(req.LessonID, widgets.CircuitLesson))
	if err != nil {
		return err
	}
	return a.saveFinding(c.Request().Context(), c, f)
}

func (a *api) readShade(c echo.Context) error {
	p, err := strconv.Atoi(c.QueryParam("p"))
	if err != nil {
		return newBadRequest("p must be a whole percentage")
	}
	return c.JSON(http.StatusOK, shade.Read(p))
}

func (a *api) saveShade(c echo.Context) error {
	req := new(shadeRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	return a.saveFinding(c.Request().Context(), c, shade.Finding(lessonOr(req.LessonID, widgets.ShadeLesson), req.Shade))
}

func (a *api) evaluateDesign(c echo.Context) error {
	req := new(designRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	m, err := design.Evaluate(req.Features)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (a *api) saveDesign(c echo.Context) error {
	req := new(designRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	s, err := design.Export(req.Features, req.Reason, req.ClassCode)
	if err != nil {
		return err
	}
	return a.saveFinding(c.Request().Context(), c, s.Finding(lessonOr(req.LessonID, widgets.DesignLesson)))
}

// compareWeather lists the places, or compares ?a= and ?b= when given.
func (a *api) compareWeather(c echo.Context) error {
	first, second := c.QueryParam("a"), c.QueryParam("b")
	if first == "" && second == "" {
		return c.JSON(http.StatusOK, weather.Places)
	}
	cmp, err := weather.Compare(first, second)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cmp)
}

func (a *api) saveWeather(c echo.Context) error {
	req := new(weatherRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	cmp, err := weather.Compare(req.First, req.Second)
	if err != nil {
		return err
	}
	f, err := cmp.Finding(lessonOr(req.LessonID, widgets.WeatherLesson), req.Fact1, req.Fact2)
	if err != nil {
		return err
	}
	return a.saveFinding(c.Request().Context(), c, f)
}

func (a *api) listScenarios(c echo.Context) error {
	return c.JSON(http.StatusOK, citizenship.Scenarios)
}

func (a *api) chooseScenario(c echo.Context) error {
	req := new(choiceRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	ans, err := citizenship.Choose(req.Scenario, req.Choice)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ans)
}

func (a *api) savePoster(c echo.Context) error {
	req := new(posterRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	p, err := citizenship.NewPoster(req.ClassName, req.Rules, req.Completed)
	if err != nil {
		return err
	}
	return a.saveFinding(c.Request().Context(), c, p.Finding(lessonOr(req.LessonID, widgets.CitizenshipLesson)))
}

// readPlates lists the cities, or grades ?m= when given.
func (a *api) readPlates(c echo.Context) error {
	q := c.QueryParam("m")
	if q == "" {
		return c.JSON(http.StatusOK, plates.Cities)
	}
	m, err := strconv.ParseFloat(q, 64)
	if err != nil {
		return newBadRequest("m must be a number")
	}
	im, err := plates.Describe(m)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, im)
}

func (a *api) savePlates(c echo.Context) error {
	req := new(platesRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	x, err := plates.Explore(req.Cities, req.RingOfFire)
	if err != nil {
		return err
	}
	f, err := x.Finding(lessonOr(req.LessonID, widgets.PlatesLesson), req.Reflection)
	if err != nil {
		return err
	}
	return a.saveFinding(c.Request().Context(), c, f)
}

func (a *api) scoreHouses(c echo.Context) error {
	req := new(housesRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	r, err := houses.Score(req.Board)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (a *api) saveHouses(c echo.Context) error {
	req := new(housesRequest)
	if err := bindValid(c, req); err != nil {
		return err
	}
	r, err := houses.Score(req.Board)
	if err != nil {
		return err
	}
	f, err := r.Finding(lessonOr(req.LessonID, widgets.HousesLesson))
	if err != nil {
		return err
	}
	return a.saveFinding(c.Request().Context(), c, f)
}
