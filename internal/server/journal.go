package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/journal"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportBytes bounds the size of an uploaded journal export.
const maxImportBytes = 10 << 20

type journalQuery struct {
	Lesson string `query:"lesson"`
	Q      string `query:"q"`
	Limit  int    `query:"limit" validate:"gte=0"`
}

func (a *api) registerJournal(g *echo.Group) {
	jg := g.Group("/journal")
	jg.GET("", a.listJournal)
	jg.POST("", a.createEntry)
	jg.DELETE("", a.clearJournal)
	jg.GET("/stats", a.journalStats)
	jg.GET("/export", a.exportJournal)
	jg.POST("/import", a.importJournal)
	jg.GET("/:id", a.getEntry)
	jg.PUT("/:id", a.upsertEntry)
	jg.DELETE("/:id", a.deleteEntry)
}

// listJournal returns entries newest first.
func (a *api) listJournal(c echo.Context) error {
	q := new(journalQuery)
	if err := bindValid(c, q); err != nil {
		return err
	}
	ctx := c.Request().Context()

	var entries []journal.Entry
	switch {
	case q.Q != "":
		entries = a.Journal.Search(ctx, q.Q)
	case q.Lesson != "":
		entries = journal.SortByNewest(a.Journal.ByLesson(ctx, q.Lesson))
	default:
		entries = journal.SortByNewest(a.Journal.Entries(ctx))
	}
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (a *api) createEntry(c echo.Context) error {
	d := new(journal.Draft)
	if err := bindValid(c, d); err != nil {
		return err
	}
	e, err := a.Journal.Create(c.Request().Context(), *d)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, e)
}

func (a *api) getEntry(c echo.Context) error {
	e, err := a.Journal.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// upsertEntry replaces the entry at :id, or inserts it. The body's id, if
// any, must match the path.
func (a *api) upsertEntry(c echo.Context) error {
	var e journal.Entry
	if err := json.NewDecoder(c.Request().Body).Decode(&e); err != nil {
		return newBadRequest("invalid entry: " + err.Error())
	}
	id := c.Param("id")
	if e.ID == "" {
		e.ID = id
	}
	if e.ID != id {
		return newBadRequest("entry id does not match path")
	}
	action, err := a.Journal.Upsert(c.Request().Context(), e)
	if err != nil {
		return err
	}
	code := http.StatusOK
	if action == events.ActionCreated {
		code = http.StatusCreated
	}
	return c.JSON(code, echo.Map{"action": action, "entry": e})
}

func (a *api) deleteEntry(c echo.Context) error {
	ok, err := a.Journal.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", journal.ErrNotFound, c.Param("id"))
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *api) clearJournal(c echo.Context) error {
	if err := a.Journal.Clear(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *api) journalStats(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Journal.Stats(c.Request().Context()))
}

// exportJournal serves ?format=json|csv|profile-csv|xlsx.
func (a *api) exportJournal(c echo.Context) error {
	ctx := c.Request().Context()
	stamp := time.Now().UTC().Format("2006-01-02")
	format := c.QueryParam("format")

	switch format {
	case "", "json":
		data, err := a.Journal.ExportJSON(ctx)
		if err != nil {
			return err
		}
		return attachment(c, "nature-power-journal-"+stamp+".json", echo.MIMEApplicationJSON, data)
	case "xlsx":
		data, err := a.Journal.ExportXLSX(ctx)
		if err != nil {
			return err
		}
		return attachment(c, "nature-power-journal-"+stamp+".xlsx", mimeXLSX, data)
	}

	layout, err := journal.ParseLayout(format)
	if err != nil {
		return newBadRequest(err.Error())
	}
	data, err := a.Journal.ExportCSV(ctx, layout)
	if err != nil {
		return err
	}
	return attachment(c, "nature-power-journal-"+stamp+".csv", "text/csv; charset=utf-8", data)
}

func (a *api) importJournal(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes))
	if err != nil {
		return err
	}
	n, err := a.Journal.ImportJSON(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"imported": n, "message": "Imported " + strconv.Itoa(n) + " entries"})
}
