package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/abhisek/naturepower/internal/gallery"
	"github.com/abhisek/naturepower/internal/journal"
	"github.com/abhisek/naturepower/internal/logging"
	"github.com/abhisek/naturepower/internal/progress"
	"github.com/abhisek/naturepower/internal/widgets/circuit"
	"github.com/abhisek/naturepower/internal/widgets/citizenship"
	"github.com/abhisek/naturepower/internal/widgets/design"
	"github.com/abhisek/naturepower/internal/widgets/houses"
	"github.com/abhisek/naturepower/internal/widgets/plates"
	"github.com/abhisek/naturepower/internal/widgets/weather"
)

var (
	notFound = []error{
		progress.ErrUnknownLesson,
		journal.ErrNotFound,
		gallery.ErrNotFound,
		weather.ErrUnknownPlace,
		citizenship.ErrUnknownScenario,
		plates.ErrUnknownCity,
		houses.ErrUnknownHouse,
	}
	conflict = []error{
		progress.ErrLessonLocked,
		progress.ErrReopen,
	}
	badRequest = []error{
		progress.ErrInvalidStatus,
		progress.ErrInvalidPoints,
		journal.ErrEmptyImport,
		journal.ErrMissingLesson,
		journal.ErrMissingID,
		circuit.ErrOutOfBounds,
		circuit.ErrCellTaken,
		circuit.ErrUnknownType,
		circuit.ErrNotWorking,
		design.ErrUnknownFeature,
		design.ErrNoReason,
		weather.ErrMissingFacts,
		citizenship.ErrBadChoice,
		citizenship.ErrNoRules,
		citizenship.ErrTooManyRules,
		plates.ErrMagnitude,
		plates.ErrTooFewFacts,
		plates.ErrNoReflection,
		houses.ErrUnknownFeature,
		houses.ErrIncomplete,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// badRequestError marks a handler-level input problem.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func newBadRequest(msg string) error { return &badRequestError{msg: msg} }

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var (
		httpErr   *echo.HTTPError
		valErrs   validator.ValidationErrors
		formatErr *journal.FormatError
		badReq    *badRequestError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &valErrs), errors.As(err, &formatErr), errors.As(err, &badReq):
		return http.StatusBadRequest
	case isAny(err, notFound):
		return http.StatusNotFound
	case isAny(err, conflict):
		return http.StatusConflict
	case isAny(err, badRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorHandler(log *logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := statusFor(err)

		var message any
		var (
			httpErr *echo.HTTPError
			valErrs validator.ValidationErrors
		)
		switch {
		case errors.As(err, &httpErr):
			message = echo.Map{"error": httpErr.Message}
		case errors.As(err, &valErrs):
			fields := make(map[string]string, len(valErrs))
			for _, fe := range valErrs {
				fields[fe.Field()] = fe.Tag()
			}
			message = echo.Map{"error": "validation failed", "fields": fields}
		case code >= http.StatusInternalServerError:
			log.Error("request failed", "path", c.Path(), "error", err)
			message = echo.Map{"error": http.StatusText(code)}
		default:
			message = echo.Map{"error": err.Error()}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, message)
	}
}
