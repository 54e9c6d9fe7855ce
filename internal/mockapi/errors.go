package mockapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/venuebook/internal/client/client"
	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/store"
	"github.com/labstack/echo/v4"
)

const invalidDataMessage = "The given data was invalid."

// errorBody is the error shape of the API:
//
//	{"message": "...", "errors": {"field": ["..."]}}
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// errorHandler maps handler errors onto API responses. Unknown errors are
// logged and answered with a bare 500.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, body := s.describe(err, c)
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "write error response", "error", err)
	}
}

func (s *Server) describe(err error, c echo.Context) (int, errorBody) {
	var (
		verr    *client.ValidationError
		ferr    *store.FieldError
		httpErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorBody{Message: invalidDataMessage, Errors: verr.Fields}
	case errors.As(err, &ferr):
		return http.StatusUnprocessableEntity, errorBody{
			Message: ferr.Message,
			Errors:  map[string][]string{ferr.Field: {ferr.Message}},
		}
	case errors.Is(err, common.ErrInvalidLogin):
		return http.StatusUnauthorized, errorBody{Message: "These credentials do not match our records."}
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked):
		return http.StatusUnauthorized, errorBody{Message: "Unauthenticated."}
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, errorBody{Message: "This action is unauthorized."}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorBody{Message: "Not found."}
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, errorBody{Message: "The resource is not in a state that allows this action."}
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, errorBody{Message: msg}
	}

	s.logger.Error(c.Request().Context(), "unhandled error", "error", err, "path", c.Request().URL.Path)
	return http.StatusInternalServerError, errorBody{Message: "Server Error"}
}
