package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/venuebook/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// StatusError is a non-2xx response that is not a validation failure.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.Code, http.StatusText(e.Code))
}

// Is maps status codes onto the package sentinels. 401 and 403 both mean the
// credential must not be trusted.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized, common.ErrorUnauthorized:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	case common.ErrorForbidden:
		return e.Code == http.StatusForbidden
	case ErrNotFound, common.ErrorNotFound:
		return e.Code == http.StatusNotFound
	case common.ErrorConflict:
		return e.Code == http.StatusConflict
	case ErrUnavailable:
		return e.Code >= http.StatusInternalServerError
	}
	return false
}

// ValidationError carries per-field messages, keyed by the wire field name.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if f := e.First(); f != "" {
		return f
	}
	return common.ErrorValidation.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

// Field returns the messages for one field.
func (e *ValidationError) Field(name string) []string {
	return e.Fields[name]
}

// First returns the first message of the alphabetically first field.
func (e *ValidationError) First() string {
	names := make([]string, 0, len(e.Fields))
	for n := range e.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if msgs := e.Fields[n]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// UserMessage turns err into the one line shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		if len(verr.Fields) == 0 {
			return verr.Error()
		}
		var b strings.Builder
		names := make([]string, 0, len(verr.Fields))
		for n := range verr.Fields {
			names = append(names, n)
		}
		sort.Strings(names)
		for i, n := range names {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(strings.Join(verr.Fields[n], " "))
		}
		return b.String()
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Please try again."
	case errors.Is(err, ErrUnavailable):
		return "The server is unavailable. Please try again later."
	case errors.Is(err, ErrNotFound):
		return "Not found."
	}

	var serr *StatusError
	if errors.As(err, &serr) {
		if serr.Message != "" {
			return serr.Message
		}
		return http.StatusText(serr.Code)
	}
	return err.Error()
}
