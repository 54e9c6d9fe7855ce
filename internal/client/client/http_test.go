package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/dmitrijs2005/venuebook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransport(t *testing.T, url string, token string) *HTTPTransport {
	t.Helper()
	tr, err := NewHTTPTransport(url+"/api/v1", 2*time.Second, TokenFunc(func() string { return token }), logging.NewNopLogger())
	require.NoError(t, err)
	return tr
}

func TestNewHTTPTransport_RejectsBadBaseURL(t *testing.T) {
	_, err := NewHTTPTransport("ftp://x", time.Second, nil, logging.NewNopLogger())
	require.Error(t, err)
	_, err = NewHTTPTransport("::", time.Second, nil, logging.NewNopLogger())
	require.Error(t, err)
}

func TestURL_JoinsBaseAndPath(t *testing.T) {
	tr, err := NewHTTPTransport("http://h:1/api/v1/", time.Second, nil, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, "http://h:1/api/v1/wedding-halls/3", tr.URL("/wedding-halls/3", nil))
	assert.Equal(t, "http://h:1/api/v1/wedding-halls?page=2&search=garden", tr.URL("wedding-halls", map[string][]string{"search": {"garden"}, "page": {"2"}}))
}

func TestDo_SendsHeadersAndUnwrapsEnvelope(t *testing.T) {
	var gotAuth, gotAccept, gotCT, gotReqID, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(common.AuthorizationHeaderName)
		gotAccept = r.Header.Get("Accept")
		gotCT = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get(common.RequestIDHeaderName)
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_, _ = w.Write([]byte(`{"data":{"id":7,"name":"Garden","capacity":120}}`))
	}))
	defer srv.Close()

	tr := newTransport(t, srv.URL, "abc")
	var hall models.WeddingHall
	err := tr.Do(context.Background(), Request{Method: http.MethodPost, Path: "/owner/wedding-halls", Body: map[string]any{"name": "Garden"}}, &hall)
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "application/json", gotCT)
	assert.Len(t, gotReqID, 36)
	assert.Equal(t, "/api/v1/owner/wedding-halls", gotPath)
	assert.Equal(t, "Garden", gotBody["name"])
	assert.Equal(t, int64(7), hall.ID)
	assert.Equal(t, 120, hall.Capacity)
}

func TestDo_NoTokenNoAuthorizationHeader(t *testing.T) {
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header[common.AuthorizationHeaderName]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, newTransport(t, srv.URL, "").Do(context.Background(), Request{Method: http.MethodGet, Path: "/districts"}, nil))
	assert.False(t, present)
}

func TestDo_DecodesPaginatedList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"data":[{"id":1},{"id":2}],"current_page":1,"last_page":3,"per_page":2,"total":6,"next_page_url":"x"}}`))
	}))
	defer srv.Close()

	var page models.Page[models.WeddingHall]
	require.NoError(t, newTransport(t, srv.URL, "").Do(context.Background(), Request{Method: http.MethodGet, Path: "/wedding-halls"}, &page))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.LastPage)
	assert.True(t, page.HasNext())
}

func TestDo_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "validation",
			status: http.StatusUnprocessableEntity,
			body:   `{"message":"The given data was invalid.","errors":{"email":["The email has already been taken."]}}`,
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, []string{"The email has already been taken."}, verr.Field("email"))
				assert.ErrorIs(t, err, common.ErrorValidation)
				assert.Equal(t, "The email has already been taken.", UserMessage(err))
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"message":"Unauthenticated."}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
				assert.True(t, IsUnauthorized(err))
				assert.Equal(t, "Unauthenticated.", UserMessage(err))
			},
		},
		{
			name:   "forbidden counts as unauthorized",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
				assert.ErrorIs(t, err, common.ErrorForbidden)
			},
		},
		{
			name:   "unauthorized with field errors stays unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"message":"Unauthenticated.","errors":{"token":["The token has been revoked."]}}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsUnauthorized(err))
				var verr *ValidationError
				assert.False(t, errors.As(err, &verr))
			},
		},
		{
			name:   "forbidden with field errors stays unauthorized",
			status: http.StatusForbidden,
			body:   `{"message":"This action is unauthorized.","errors":{"role":["Owners only."]}}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsUnauthorized(err))
				assert.ErrorIs(t, err, common.ErrorForbidden)
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNotFound)
				assert.NotErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `oops`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnavailable)
				assert.Equal(t, "The server is unavailable. Please try again later.", UserMessage(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTransport(t, srv.URL, "t").Do(context.Background(), Request{Method: http.MethodGet, Path: "/profile"}, nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestDo_NetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := newTransport(t, url, "").Do(context.Background(), Request{Method: http.MethodGet, Path: "/districts"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	tr, err := NewHTTPTransport(srv.URL, 50*time.Millisecond, nil, logging.NewNopLogger())
	require.NoError(t, err)

	err = tr.Do(context.Background(), Request{Method: http.MethodGet, Path: "/districts"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := newTransport(t, srv.URL, "").Do(ctx, Request{Method: http.MethodGet, Path: "/districts"}, nil)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "The request timed out. Please try again.", UserMessage(err))
}

func TestValidate(t *testing.T) {
	err := Validate(models.RegisterRequest{
		Name: "A", Surname: "B", Username: "abc", Email: "a@b.com",
		Password: "password1", PasswordConfirmation: "password2",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"The password confirmation does not match."}, verr.Field("password_confirmation"))

	err = Validate(models.LoginRequest{})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")

	assert.NoError(t, Validate(models.LoginRequest{Email: "a@b.com", Password: "x"}))

	err = Validate(models.ReservationStatusRequest{Status: "pending"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "id")
	assert.Contains(t, verr.Fields, "status")
}

func TestUserMessage_Plain(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
	assert.Equal(t, "Conflict", UserMessage(&StatusError{Code: http.StatusConflict}))
}
