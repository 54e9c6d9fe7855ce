package mockapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/auth"
	"github.com/dmitrijs2005/venuebook/internal/mockapi/store"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

func data(c echo.Context, code int, v any) error {
	return c.JSON(code, map[string]any{"data": v})
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}

// bindValid decodes the body into req and runs the request validator.
func bindValid(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return err
	}
	return c.Validate(req)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

func queryInt64(c echo.Context, name string) (int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, &store.FieldError{Field: name, Message: fmt.Sprintf("The %s must be a number.", name)}
	}
	return n, nil
}

func (s *Server) issue(c echo.Context, code int, u models.UserProfile) error {
	token, err := auth.GenerateToken(u.ID, []byte(s.config.SecretKey), s.config.TokenTTL)
	if err != nil {
		return err
	}
	return data(c, code, models.AuthResult{User: u, Token: token})
}

// Auth.

func (s *Server) login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	u, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		return err
	}
	return s.issue(c, http.StatusOK, u)
}

func (s *Server) register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	u, err := s.store.CreateUser(models.UserProfile{
		Name:     req.Name,
		Surname:  req.Surname,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     models.RoleUser,
	}, req.Password)
	if err != nil {
		return err
	}
	return s.issue(c, http.StatusCreated, u)
}

func (s *Server) logout(c echo.Context) error {
	claims := currentClaims(c)
	exp := s.now().Add(s.config.TokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	s.store.Revoke(claims.ID, exp)
	return message(c, "Logged out.")
}

// Profile.

func (s *Server) profile(c echo.Context) error {
	return data(c, http.StatusOK, currentUser(c))
}

func (s *Server) updateProfile(c echo.Context) error {
	var req models.ProfileUpdateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	u, err := s.store.UpdateUser(currentUser(c).ID, req.Patch())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, u)
}

// Public catalogue.

func (s *Server) weddingHalls(c echo.Context) error {
	district, err := queryInt64(c, "district_id")
	if err != nil {
		return err
	}
	halls := s.store.Halls(store.HallFilter{
		DistrictID:   district,
		Search:       c.QueryParam("search"),
		ApprovedOnly: true,
	})
	return paginate(c, halls)
}

func (s *Server) weddingHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	h, err := s.store.Hall(id)
	if err != nil {
		return err
	}
	if h.Status != models.HallApproved {
		return common.ErrorNotFound
	}
	return data(c, http.StatusOK, h)
}

func (s *Server) districts(c echo.Context) error {
	return data(c, http.StatusOK, s.store.Districts())
}

// Customer reservations.

func (s *Server) myReservations(c echo.Context) error {
	return paginate(c, s.store.Reservations(store.ReservationFilter{UserID: currentUser(c).ID}))
}

func (s *Server) createReservation(c echo.Context) error {
	var req models.ReservationRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if req.ReservationDate <= s.now().Format(dateLayout) {
		return &store.FieldError{Field: "reservation_date", Message: "The reservation date must be a date after today."}
	}
	r, err := s.store.CreateReservation(currentUser(c).ID, req)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, r)
}

func (s *Server) cancelReservation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, err := s.store.CancelReservation(currentUser(c).ID, id)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, r)
}

// Owner area.

func (s *Server) ownerDashboard(c echo.Context) error {
	return data(c, http.StatusOK, s.store.OwnerDashboard(currentUser(c).ID, s.now().Format(dateLayout)))
}

func (s *Server) ownerHalls(c echo.Context) error {
	return paginate(c, s.store.Halls(store.HallFilter{OwnerID: currentUser(c).ID}))
}

func (s *Server) ownerHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	h, err := s.store.Hall(id)
	if err != nil {
		return err
	}
	if h.OwnerID != currentUser(c).ID {
		return common.ErrorNotFound
	}
	return data(c, http.StatusOK, h)
}

func (s *Server) createOwnerHall(c echo.Context) error {
	var req models.HallRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	h, err := s.store.CreateHall(currentUser(c).ID, req)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, h)
}

func (s *Server) updateOwnerHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req := models.HallRequest{ID: id}
	if err := bindValid(c, &req); err != nil {
		return err
	}
	h, err := s.store.UpdateHall(currentUser(c).ID, id, req)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, h)
}

func (s *Server) deleteOwnerHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteHall(currentUser(c).ID, id); err != nil {
		return err
	}
	return message(c, "Wedding hall deleted.")
}

func (s *Server) ownerReservations(c echo.Context) error {
	return paginate(c, s.store.Reservations(store.ReservationFilter{
		OwnerID: currentUser(c).ID,
		Status:  models.ReservationStatus(c.QueryParam("status")),
	}))
}

func (s *Server) updateReservationStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req := models.ReservationStatusRequest{ID: id}
	if err := bindValid(c, &req); err != nil {
		return err
	}
	r, err := s.store.SetReservationStatus(currentUser(c).ID, id, req.Status)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, r)
}

// Admin area.

func (s *Server) adminDashboard(c echo.Context) error {
	return data(c, http.StatusOK, s.store.AdminDashboard())
}

func (s *Server) adminUsers(c echo.Context) error {
	role := models.Role(c.QueryParam("role"))
	if role != "" && !role.Valid() {
		return &store.FieldError{Field: "role", Message: "The selected role is invalid."}
	}
	return paginate(c, s.store.Users(role))
}

func (s *Server) adminUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u, err := s.store.User(id)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, u)
}

func (s *Server) updateAdminUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	req := models.UserUpdateRequest{ID: id}
	if err := bindValid(c, &req); err != nil {
		return err
	}
	u, err := s.store.UpdateUser(id, models.ProfilePatch{
		Name:     req.Name,
		Surname:  req.Surname,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, u)
}

func (s *Server) deleteAdminUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if id == currentUser(c).ID {
		return &store.FieldError{Field: "id", Message: "You cannot delete your own account."}
	}
	if err := s.store.DeleteUser(id); err != nil {
		return err
	}
	return message(c, "User deleted.")
}

func (s *Server) adminOwners(c echo.Context) error {
	return paginate(c, s.store.Users(models.RoleOwner))
}

func (s *Server) createAdminOwner(c echo.Context) error {
	var req models.OwnerCreateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	u, err := s.store.CreateUser(models.UserProfile{
		Name:     req.Name,
		Surname:  req.Surname,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     models.RoleOwner,
	}, req.Password)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, u)
}

func (s *Server) adminHalls(c echo.Context) error {
	return paginate(c, s.store.Halls(store.HallFilter{}))
}

func (s *Server) deleteAdminHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteHall(0, id); err != nil {
		return err
	}
	return message(c, "Wedding hall deleted.")
}

func (s *Server) adminReservations(c echo.Context) error {
	return paginate(c, s.store.Reservations(store.ReservationFilter{
		Status: models.ReservationStatus(c.QueryParam("status")),
	}))
}

func (s *Server) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now()
}
