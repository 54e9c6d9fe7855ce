// Package store is the in-memory data set behind the mock backend. It keeps
// users, districts, halls, reservations and revoked tokens, guarded by one
// mutex. Every read returns copies so callers never alias stored records.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/dmitrijs2005/venuebook/internal/cryptox"
)

// FieldError is a uniqueness violation on a single field, reported by the
// API as a 422.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func (e *FieldError) Is(target error) bool { return target == common.ErrorValidation }

type user struct {
	profile      models.UserProfile
	passwordHash string
}

// Store is safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	nextID       int64
	users        map[int64]*user
	districts    map[int64]models.District
	halls        map[int64]*models.WeddingHall
	reservations map[int64]*models.Reservation
	revoked      map[string]time.Time
}

func New() *Store {
	return &Store{
		users:        make(map[int64]*user),
		districts:    make(map[int64]models.District),
		halls:        make(map[int64]*models.WeddingHall),
		reservations: make(map[int64]*models.Reservation),
		revoked:      make(map[string]time.Time),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Users.

// CreateUser stores a new account. Email and username are unique.
func (s *Store) CreateUser(p models.UserProfile, password string) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(0, p.Email, p.Username); err != nil {
		return models.UserProfile{}, err
	}
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	p.ID = s.id()
	s.users[p.ID] = &user{profile: p, passwordHash: cryptox.HashPassword([]byte(password))}
	return p, nil
}

func (s *Store) checkUnique(self int64, email, username string) error {
	for id, u := range s.users {
		if id == self {
			continue
		}
		if email != "" && strings.EqualFold(u.profile.Email, email) {
			return &FieldError{Field: "email", Message: "The email has already been taken."}
		}
		if username != "" && strings.EqualFold(u.profile.Username, username) {
			return &FieldError{Field: "username", Message: "The username has already been taken."}
		}
	}
	return nil
}

// Authenticate returns the profile matching email and password.
func (s *Store) Authenticate(email, password string) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if !strings.EqualFold(u.profile.Email, email) {
			continue
		}
		ok, err := cryptox.VerifyPassword(u.passwordHash, []byte(password))
		if err != nil || !ok {
			return models.UserProfile{}, common.ErrInvalidLogin
		}
		return u.profile, nil
	}
	return models.UserProfile{}, common.ErrInvalidLogin
}

func (s *Store) User(id int64) (models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.UserProfile{}, common.ErrorNotFound
	}
	return u.profile, nil
}

// UpdateUser applies patch to the user, keeping email and username unique.
func (s *Store) UpdateUser(id int64, patch models.ProfilePatch) (models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.UserProfile{}, common.ErrorNotFound
	}
	var email, username string
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Username != nil {
		username = *patch.Username
	}
	if err := s.checkUnique(id, email, username); err != nil {
		return models.UserProfile{}, err
	}
	u.profile = patch.Apply(u.profile)
	return u.profile, nil
}

// DeleteUser removes the user together with their halls and reservations.
func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(s.users, id)
	for hid, h := range s.halls {
		if h.OwnerID == id {
			s.deleteHall(hid)
		}
	}
	for rid, r := range s.reservations {
		if r.UserID == id {
			delete(s.reservations, rid)
		}
	}
	return nil
}

// Users lists accounts ordered by id, optionally restricted to one role.
func (s *Store) Users(role models.Role) []models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.UserProfile, 0, len(s.users))
	for _, u := range s.users {
		if role == "" || u.profile.Role == role {
			out = append(out, u.profile)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Districts.

func (s *Store) AddDistrict(d models.District) models.District {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.id()
	s.districts[d.ID] = d
	return d
}

func (s *Store) Districts() []models.District {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.District, 0, len(s.districts))
	for _, d := range s.districts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Halls.

// HallFilter selects halls. Zero fields match everything.
type HallFilter struct {
	DistrictID   int64
	OwnerID      int64
	Search       string
	ApprovedOnly bool
}

func (f HallFilter) match(h *models.WeddingHall) bool {
	if f.DistrictID != 0 && h.DistrictID != f.DistrictID {
		return false
	}
	if f.OwnerID != 0 && h.OwnerID != f.OwnerID {
		return false
	}
	if f.ApprovedOnly && h.Status != models.HallApproved {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(h.Name), q) && !strings.Contains(strings.ToLower(h.Address), q) {
			return false
		}
	}
	return true
}

func (s *Store) Halls(f HallFilter) []models.WeddingHall {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WeddingHall, 0)
	for _, h := range s.halls {
		if f.match(h) {
			out = append(out, s.expandHall(h))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Hall(id int64) (models.WeddingHall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.halls[id]
	if !ok {
		return models.WeddingHall{}, common.ErrorNotFound
	}
	return s.expandHall(h), nil
}

// expandHall embeds district and owner and lists the dates held by live
// reservations. Caller holds s.mu.
func (s *Store) expandHall(h *models.WeddingHall) models.WeddingHall {
	out := *h
	out.Images = append([]models.HallImage(nil), h.Images...)
	if d, ok := s.districts[h.DistrictID]; ok {
		out.District = &d
	}
	if u, ok := s.users[h.OwnerID]; ok {
		out.Owner = u.profile.Clone()
	}
	out.BookedDates = nil
	for _, r := range s.reservations {
		if r.WeddingHallID == h.ID && holdsDate(r.Status) {
			out.BookedDates = append(out.BookedDates, r.ReservationDate)
		}
	}
	sort.Strings(out.BookedDates)
	return out
}

func holdsDate(st models.ReservationStatus) bool {
	return st == models.ReservationPending || st == models.ReservationConfirmed
}

// CreateHall stores a hall owned by ownerID. Halls are listed publicly
// right away; moderation is not simulated.
func (s *Store) CreateHall(ownerID int64, req models.HallRequest) (models.WeddingHall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.districts[req.DistrictID]; !ok {
		return models.WeddingHall{}, &FieldError{Field: "district_id", Message: "The selected district id is invalid."}
	}
	h := &models.WeddingHall{OwnerID: ownerID, Status: models.HallApproved}
	applyHall(h, req)
	h.ID = s.id()
	s.halls[h.ID] = h
	return s.expandHall(h), nil
}

// UpdateHall overwrites the editable fields of a hall owned by ownerID.
func (s *Store) UpdateHall(ownerID, id int64, req models.HallRequest) (models.WeddingHall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.halls[id]
	if !ok || h.OwnerID != ownerID {
		return models.WeddingHall{}, common.ErrorNotFound
	}
	if _, ok := s.districts[req.DistrictID]; !ok {
		return models.WeddingHall{}, &FieldError{Field: "district_id", Message: "The selected district id is invalid."}
	}
	applyHall(h, req)
	return s.expandHall(h), nil
}

func applyHall(h *models.WeddingHall, req models.HallRequest) {
	h.Name = req.Name
	h.Description = req.Description
	h.Address = req.Address
	h.Phone = req.Phone
	h.Capacity = req.Capacity
	h.PricePerSeat = req.PricePerSeat
	h.DistrictID = req.DistrictID
}

// DeleteHall removes a hall. ownerID 0 skips the ownership check.
func (s *Store) DeleteHall(ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.halls[id]
	if !ok || (ownerID != 0 && h.OwnerID != ownerID) {
		return common.ErrorNotFound
	}
	s.deleteHall(id)
	return nil
}

func (s *Store) deleteHall(id int64) {
	delete(s.halls, id)
	for rid, r := range s.reservations {
		if r.WeddingHallID == id {
			delete(s.reservations, rid)
		}
	}
}

// Reservations.

// ReservationFilter selects reservations. Zero fields match everything.
type ReservationFilter struct {
	UserID  int64
	OwnerID int64
	Status  models.ReservationStatus
}

func (s *Store) Reservations(f ReservationFilter) []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reservation, 0)
	for _, r := range s.reservations {
		if f.UserID != 0 && r.UserID != f.UserID {
			continue
		}
		if f.OwnerID != 0 {
			h, ok := s.halls[r.WeddingHallID]
			if !ok || h.OwnerID != f.OwnerID {
				continue
			}
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, s.expandReservation(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReservationDate != out[j].ReservationDate {
			return out[i].ReservationDate < out[j].ReservationDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) Reservation(id int64) (models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservations[id]
	if !ok {
		return models.Reservation{}, common.ErrorNotFound
	}
	return s.expandReservation(r), nil
}

// expandReservation embeds the hall and the customer. Caller holds s.mu.
func (s *Store) expandReservation(r *models.Reservation) models.Reservation {
	out := *r
	if h, ok := s.halls[r.WeddingHallID]; ok {
		hc := *h
		hc.Images = nil
		hc.BookedDates = nil
		out.WeddingHall = &hc
	}
	if u, ok := s.users[r.UserID]; ok {
		out.User = u.profile.Clone()
	}
	return out
}

// CreateReservation books a hall for one date. The date must be free and
// the guest count must fit the hall.
func (s *Store) CreateReservation(userID int64, req models.ReservationRequest) (models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.halls[req.WeddingHallID]
	if !ok {
		return models.Reservation{}, &FieldError{Field: "wedding_hall_id", Message: "The selected wedding hall id is invalid."}
	}
	if req.GuestCount > h.Capacity {
		return models.Reservation{}, &FieldError{Field: "guest_count", Message: "The guest count exceeds the hall capacity."}
	}
	for _, r := range s.reservations {
		if r.WeddingHallID == h.ID && r.ReservationDate == req.ReservationDate && holdsDate(r.Status) {
			return models.Reservation{}, &FieldError{Field: "reservation_date", Message: "The hall is already booked on this date."}
		}
	}

	r := &models.Reservation{
		ID:              s.id(),
		WeddingHallID:   h.ID,
		UserID:          userID,
		ReservationDate: req.ReservationDate,
		GuestCount:      req.GuestCount,
		CustomerName:    req.CustomerName,
		CustomerSurname: req.CustomerSurname,
		Phone:           req.Phone,
		TotalPrice:      float64(req.GuestCount) * h.PricePerSeat,
		Status:          models.ReservationPending,
	}
	s.reservations[r.ID] = r
	return s.expandReservation(r), nil
}

// CancelReservation cancels a reservation of userID.
func (s *Store) CancelReservation(userID, id int64) (models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reservations[id]
	if !ok || r.UserID != userID {
		return models.Reservation{}, common.ErrorNotFound
	}
	if !r.Cancellable() {
		return models.Reservation{}, common.ErrorConflict
	}
	r.Status = models.ReservationCancelled
	return s.expandReservation(r), nil
}

// SetReservationStatus confirms or rejects a pending reservation of one of
// ownerID's halls.
func (s *Store) SetReservationStatus(ownerID, id int64, st models.ReservationStatus) (models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reservations[id]
	if !ok {
		return models.Reservation{}, common.ErrorNotFound
	}
	if h, ok := s.halls[r.WeddingHallID]; !ok || h.OwnerID != ownerID {
		return models.Reservation{}, common.ErrorNotFound
	}
	if r.Status != models.ReservationPending {
		return models.Reservation{}, common.ErrorConflict
	}
	r.Status = st
	return s.expandReservation(r), nil
}

// Dashboards.

func (s *Store) OwnerDashboard(ownerID int64, today string) models.OwnerDashboard {
	var d models.OwnerDashboard
	d.TotalHalls = len(s.Halls(HallFilter{OwnerID: ownerID}))
	for _, r := range s.Reservations(ReservationFilter{OwnerID: ownerID}) {
		d.TotalReservations++
		if r.Status == models.ReservationPending {
			d.PendingReservations++
		}
		if r.ReservationDate >= today && holdsDate(r.Status) {
			d.UpcomingReservations = append(d.UpcomingReservations, r)
		}
	}
	return d
}

func (s *Store) AdminDashboard() models.AdminDashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := models.AdminDashboard{
		TotalUsers:        len(s.users),
		TotalHalls:        len(s.halls),
		TotalReservations: len(s.reservations),
	}
	for _, u := range s.users {
		if u.profile.Role == models.RoleOwner {
			d.TotalOwners++
		}
	}
	return d
}

// Token deny list.

// Revoke denies the token id until expiresAt. Expired entries are pruned.
func (s *Store) Revoke(jti string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[jti] = expiresAt
}

func (s *Store) Revoked(jti string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.revoked[jti]
	return ok
}
