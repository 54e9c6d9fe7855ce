package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/venuebook/internal/client/client"
	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/client/querycache"
)

func static[A any](p string) func(A) string { return func(A) string { return p } }

func byID(format string) func(int64) string {
	return func(id int64) string { return fmt.Sprintf(format, id) }
}

func self[A any](a A) any { return a }

func listParams(r models.ListRequest) url.Values {
	v := url.Values{}
	if r.Page > 0 {
		v.Set("page", strconv.Itoa(r.Page))
	}
	if r.Role != "" {
		v.Set("role", string(r.Role))
	}
	if r.Status != "" {
		v.Set("status", r.Status)
	}
	return v
}

func hallParams(f models.HallFilter) url.Values {
	v := url.Values{}
	if f.DistrictID > 0 {
		v.Set("district_id", strconv.FormatInt(f.DistrictID, 10))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v
}

// Auth.

var Login = Mutation[models.LoginRequest, models.AuthResult]{
	Name:   "login",
	Method: http.MethodPost,
	Path:   static[models.LoginRequest]("/login"),
	Body:   self[models.LoginRequest],
	OnSuccess: func(ctx context.Context, c *Client, _ models.LoginRequest, res models.AuthResult) {
		c.session.SetUser(ctx, res.User, res.Token)
	},
}

var Register = Mutation[models.RegisterRequest, models.AuthResult]{
	Name:   "register",
	Method: http.MethodPost,
	Path:   static[models.RegisterRequest]("/register"),
	Body:   self[models.RegisterRequest],
	OnSuccess: func(ctx context.Context, c *Client, _ models.RegisterRequest, res models.AuthResult) {
		c.session.SetUser(ctx, res.User, res.Token)
	},
}

// Logout is best-effort towards the server: the local session is cleared
// whatever the outcome of the call.
var Logout = Mutation[None, Ack]{
	Name:   "logout",
	Method: http.MethodPost,
	Path:   static[None]("/logout"),
	OnSettled: func(ctx context.Context, c *Client, err error) {
		if err != nil {
			c.logger.Warn(ctx, "server logout failed, clearing local session anyway", "error", err)
		}
		c.session.Logout(ctx)
	},
}

// Profile.

var GetProfile = Query[None, models.UserProfile]{
	Name: "getProfile",
	Path: static[None]("/profile"),
	Provides: func(None, models.UserProfile) []querycache.Tag {
		return []querycache.Tag{profileTag}
	},
	OnError: func(ctx context.Context, c *Client, err error) {
		if client.IsUnauthorized(err) {
			c.logger.Info(ctx, "profile rejected the credential, logging out", "error", err)
			c.session.Logout(ctx)
		}
	},
}

var UpdateProfile = Mutation[models.ProfileUpdateRequest, models.UserProfile]{
	Name:   "updateProfile",
	Method: http.MethodPut,
	Path:   static[models.ProfileUpdateRequest]("/profile"),
	Body:   self[models.ProfileUpdateRequest],
	OnSuccess: func(ctx context.Context, c *Client, _ models.ProfileUpdateRequest, res models.UserProfile) {
		c.session.UpdateUser(ctx, models.PatchFrom(res))
	},
	Invalidates: func(_ models.ProfileUpdateRequest, res models.UserProfile) []querycache.Tag {
		return []querycache.Tag{profileTag, id(TagUser, res.ID), list(TagUser)}
	},
}

// Public catalogue.

var GetWeddingHalls = Query[models.HallFilter, models.Page[models.WeddingHall]]{
	Name:   "getWeddingHalls",
	Path:   static[models.HallFilter]("/wedding-halls"),
	Params: hallParams,
	Provides: func(_ models.HallFilter, p models.Page[models.WeddingHall]) []querycache.Tag {
		return listTags(TagWeddingHall, p.Items, hallID)
	},
}

var GetWeddingHall = Query[int64, models.WeddingHall]{
	Name: "getWeddingHall",
	Path: byID("/wedding-halls/%d"),
	Provides: func(hall int64, _ models.WeddingHall) []querycache.Tag {
		return []querycache.Tag{id(TagWeddingHall, hall)}
	},
}

var GetDistricts = Query[None, []models.District]{
	Name: "getDistricts",
	Path: static[None]("/districts"),
	Provides: func(_ None, ds []models.District) []querycache.Tag {
		return listTags(TagDistrict, ds, districtID)
	},
}

// Reservations of the signed-in customer.

var GetMyReservations = Query[models.ListRequest, models.Page[models.Reservation]]{
	Name:   "getMyReservations",
	Path:   static[models.ListRequest]("/reservations"),
	Params: listParams,
	Provides: func(_ models.ListRequest, p models.Page[models.Reservation]) []querycache.Tag {
		return listTags(TagReservation, p.Items, reservationID)
	},
}

var CreateReservation = Mutation[models.ReservationRequest, models.Reservation]{
	Name:   "createReservation",
	Method: http.MethodPost,
	Path:   static[models.ReservationRequest]("/reservations"),
	Body:   self[models.ReservationRequest],
	Invalidates: func(arg models.ReservationRequest, _ models.Reservation) []querycache.Tag {
		return append(reservationLists(), id(TagWeddingHall, arg.WeddingHallID), list(TagDashboard))
	},
}

var CancelReservation = Mutation[int64, models.Reservation]{
	Name:   "cancelReservation",
	Method: http.MethodPatch,
	Path:   byID("/reservations/%d/cancel"),
	Invalidates: func(r int64, _ models.Reservation) []querycache.Tag {
		return append(reservationLists(), id(TagReservation, r), list(TagDashboard))
	},
}

// Owner area.

var GetOwnerDashboard = Query[None, models.OwnerDashboard]{
	Name: "getOwnerDashboard",
	Path: static[None]("/owner/dashboard"),
	Provides: func(None, models.OwnerDashboard) []querycache.Tag {
		return []querycache.Tag{ownerDashboardTag, list(TagDashboard)}
	},
}

var GetOwnerWeddingHalls = Query[models.ListRequest, models.Page[models.WeddingHall]]{
	Name:   "getOwnerWeddingHalls",
	Path:   static[models.ListRequest]("/owner/wedding-halls"),
	Params: listParams,
	Provides: func(_ models.ListRequest, p models.Page[models.WeddingHall]) []querycache.Tag {
		return listTags(TagOwnerWeddingHall, p.Items, hallID)
	},
}

var GetOwnerWeddingHall = Query[int64, models.WeddingHall]{
	Name: "getOwnerWeddingHall",
	Path: byID("/owner/wedding-halls/%d"),
	Provides: func(hall int64, _ models.WeddingHall) []querycache.Tag {
		return []querycache.Tag{id(TagOwnerWeddingHall, hall)}
	},
}

var CreateOwnerWeddingHall = Mutation[models.HallRequest, models.WeddingHall]{
	Name:   "createOwnerWeddingHall",
	Method: http.MethodPost,
	Path:   static[models.HallRequest]("/owner/wedding-halls"),
	Body:   self[models.HallRequest],
	Invalidates: func(models.HallRequest, models.WeddingHall) []querycache.Tag {
		return append(hallLists(), list(TagDashboard))
	},
}

var UpdateOwnerWeddingHall = Mutation[models.HallRequest, models.WeddingHall]{
	Name:   "updateOwnerWeddingHall",
	Method: http.MethodPut,
	Path:   func(r models.HallRequest) string { return fmt.Sprintf("/owner/wedding-halls/%d", r.ID) },
	Body:   self[models.HallRequest],
	Invalidates: func(r models.HallRequest, _ models.WeddingHall) []querycache.Tag {
		return append(hallLists(), id(TagOwnerWeddingHall, r.ID), id(TagWeddingHall, r.ID))
	},
}

var DeleteOwnerWeddingHall = Mutation[int64, Ack]{
	Name:   "deleteOwnerWeddingHall",
	Method: http.MethodDelete,
	Path:   byID("/owner/wedding-halls/%d"),
	Invalidates: func(hall int64, _ Ack) []querycache.Tag {
		return append(hallLists(), id(TagOwnerWeddingHall, hall), id(TagWeddingHall, hall), list(TagDashboard))
	},
}

var GetOwnerReservations = Query[models.ListRequest, models.Page[models.Reservation]]{
	Name:   "getOwnerReservations",
	Path:   static[models.ListRequest]("/owner/reservations"),
	Params: listParams,
	Provides: func(_ models.ListRequest, p models.Page[models.Reservation]) []querycache.Tag {
		return listTags(TagOwnerReservation, p.Items, reservationID)
	},
}

var UpdateOwnerReservationStatus = Mutation[models.ReservationStatusRequest, models.Reservation]{
	Name:   "updateOwnerReservationStatus",
	Method: http.MethodPatch,
	Path: func(r models.ReservationStatusRequest) string {
		return fmt.Sprintf("/owner/reservations/%d/status", r.ID)
	},
	Body: self[models.ReservationStatusRequest],
	Invalidates: func(r models.ReservationStatusRequest, _ models.Reservation) []querycache.Tag {
		return append(reservationLists(), id(TagOwnerReservation, r.ID), list(TagDashboard))
	},
}

// Admin area.

var GetAdminDashboard = Query[None, models.AdminDashboard]{
	Name: "getAdminDashboard",
	Path: static[None]("/admin/dashboard"),
	Provides: func(None, models.AdminDashboard) []querycache.Tag {
		return []querycache.Tag{adminDashboardTag, list(TagDashboard)}
	},
}

var GetAdminUsers = Query[models.ListRequest, models.Page[models.UserProfile]]{
	Name:   "getAdminUsers",
	Path:   static[models.ListRequest]("/admin/users"),
	Params: listParams,
	Provides: func(_ models.ListRequest, p models.Page[models.UserProfile]) []querycache.Tag {
		return listTags(TagUser, p.Items, userID)
	},
}

var GetAdminUser = Query[int64, models.UserProfile]{
	Name: "getAdminUser",
	Path: byID("/admin/users/%d"),
	Provides: func(u int64, _ models.UserProfile) []querycache.Tag {
		return []querycache.Tag{id(TagUser, u)}
	},
}

var UpdateAdminUser = Mutation[models.UserUpdateRequest, models.UserProfile]{
	Name:   "updateAdminUser",
	Method: http.MethodPut,
	Path:   func(r models.UserUpdateRequest) string { return fmt.Sprintf("/admin/users/%d", r.ID) },
	Body:   self[models.UserUpdateRequest],
	Invalidates: func(r models.UserUpdateRequest, _ models.UserProfile) []querycache.Tag {
		return []querycache.Tag{id(TagUser, r.ID), list(TagUser), list(TagOwner)}
	},
}

var DeleteAdminUser = Mutation[int64, Ack]{
	Name:   "deleteAdminUser",
	Method: http.MethodDelete,
	Path:   byID("/admin/users/%d"),
	Invalidates: func(u int64, _ Ack) []querycache.Tag {
		return []querycache.Tag{id(TagUser, u), list(TagUser), list(TagOwner), list(TagDashboard)}
	},
}

var GetAdminOwners = Query[models.ListRequest, models.Page[models.UserProfile]]{
	Name:   "getAdminOwners",
	Path:   static[models.ListRequest]("/admin/owners"),
	Params: listParams,
	Provides: func(_ models.ListRequest, p models.Page[models.UserProfile]) []querycache.Tag {
		return listTags(TagOwner, p.Items, userID)
	},
}

var CreateAdminOwner = Mutation[models.OwnerCreateRequest, models.UserProfile]{
	Name:   "createAdminOwner",
	Method: http.MethodPost,
	Path:   static[models.OwnerCreateRequest]("/admin/owners"),
	Body:   self[models.OwnerCreateRequest],
	Invalidates: func(models.OwnerCreateRequest, models.UserProfile) []querycache.Tag {
		return []querycache.Tag{list(TagOwner), list(TagUser), list(TagDashboard)}
	},
}

var GetAdminWeddingHalls = Query[models.ListRequest, models.Page[models.WeddingHall]]{
	Name:   "getAdminWeddingHalls",
	Path:   static[models.ListRequest]("/admin/wedding-halls"),
	Params: listParams,
	Provides: func(_ models.ListRequest, p models.Page[models.WeddingHall]) []querycache.Tag {
		return listTags(TagAdminWeddingHall, p.Items, hallID)
	},
}

var DeleteAdminWeddingHall = Mutation[int64, Ack]{
	Name:   "deleteAdminWeddingHall",
	Method: http.MethodDelete,
	Path:   byID("/admin/wedding-halls/%d"),
	Invalidates: func(hall int64, _ Ack) []querycache.Tag {
		return append(hallLists(), id(TagWeddingHall, hall), list(TagDashboard))
	},
}

var GetAdminReservations = Query[models.ListRequest, models.Page[models.Reservation]]{
	Name:   "getAdminReservations",
	Path:   static[models.ListRequest]("/admin/reservations"),
	Params: listParams,
	Provides: func(_ models.ListRequest, p models.Page[models.Reservation]) []querycache.Tag {
		return listTags(TagAdminReservation, p.Items, reservationID)
	},
}
