package api

import (
	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/client/querycache"
)

// Tag types.
const (
	TagProfile          = "Profile"
	TagUser             = "User"
	TagOwner            = "Owner"
	TagWeddingHall      = "WeddingHall"
	TagOwnerWeddingHall = "OwnerWeddingHall"
	TagAdminWeddingHall = "AdminWeddingHall"
	TagDistrict         = "District"
	TagReservation      = "Reservation"
	TagOwnerReservation = "OwnerReservation"
	TagAdminReservation = "AdminReservation"
	TagDashboard        = "Dashboard"
)

var (
	profileTag = querycache.IDTag(TagProfile, "ME")

	ownerDashboardTag = querycache.IDTag(TagDashboard, "OWNER")
	adminDashboardTag = querycache.IDTag(TagDashboard, "ADMIN")
)

func list(typ string) querycache.Tag { return querycache.ListTag(typ) }

func id(typ string, v int64) querycache.Tag { return querycache.IDTag(typ, v) }

// listTags tags every item of a list with its id plus the LIST tag.
func listTags[T any](typ string, items []T, idOf func(T) int64) []querycache.Tag {
	tags := make([]querycache.Tag, 0, len(items)+1)
	for _, it := range items {
		tags = append(tags, id(typ, idOf(it)))
	}
	return append(tags, list(typ))
}

func hallID(h models.WeddingHall) int64        { return h.ID }
func reservationID(r models.Reservation) int64 { return r.ID }
func userID(u models.UserProfile) int64        { return u.ID }
func districtID(d models.District) int64       { return d.ID }

// hallLists are the three list views every hall write touches.
func hallLists() []querycache.Tag {
	return []querycache.Tag{list(TagOwnerWeddingHall), list(TagWeddingHall), list(TagAdminWeddingHall)}
}

// reservationLists are the three list views every reservation write touches.
func reservationLists() []querycache.Tag {
	return []querycache.Tag{list(TagReservation), list(TagOwnerReservation), list(TagAdminReservation)}
}
