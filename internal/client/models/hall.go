package models

// District is an administrative area halls can be filtered by.
type District struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// HallImage is a picture attached to a wedding hall.
type HallImage struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// HallStatus is the moderation status of a hall.
type HallStatus string

const (
	HallPending  HallStatus = "pending"
	HallApproved HallStatus = "approved"
	HallRejected HallStatus = "rejected"
)

// WeddingHall is a bookable venue.
type WeddingHall struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Address      string       `json:"address,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Capacity     int          `json:"capacity"`
	PricePerSeat float64      `json:"price_per_seat"`
	DistrictID   int64        `json:"district_id"`
	District     *District    `json:"district,omitempty"`
	OwnerID      int64        `json:"owner_id,omitempty"`
	Owner        *UserProfile `json:"owner,omitempty"`
	Status       HallStatus   `json:"status,omitempty"`
	Images       []HallImage  `json:"images,omitempty"`
	BookedDates  []string     `json:"booked_dates,omitempty"`
}

// DistrictName returns the embedded district name, if any.
func (h WeddingHall) DistrictName() string {
	if h.District == nil {
		return ""
	}
	return h.District.Name
}
