package models

// ReservationStatus is the lifecycle status of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationRejected  ReservationStatus = "rejected"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Reservation is a booking of a hall for one date.
type Reservation struct {
	ID              int64             `json:"id"`
	WeddingHallID   int64             `json:"wedding_hall_id"`
	WeddingHall     *WeddingHall      `json:"wedding_hall,omitempty"`
	UserID          int64             `json:"user_id,omitempty"`
	User            *UserProfile      `json:"user,omitempty"`
	ReservationDate string            `json:"reservation_date"`
	GuestCount      int               `json:"guest_count"`
	CustomerName    string            `json:"customer_name,omitempty"`
	CustomerSurname string            `json:"customer_surname,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	TotalPrice      float64           `json:"total_price"`
	Status          ReservationStatus `json:"status"`
}

// HallName returns the embedded hall name, if any.
func (r Reservation) HallName() string {
	if r.WeddingHall == nil {
		return ""
	}
	return r.WeddingHall.Name
}

// Cancellable reports whether the reservation may still be cancelled.
func (r Reservation) Cancellable() bool {
	return r.Status == ReservationPending || r.Status == ReservationConfirmed
}
