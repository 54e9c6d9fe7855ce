package models

// OwnerDashboard summarises an owner's halls and bookings.
type OwnerDashboard struct {
	TotalHalls           int           `json:"total_halls"`
	TotalReservations    int           `json:"total_reservations"`
	PendingReservations  int           `json:"pending_reservations"`
	UpcomingReservations []Reservation `json:"upcoming_reservations,omitempty"`
}

// AdminDashboard summarises the whole marketplace.
type AdminDashboard struct {
	TotalUsers        int `json:"total_users"`
	TotalOwners       int `json:"total_owners"`
	TotalHalls        int `json:"total_halls"`
	TotalReservations int `json:"total_reservations"`
}
