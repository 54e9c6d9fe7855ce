package models

// Request payloads. The validate tags are the client-side preconditions
// checked before any request is issued.

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Surname              string `json:"surname" validate:"required,max=255"`
	Username             string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type ProfileUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Surname  *string `json:"surname,omitempty" validate:"omitempty,min=1,max=255"`
	Username *string `json:"username,omitempty" validate:"omitempty,alphanum,min=3,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// Patch converts the request into the equivalent profile patch.
func (r ProfileUpdateRequest) Patch() ProfilePatch {
	return ProfilePatch{Name: r.Name, Surname: r.Surname, Username: r.Username, Email: r.Email, Phone: r.Phone}
}

type HallFilter struct {
	DistrictID int64  `json:"district_id,omitempty" validate:"gte=0"`
	Search     string `json:"search,omitempty"`
	Page       int    `json:"page,omitempty" validate:"gte=0"`
}

type ReservationRequest struct {
	WeddingHallID   int64  `json:"wedding_hall_id" validate:"required,gt=0"`
	ReservationDate string `json:"reservation_date" validate:"required,datetime=2006-01-02"`
	GuestCount      int    `json:"guest_count" validate:"required,gt=0"`
	CustomerName    string `json:"customer_name" validate:"required"`
	CustomerSurname string `json:"customer_surname" validate:"required"`
	Phone           string `json:"phone" validate:"required,e164"`
}

type HallRequest struct {
	ID           int64   `json:"-"`
	Name         string  `json:"name" validate:"required,max=255"`
	Description  string  `json:"description,omitempty"`
	Address      string  `json:"address" validate:"required"`
	Phone        string  `json:"phone" validate:"required,e164"`
	Capacity     int     `json:"capacity" validate:"required,gt=0"`
	PricePerSeat float64 `json:"price_per_seat" validate:"required,gt=0"`
	DistrictID   int64   `json:"district_id" validate:"required,gt=0"`
}

type ReservationStatusRequest struct {
	ID     int64             `json:"-" validate:"required,gt=0"`
	Status ReservationStatus `json:"status" validate:"required,oneof=confirmed rejected"`
}

type ListRequest struct {
	Page   int    `json:"page,omitempty" validate:"gte=0"`
	Role   Role   `json:"role,omitempty" validate:"omitempty,oneof=user owner admin"`
	Status string `json:"status,omitempty"`
}

type UserUpdateRequest struct {
	ID       int64   `json:"-" validate:"required,gt=0"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Surname  *string `json:"surname,omitempty" validate:"omitempty,min=1"`
	Username *string `json:"username,omitempty" validate:"omitempty,alphanum,min=3"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=user owner admin"`
}

type OwnerCreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Username string `json:"username" validate:"required,alphanum,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password string `json:"password" validate:"required,min=8"`
}
