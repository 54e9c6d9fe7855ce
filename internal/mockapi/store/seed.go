package store

import "github.com/dmitrijs2005/venuebook/internal/client/models"

// SeedPassword is the password of every seeded account.
const SeedPassword = "password"

// Seeded account emails.
const (
	AdminEmail = "admin@venuebook.test"
	OwnerEmail = "owner@venuebook.test"
	UserEmail  = "user@venuebook.test"
)

// Seeded holds the ids of the seeded records.
type Seeded struct {
	Admin, Owner, User models.UserProfile
	Districts          []models.District
	Halls              []models.WeddingHall
}

// Seed fills s with one account per role, three districts and three halls
// of the seeded owner.
func Seed(s *Store) (Seeded, error) {
	var out Seeded

	accounts := []struct {
		dst *models.UserProfile
		p   models.UserProfile
	}{
		{&out.Admin, models.UserProfile{Name: "Ada", Surname: "Admin", Username: "admin", Email: AdminEmail, Role: models.RoleAdmin}},
		{&out.Owner, models.UserProfile{Name: "Oscar", Surname: "Owner", Username: "owner", Email: OwnerEmail, Phone: "+37120000001", Role: models.RoleOwner}},
		{&out.User, models.UserProfile{Name: "Ursula", Surname: "User", Username: "user", Email: UserEmail, Phone: "+37120000002", Role: models.RoleUser}},
	}
	for _, a := range accounts {
		p, err := s.CreateUser(a.p, SeedPassword)
		if err != nil {
			return Seeded{}, err
		}
		*a.dst = p
	}

	for _, d := range []models.District{
		{Name: "Center", Description: "Old town and the boulevards"},
		{Name: "Riverside", Description: "Along the embankment"},
		{Name: "Suburbs", Description: "Country estates outside the ring road"},
	} {
		out.Districts = append(out.Districts, s.AddDistrict(d))
	}

	for i, h := range []models.HallRequest{
		{Name: "Rose Palace", Description: "Mirrored ballroom", Address: "1 Main Square", Phone: "+37160000001", Capacity: 200, PricePerSeat: 45},
		{Name: "Lily Garden", Description: "Open-air terrace", Address: "12 River Road", Phone: "+37160000002", Capacity: 120, PricePerSeat: 38.5},
		{Name: "Oak Manor", Description: "Country house with a park", Address: "3 Forest Lane", Phone: "+37160000003", Capacity: 80, PricePerSeat: 52},
	} {
		h.DistrictID = out.Districts[i].ID
		hall, err := s.CreateHall(out.Owner.ID, h)
		if err != nil {
			return Seeded{}, err
		}
		out.Halls = append(out.Halls, hall)
	}

	return out, nil
}
