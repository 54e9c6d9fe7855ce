package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/venuebook/internal/client/api"
	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/common"
)

// newReservation books the hall named by the "hall" query parameter.
func (a *App) newReservation(ctx context.Context, q url.Values) error {
	hallID, _ := strconv.ParseInt(q.Get("hall"), 10, 64)
	if hallID <= 0 {
		return usage("reserve <hall id>")
	}

	hall, err := api.RunQuery(ctx, a.api, api.GetWeddingHall, hallID)
	if err != nil {
		return err
	}
	a.setScreen(fmt.Sprintf("/reservations/new?hall=%d", hallID), nil)
	a.printf("Booking %s (capacity %d, %s per seat)\n", hall.Name, hall.Capacity, money(hall.PricePerSeat))

	req := models.ReservationRequest{WeddingHallID: hallID}
	u := a.session.Snapshot().User
	if u != nil {
		req.CustomerName, req.CustomerSurname, req.Phone = u.Name, u.Surname, u.Phone
	}

	if req.ReservationDate, err = getSimpleText(a.reader, "Date (YYYY-MM-DD)", a.out); err != nil {
		return err
	}
	guests, err := getNumber(a.reader, "Guest count", 0, a.out)
	if err != nil {
		return err
	}
	req.GuestCount = int(guests)
	if err := promptDefault(a, "Customer name", &req.CustomerName); err != nil {
		return err
	}
	if err := promptDefault(a, "Customer surname", &req.CustomerSurname); err != nil {
		return err
	}
	if err := promptDefault(a, "Phone", &req.Phone); err != nil {
		return err
	}

	if hall.Capacity > 0 && req.GuestCount > hall.Capacity {
		return fmt.Errorf("%s seats at most %d guests", hall.Name, hall.Capacity)
	}

	res, err := api.RunMutation(ctx, a.api, api.CreateReservation, req)
	if err != nil {
		return err
	}
	a.printf("Reservation #%d created, status %s.\n", res.ID, res.Status)
	return a.Navigate(ctx, "/my-reservations")
}

// promptDefault asks for a value, keeping *dst when the answer is empty.
func promptDefault(a *App, prompt string, dst *string) error {
	v, err := getOptional(a.reader, prompt, *dst, a.out)
	if err != nil {
		return err
	}
	if v != nil {
		*dst = *v
	}
	return nil
}

// saveHall creates a hall (id 0) or edits an existing one.
func (a *App) saveHall(ctx context.Context, id int64) error {
	req := models.HallRequest{ID: id}
	path := "/owner/wedding-halls/new"
	if id > 0 {
		path = fmt.Sprintf("/owner/wedding-halls/edit/%d", id)
		hall, err := api.RunQuery(ctx, a.api, api.GetOwnerWeddingHall, id)
		if err != nil {
			return err
		}
		req = models.HallRequest{
			ID: id, Name: hall.Name, Description: hall.Description, Address: hall.Address, Phone: hall.Phone,
			Capacity: hall.Capacity, PricePerSeat: hall.PricePerSeat, DistrictID: hall.DistrictID,
		}
	}
	a.setScreen(path, nil)

	if districts, err := api.RunQuery(ctx, a.api, api.GetDistricts, api.None{}); err == nil {
		a.outMu.Lock()
		renderDistricts(a.out, districts)
		a.outMu.Unlock()
	}

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Name", &req.Name},
		{"Address", &req.Address},
		{"Phone", &req.Phone},
	} {
		if err := promptDefault(a, f.prompt, f.dst); err != nil {
			return err
		}
	}
	if id == 0 {
		desc, err := GetMultiline(a.reader, "Description", a.out)
		if err != nil {
			return err
		}
		req.Description = desc
	}

	capacity, err := getNumber(a.reader, "Capacity", float64(req.Capacity), a.out)
	if err != nil {
		return err
	}
	price, err := getNumber(a.reader, "Price per seat", req.PricePerSeat, a.out)
	if err != nil {
		return err
	}
	district, err := getNumber(a.reader, "District id", float64(req.DistrictID), a.out)
	if err != nil {
		return err
	}
	req.Capacity, req.PricePerSeat, req.DistrictID = int(capacity), price, int64(district)

	m := api.CreateOwnerWeddingHall
	if id > 0 {
		m = api.UpdateOwnerWeddingHall
	}
	hall, err := api.RunMutation(ctx, a.api, m, req)
	if err != nil {
		return err
	}
	a.printf("Hall #%d saved.\n", hall.ID)
	return a.Navigate(ctx, "/owner/wedding-halls")
}

// editProfile updates the signed-in user's own profile.
func (a *App) editProfile(ctx context.Context) error {
	u, err := api.RunQuery(ctx, a.api, api.GetProfile, api.None{})
	if err != nil {
		return err
	}

	var req models.ProfileUpdateRequest
	for _, f := range []struct {
		prompt  string
		current string
		dst     **string
	}{
		{"Name", u.Name, &req.Name},
		{"Surname", u.Surname, &req.Surname},
		{"Username", u.Username, &req.Username},
		{"Email", u.Email, &req.Email},
		{"Phone", u.Phone, &req.Phone},
	} {
		if *f.dst, err = getOptional(a.reader, f.prompt, f.current, a.out); err != nil {
			return err
		}
	}
	if req == (models.ProfileUpdateRequest{}) {
		a.printf("Nothing changed.\n")
		return nil
	}

	if _, err := api.RunMutation(ctx, a.api, api.UpdateProfile, req); err != nil {
		return err
	}
	a.printf("Profile updated.\n")
	return nil
}

// editUser lets an admin change another user's profile or role.
func (a *App) editUser(ctx context.Context, id int64) error {
	u, err := api.RunQuery(ctx, a.api, api.GetAdminUser, id)
	if err != nil {
		return err
	}
	a.setScreen(fmt.Sprintf("/admin/users/edit/%d", id), nil)

	req := models.UserUpdateRequest{ID: id}
	for _, f := range []struct {
		prompt  string
		current string
		dst     **string
	}{
		{"Name", u.Name, &req.Name},
		{"Surname", u.Surname, &req.Surname},
		{"Username", u.Username, &req.Username},
		{"Email", u.Email, &req.Email},
		{"Phone", u.Phone, &req.Phone},
	} {
		if *f.dst, err = getOptional(a.reader, f.prompt, f.current, a.out); err != nil {
			return err
		}
	}
	role, err := getOptional(a.reader, "Role (user, owner, admin)", string(u.Role), a.out)
	if err != nil {
		return err
	}
	if role != nil {
		r := models.Role(*role)
		req.Role = &r
	}

	if _, err := api.RunMutation(ctx, a.api, api.UpdateAdminUser, req); err != nil {
		return err
	}
	a.printf("User #%d updated.\n", id)
	return a.Navigate(ctx, "/admin/users")
}

// createOwner registers a new hall owner account.
func (a *App) createOwner(ctx context.Context) error {
	var req models.OwnerCreateRequest
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Name", &req.Name},
		{"Surname", &req.Surname},
		{"Username", &req.Username},
		{"Email", &req.Email},
		{"Phone (optional)", &req.Phone},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword("Initial password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	owner, err := api.RunMutation(ctx, a.api, api.CreateAdminOwner, req)
	if err != nil {
		return err
	}
	a.printf("Owner #%d (%s) created.\n", owner.ID, owner.Username)
	return a.Navigate(ctx, "/admin/owners")
}
