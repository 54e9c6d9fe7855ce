package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/dmitrijs2005/venuebook/internal/client/api"
	"github.com/dmitrijs2005/venuebook/internal/client/models"
)

// watchScreen subscribes the current screen to q and renders every result.
// It returns after the first render; later results (caused by invalidation)
// are re-rendered in the background until the user navigates away.
func watchScreen[A, T any](ctx context.Context, a *App, path string, q api.Query[A, T], arg A, render func(w io.Writer, v T)) error {
	ready := make(chan error, 1)
	var (
		once    sync.Once
		renders int
	)

	sub := api.Watch(a.api, q, arg, func(v T, err error) {
		a.outMu.Lock()
		defer a.outMu.Unlock()

		renders++
		first := renders == 1
		if err != nil {
			if first {
				once.Do(func() { ready <- err })
				return
			}
			fmt.Fprintf(a.out, "\n%s: %s\n", path, formatError(err))
			return
		}
		if !first {
			fmt.Fprintf(a.out, "\n-- %s refreshed --\n", path)
		}
		render(a.out, v)
		once.Do(func() { ready <- nil })
	})
	a.setScreen(path, sub)

	select {
	case err := <-ready:
		if err != nil {
			a.closeScreen()
		}
		return err
	case <-sub.Done():
		// A delivery may have raced the detach.
		select {
		case err := <-ready:
			return err
		default:
		}
		return errDetached
	case <-ctx.Done():
		return ctx.Err()
	}
}

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	_ = tw.Flush()
}

func pageFooter[T any](w io.Writer, p models.Page[T]) {
	if p.LastPage <= 1 && !p.HasNext() {
		return
	}
	fmt.Fprintf(w, "page %d of %d (%d total)", p.CurrentPage, p.LastPage, p.Total)
	if p.HasNext() {
		fmt.Fprintf(w, ", next: page=%d", p.CurrentPage+1)
	}
	fmt.Fprintln(w)
}

func intParam(q url.Values, key string) int {
	n, _ := strconv.Atoi(q.Get(key))
	return n
}

func listRequest(q url.Values) models.ListRequest {
	return models.ListRequest{Page: intParam(q, "page"), Role: models.Role(q.Get("role")), Status: q.Get("status")}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func renderProfile(w io.Writer, u models.UserProfile) {
	fmt.Fprintf(w, "Name:     %s\n", u.FullName())
	fmt.Fprintf(w, "Username: %s\n", u.Username)
	fmt.Fprintf(w, "Email:    %s\n", u.Email)
	if u.Phone != "" {
		fmt.Fprintf(w, "Phone:    %s\n", u.Phone)
	}
	fmt.Fprintf(w, "Role:     %s\n", u.Role)
}

func renderHalls(w io.Writer, p models.Page[models.WeddingHall]) {
	if len(p.Items) == 0 {
		fmt.Fprintln(w, "No wedding halls found.")
		return
	}
	table(w, "ID\tNAME\tDISTRICT\tCAPACITY\tPRICE/SEAT\tSTATUS", func(tw *tabwriter.Writer) {
		for _, h := range p.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", h.ID, h.Name, h.DistrictName(), h.Capacity, money(h.PricePerSeat), h.Status)
		}
	})
	pageFooter(w, p)
}

func renderHall(w io.Writer, h models.WeddingHall) {
	fmt.Fprintf(w, "%s (#%d)\n", h.Name, h.ID)
	if h.Description != "" {
		fmt.Fprintf(w, "%s\n", h.Description)
	}
	fmt.Fprintf(w, "Address:    %s\n", h.Address)
	if d := h.DistrictName(); d != "" {
		fmt.Fprintf(w, "District:   %s\n", d)
	}
	fmt.Fprintf(w, "Phone:      %s\n", h.Phone)
	fmt.Fprintf(w, "Capacity:   %d\n", h.Capacity)
	fmt.Fprintf(w, "Price/seat: %s\n", money(h.PricePerSeat))
	if len(h.BookedDates) > 0 {
		fmt.Fprintf(w, "Booked:     %s\n", strings.Join(h.BookedDates, ", "))
	}
	for _, img := range h.Images {
		fmt.Fprintf(w, "Image:      %s\n", img.URL)
	}
}

func renderDistricts(w io.Writer, ds []models.District) {
	if len(ds) == 0 {
		fmt.Fprintln(w, "No districts.")
		return
	}
	table(w, "ID\tNAME", func(tw *tabwriter.Writer) {
		for _, d := range ds {
			fmt.Fprintf(tw, "%d\t%s\n", d.ID, d.Name)
		}
	})
}

func renderReservations(w io.Writer, p models.Page[models.Reservation]) {
	if len(p.Items) == 0 {
		fmt.Fprintln(w, "No reservations.")
		return
	}
	table(w, "ID\tHALL\tDATE\tGUESTS\tCUSTOMER\tTOTAL\tSTATUS", func(tw *tabwriter.Writer) {
		for _, r := range p.Items {
			hall := r.HallName()
			if hall == "" {
				hall = "#" + strconv.FormatInt(r.WeddingHallID, 10)
			}
			customer := strings.TrimSpace(r.CustomerName + " " + r.CustomerSurname)
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n", r.ID, hall, r.ReservationDate, r.GuestCount, customer, money(r.TotalPrice), r.Status)
		}
	})
	pageFooter(w, p)
}

func renderUsers(w io.Writer, p models.Page[models.UserProfile]) {
	if len(p.Items) == 0 {
		fmt.Fprintln(w, "No users.")
		return
	}
	table(w, "ID\tUSERNAME\tNAME\tEMAIL\tROLE", func(tw *tabwriter.Writer) {
		for _, u := range p.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.FullName(), u.Email, u.Role)
		}
	})
	pageFooter(w, p)
}

func renderOwnerDashboard(w io.Writer, d models.OwnerDashboard) {
	fmt.Fprintf(w, "Halls:                %d\n", d.TotalHalls)
	fmt.Fprintf(w, "Reservations:         %d\n", d.TotalReservations)
	fmt.Fprintf(w, "Pending reservations: %d\n", d.PendingReservations)
	if len(d.UpcomingReservations) > 0 {
		fmt.Fprintln(w, "Upcoming:")
		renderReservations(w, models.Page[models.Reservation]{Items: d.UpcomingReservations})
	}
}

func renderAdminDashboard(w io.Writer, d models.AdminDashboard) {
	fmt.Fprintf(w, "Users:        %d\n", d.TotalUsers)
	fmt.Fprintf(w, "Owners:       %d\n", d.TotalOwners)
	fmt.Fprintf(w, "Halls:        %d\n", d.TotalHalls)
	fmt.Fprintf(w, "Reservations: %d\n", d.TotalReservations)
}

func (a *App) showProfile(ctx context.Context, path string) error {
	return watchScreen(ctx, a, path, api.GetProfile, api.None{}, renderProfile)
}

func (a *App) showHalls(ctx context.Context, path string, q url.Values) error {
	f := models.HallFilter{Search: q.Get("search"), Page: intParam(q, "page")}
	f.DistrictID, _ = strconv.ParseInt(q.Get("district_id"), 10, 64)
	return watchScreen(ctx, a, path, api.GetWeddingHalls, f, renderHalls)
}

func (a *App) showHall(ctx context.Context, path string, id int64) error {
	return watchScreen(ctx, a, path, api.GetWeddingHall, id, renderHall)
}

func (a *App) showDistricts(ctx context.Context, path string) error {
	return watchScreen(ctx, a, path, api.GetDistricts, api.None{}, renderDistricts)
}

func (a *App) showMyReservations(ctx context.Context, path string, q url.Values) error {
	return watchScreen(ctx, a, path, api.GetMyReservations, listRequest(q), renderReservations)
}

func (a *App) showOwnerDashboard(ctx context.Context, path string) error {
	return watchScreen(ctx, a, path, api.GetOwnerDashboard, api.None{}, renderOwnerDashboard)
}

func (a *App) showOwnerHalls(ctx context.Context, path string, q url.Values) error {
	return watchScreen(ctx, a, path, api.GetOwnerWeddingHalls, listRequest(q), renderHalls)
}

func (a *App) showOwnerReservations(ctx context.Context, path string, q url.Values) error {
	return watchScreen(ctx, a, path, api.GetOwnerReservations, listRequest(q), renderReservations)
}

func (a *App) showAdminDashboard(ctx context.Context, path string) error {
	return watchScreen(ctx, a, path, api.GetAdminDashboard, api.None{}, renderAdminDashboard)
}

func (a *App) showAdminUsers(ctx context.Context, path string, q url.Values) error {
	return watchScreen(ctx, a, path, api.GetAdminUsers, listRequest(q), renderUsers)
}

func (a *App) showAdminOwners(ctx context.Context, path string, q url.Values) error {
	return watchScreen(ctx, a, path, api.GetAdminOwners, listRequest(q), renderUsers)
}

func (a *App) showAdminHalls(ctx context.Context, path string, q url.Values) error {
	return watchScreen(ctx, a, path, api.GetAdminWeddingHalls, listRequest(q), renderHalls)
}

func (a *App) showAdminReservations(ctx context.Context, path string, q url.Values) error {
	return watchScreen(ctx, a, path, api.GetAdminReservations, listRequest(q), renderReservations)
}
