package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/venuebook/internal/client/api"
	"github.com/dmitrijs2005/venuebook/internal/client/models"
)

// actionGates maps every action onto the route whose guard protects it.
var actionGates = map[string]string{
	actProfileEdit:      "/profile",
	actCancel:           "/my-reservations",
	actOwnerHallDelete:  "/owner/wedding-halls",
	actOwnerConfirm:     "/owner/reservations",
	actOwnerReject:      "/owner/reservations",
	actAdminUserDelete:  "/admin/users",
	actAdminOwnerCreate: "/admin/owners",
	actAdminHallDelete:  "/admin/wedding-halls",
}

// Act runs a write action after the guard of its route allows it. Screens
// that display affected data refresh through cache invalidation.
func (a *App) Act(ctx context.Context, action string, id int64) error {
	gate, ok := actionGates[action]
	if !ok {
		return fmt.Errorf("unknown action %q", action)
	}
	allowed, err := a.authorize(ctx, gate)
	if err != nil || !allowed {
		return err
	}

	switch action {
	case actProfileEdit:
		return a.editProfile(ctx)

	case actCancel:
		if !confirm(a.reader, fmt.Sprintf("Cancel reservation #%d?", id), a.out) {
			return nil
		}
		r, err := api.RunMutation(ctx, a.api, api.CancelReservation, id)
		if err != nil {
			return err
		}
		a.printf("Reservation #%d is now %s.\n", r.ID, r.Status)

	case actOwnerHallDelete:
		if !confirm(a.reader, fmt.Sprintf("Delete hall #%d?", id), a.out) {
			return nil
		}
		if _, err := api.RunMutation(ctx, a.api, api.DeleteOwnerWeddingHall, id); err != nil {
			return err
		}
		a.printf("Hall #%d deleted.\n", id)

	case actOwnerConfirm, actOwnerReject:
		status := models.ReservationConfirmed
		if action == actOwnerReject {
			status = models.ReservationRejected
		}
		r, err := api.RunMutation(ctx, a.api, api.UpdateOwnerReservationStatus, models.ReservationStatusRequest{ID: id, Status: status})
		if err != nil {
			return err
		}
		a.printf("Reservation #%d is now %s.\n", r.ID, r.Status)

	case actAdminUserDelete:
		if !confirm(a.reader, fmt.Sprintf("Delete user #%d?", id), a.out) {
			return nil
		}
		if _, err := api.RunMutation(ctx, a.api, api.DeleteAdminUser, id); err != nil {
			return err
		}
		a.printf("User #%d deleted.\n", id)

	case actAdminOwnerCreate:
		return a.createOwner(ctx)

	case actAdminHallDelete:
		if !confirm(a.reader, fmt.Sprintf("Delete hall #%d?", id), a.out) {
			return nil
		}
		if _, err := api.RunMutation(ctx, a.api, api.DeleteAdminWeddingHall, id); err != nil {
			return err
		}
		a.printf("Hall #%d deleted.\n", id)
	}
	return nil
}
