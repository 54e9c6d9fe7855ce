package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilePatch_ApplyKeepsUntouchedFields(t *testing.T) {
	u := UserProfile{ID: 7, Name: "Ana", Surname: "Lee", Username: "ana", Email: "old@x.com", Phone: "+100", Role: RoleUser}
	email := "new@x.com"

	got := ProfilePatch{Email: &email}.Apply(u)

	want := u
	want.Email = "new@x.com"
	assert.Equal(t, want, got)
	assert.Equal(t, "old@x.com", u.Email, "receiver must not be mutated")
}

func TestPatchFrom_SkipsEmptyFields(t *testing.T) {
	p := PatchFrom(UserProfile{ID: 1, Email: "e@x.com"})
	require.NotNil(t, p.Email)
	assert.Equal(t, "e@x.com", *p.Email)
	assert.Nil(t, p.Name)
	assert.Nil(t, p.Role)
}

func TestUserProfile_CloneIsIndependent(t *testing.T) {
	var nilUser *UserProfile
	assert.Nil(t, nilUser.Clone())

	u := &UserProfile{ID: 1, Name: "A"}
	c := u.Clone()
	c.Name = "B"
	assert.Equal(t, "A", u.Name)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
}

func TestPage_UnmarshalPaginatedObject(t *testing.T) {
	body := `{"data":[{"id":1,"name":"Rose"},{"id":2,"name":"Lily"}],"current_page":1,"last_page":2,
		"per_page":2,"total":3,"prev_page_url":null,"next_page_url":"http://api/wedding-halls?page=2"}`

	var p Page[WeddingHall]
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	assert.Len(t, p.Items, 2)
	assert.Equal(t, "Lily", p.Items[1].Name)
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrev())
	assert.Equal(t, 3, p.Total)
}

func TestPage_UnmarshalBareArray(t *testing.T) {
	var p Page[District]
	require.NoError(t, json.Unmarshal([]byte(` [{"id":1,"name":"Center"}]`), &p))

	assert.Len(t, p.Items, 1)
	assert.Equal(t, 1, p.LastPage)
	assert.False(t, p.HasNext())
}

func TestReservation_Cancellable(t *testing.T) {
	assert.True(t, Reservation{Status: ReservationPending}.Cancellable())
	assert.False(t, Reservation{Status: ReservationCancelled}.Cancellable())
}
