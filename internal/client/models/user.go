package models

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// UserProfile is the authenticated user as returned by the API and as
// persisted in the credential snapshot.
type UserProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	Surname  string `json:"surname,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// Clone returns a copy of u, or nil for a nil receiver.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// FullName joins name and surname, falling back to the username.
func (u *UserProfile) FullName() string {
	switch {
	case u.Name != "" && u.Surname != "":
		return u.Name + " " + u.Surname
	case u.Name != "":
		return u.Name
	default:
		return u.Username
	}
}

// ProfilePatch is a partial profile. Nil fields are left untouched when the
// patch is applied.
type ProfilePatch struct {
	Name     *string `json:"name,omitempty"`
	Surname  *string `json:"surname,omitempty"`
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}

// Apply shallow-merges the patch into a copy of u and returns it.
func (p ProfilePatch) Apply(u UserProfile) UserProfile {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Surname != nil {
		u.Surname = *p.Surname
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}

// PatchFrom builds a patch carrying every non-empty field of u. It is used to
// merge a server-returned profile into the session without wiping fields the
// response omitted.
func PatchFrom(u UserProfile) ProfilePatch {
	var p ProfilePatch
	set := func(dst **string, v string) {
		if v != "" {
			v := v
			*dst = &v
		}
	}
	set(&p.Name, u.Name)
	set(&p.Surname, u.Surname)
	set(&p.Username, u.Username)
	set(&p.Email, u.Email)
	set(&p.Phone, u.Phone)
	if u.Role != "" {
		r := u.Role
		p.Role = &r
	}
	return p
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}
