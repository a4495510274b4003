package user

// Role determines which clinic operations an identity may perform.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// User represents a user entity in the system.
type User struct {
	ID           int64  // ID is the unique identifier for the user
	Name         string // Name is the full name of the user
	Email        string // Email is the unique email address of the user
	PasswordHash string // PasswordHash is the hex digest of the user's password
	Role         Role   // Role is either patient or doctor
}

// Identity returns the lightweight record kept in the session registry.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// Identity is the role-tagged user record resolved from a session token.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsPatient reports whether the identity belongs to a patient.
func (i *Identity) IsPatient() bool {
	return i != nil && i.Role == RolePatient
}

// IsDoctor reports whether the identity belongs to a doctor.
func (i *Identity) IsDoctor() bool {
	return i != nil && i.Role == RoleDoctor
}
