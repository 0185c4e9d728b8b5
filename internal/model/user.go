package model

// Role names stored in users.user_role.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. Handlers never serialize this type directly because it
// carries the password hash.
//
// Fields:
//
//	ID           – primary key identifier.
//	FirstName    – given name shown on reservation listings.
//	LastName     – family name shown on reservation listings.
//	Phone        – contact number used for SMS notifications.
//	Email        – unique email address used to log in.
//	PasswordHash – bcrypt hashed password.
//	Role         – customer or admin.
type User struct {
	ID           uint64 // users.id
	FirstName    string // users.first_name
	LastName     string // users.last_name
	Phone        string // users.phone
	Email        string // users.email
	PasswordHash string // users.pass_hash
	Role         string // users.user_role
}

// IsAdmin reports whether the user may perform administrative operations.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
