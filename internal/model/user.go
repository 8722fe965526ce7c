package model

import "time"

// Roles form a closed enumeration. The role claim embedded in access
// tokens must be one of these values; anything else is rejected by the
// role middleware.
const (
	RoleCustomer      = "customer"
	RoleTechnician    = "technician"
	RoleVendor        = "vendor"
	RoleRentalManager = "rental_manager"
	RoleAdmin         = "admin"
)

// User types classify the account for billing and onboarding. They are
// informational and carry no authorization weight.
const (
	UserTypeIndividual        = "individual"
	UserTypeCorporate         = "corporate"
	UserTypeRideHailingDriver = "ride_hailing_driver"
)

// User represents an application user record as stored in the `users`
// table. PasswordHash is the bcrypt digest produced at registration or
// by the change-password operation; the plaintext is never persisted.
// Inactive accounts keep their data but may not authenticate.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FullName     – user's display name.
//  Email        – unique, lower-cased email address.
//  Phone        – contact phone number.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of the Role* constants above.
//  UserType     – one of the UserType* constants above.
//  Location     – optional JSON-encoded location blob ({lat,lng,address}).
//  IsActive     – whether the account may authenticate.
//  IsVerified   – whether identity documents have been verified (informational).
//  LastLogin    – best-effort timestamp of the most recent login (nullable).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	FullName     string     // users.full_name
	Email        string     // users.email
	Phone        string     // users.phone
	PasswordHash string     // users.password_hash
	Role         string     // users.role
	UserType     string     // users.user_type
	Location     *string    // users.location (nullable JSON text)
	IsActive     bool       // users.is_active
	IsVerified   bool       // users.is_verified
	LastLogin    *time.Time // users.last_login (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// ValidRole reports whether s is a member of the closed role enumeration.
func ValidRole(s string) bool {
	switch s {
	case RoleCustomer, RoleTechnician, RoleVendor, RoleRentalManager, RoleAdmin:
		return true
	}
	return false
}
