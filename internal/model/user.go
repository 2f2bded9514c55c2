package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Auth types distinguish how an account was created. Accounts created
// through a federated provider are pre-verified and never log in with a
// local password.
const (
	AuthTypeLocal  = "local"
	AuthTypeGoogle = "google"
)

// Roles assignable to an account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a customer account. The verification and reset OTP pairs
// live directly on the document; an absent code means no exchange is
// outstanding. Expiry is checked at use, never assumed cleared.
type User struct {
	ID              bson.ObjectID `bson:"_id,omitempty"      json:"_id"`
	FirstName       string        `bson:"first_name"         json:"firstName"`
	LastName        string        `bson:"last_name"          json:"lastName"`
	DOB             *time.Time    `bson:"dob,omitempty"      json:"dob,omitempty"`
	Gender          string        `bson:"gender,omitempty"   json:"gender,omitempty"`
	Experience      string        `bson:"experience,omitempty" json:"experience,omitempty"`
	ProfileImage    string        `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	Email           string        `bson:"email"              json:"email"`
	PasswordHash    string        `bson:"password_hash"      json:"-"`
	Verified        bool          `bson:"verified"           json:"isVerified"`
	OTP             string        `bson:"otp,omitempty"      json:"-"`
	OTPExpiresAt    time.Time     `bson:"otp_expires_at,omitempty" json:"-"`
	ResetOTP        string        `bson:"reset_otp,omitempty" json:"-"`
	ResetOTPExpires time.Time     `bson:"reset_otp_expires_at,omitempty" json:"-"`
	Role            string        `bson:"role"               json:"role"`
	AuthType        string        `bson:"auth_type"          json:"authType"`
	CreatedAt       time.Time     `bson:"created_at"         json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updated_at"         json:"updatedAt"`
}
