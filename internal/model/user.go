package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents an account in the authentication system. Verification codes
// and password reset tokens live on the user document itself; each pair of
// code/expiry fields is either fully present or fully absent.
type User struct {
	ID                        bson.ObjectID `bson:"_id,omitempty"`
	Email                     string        `bson:"email"`
	Name                      string        `bson:"name"`
	PasswordHash              string        `bson:"password_hash"`
	Verified                  bool          `bson:"verified"`
	VerificationCode          string        `bson:"verification_code,omitempty"`
	VerificationCodeExpiresAt *time.Time    `bson:"verification_code_expires_at,omitempty"`
	ResetPasswordToken        string        `bson:"reset_password_token,omitempty"`
	ResetPasswordExpiresAt    *time.Time    `bson:"reset_password_expires_at,omitempty"`
	LastLoginAt               *time.Time    `bson:"last_login_at,omitempty"`
	CreatedAt                 time.Time     `bson:"created_at"`
	UpdatedAt                 time.Time     `bson:"updated_at"`
}
