// Package models holds the typed records persisted by the server. Struct tags
// name the stored attributes; the same names are used for DynamoDB
// (dynamodbav) and for the JSON documents of the other backends.
package models

import "time"

// User is an end-user account. Exactly one of PasswordHash and GoogleID is
// normally set, depending on how the account was created.
type User struct {
	UserID           string    `dynamodbav:"userId" json:"userId"`
	Username         string    `dynamodbav:"username" json:"username"`
	Email            string    `dynamodbav:"email" json:"email"`
	PasswordHash     string    `dynamodbav:"password,omitempty" json:"password,omitempty"`
	GoogleID         string    `dynamodbav:"googleId,omitempty" json:"googleId,omitempty"`
	ResetToken       string    `dynamodbav:"resetToken,omitempty" json:"resetToken,omitempty"`
	ResetTokenExpiry int64     `dynamodbav:"resetTokenExpiry,omitempty" json:"resetTokenExpiry,omitempty"`
	CreatedAt        time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// Admin is an administrator account.
type Admin struct {
	AdminID      string    `dynamodbav:"adminId" json:"adminId"`
	Username     string    `dynamodbav:"username" json:"username"`
	PasswordHash string    `dynamodbav:"password" json:"password"`
	CreatedAt    time.Time `dynamodbav:"createdAt" json:"createdAt"`
}
