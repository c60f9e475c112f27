package httpapi

import (
	"time"

	"github.com/dmitrijs2005/matchmaker/internal/server/models"
)

// Stored records carry password hashes and reset tokens, so accounts are
// copied into these views before they leave the server.

type userView struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	GoogleLinked bool      `json:"googleLinked"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newUserView(u *models.User) userView {
	return userView{
		UserID:       u.UserID,
		Username:     u.Username,
		Email:        u.Email,
		GoogleLinked: u.GoogleID != "",
		CreatedAt:    u.CreatedAt,
	}
}

type adminView struct {
	AdminID   string    `json:"adminId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleRequest struct {
	IDToken  string `json:"idToken"`
	Username string `json:"username"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetUpdateRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type adminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type approveRequest struct {
	Approved *bool `json:"approved"`
}

// applicationRequest is the body of create and amend. Photo is base64; with
// PhotoUploadURL set and no photo a presigned upload URL is returned instead.
type applicationRequest struct {
	models.Application
	Photo          string `json:"photo"`
	PhotoUploadURL bool   `json:"photoUploadUrl"`
}
