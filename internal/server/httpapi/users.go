package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/matchmaker/internal/server/services"
)

func (s *Server) respondAuth(w http.ResponseWriter, r *http.Request, status int, res *services.AuthResult, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, authResponse{Token: res.Token, User: newUserView(res.User)})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Users.SignUp(r.Context(), req.Username, req.Email, req.Password)
	s.respondAuth(w, r, http.StatusCreated, res, err)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Users.SignIn(r.Context(), req.Email, req.Password)
	s.respondAuth(w, r, http.StatusOK, res, err)
}

func (s *Server) handleGoogleSignUp(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Users.FederatedSignUp(r.Context(), req.IDToken, req.Username)
	s.respondAuth(w, r, http.StatusCreated, res, err)
}

func (s *Server) handleGoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.svc.Users.FederatedSignIn(r.Context(), req.IDToken)
	s.respondAuth(w, r, http.StatusOK, res, err)
}

func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Users.RequestPasswordReset(r.Context(), req.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "password reset link sent"})
}

func (s *Server) handleResetUpdate(w http.ResponseWriter, r *http.Request) {
	var req resetUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}
