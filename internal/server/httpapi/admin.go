package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	admin, err := s.svc.Admins.CreateAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, adminView{AdminID: admin.AdminID, Username: admin.Username, CreatedAt: admin.CreatedAt})
}

func (s *Server) handleLoginAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.svc.Admins.LoginAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleAdminGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.Admins.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

func (s *Server) handleGetAllApplications(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Applications.GetAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Applications.GetSingle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Approved == nil {
		s.writeError(w, r, common.ErrorValidation)
		return
	}
	app, err := s.svc.Applications.Approve(r.Context(), chi.URLParam(r, "id"), *req.Approved)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}
