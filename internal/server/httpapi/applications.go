package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/matchmaker/internal/common"
	"github.com/dmitrijs2005/matchmaker/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func decodeApplication(w http.ResponseWriter, r *http.Request) (*applicationRequest, services.PhotoInput, error) {
	var req applicationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, services.PhotoInput{}, err
	}
	photo := services.PhotoInput{WantUploadURL: req.PhotoUploadURL}
	if req.Photo != "" {
		data, err := base64.StdEncoding.DecodeString(req.Photo)
		if err != nil {
			return nil, photo, errors.Join(common.ErrorValidation, err)
		}
		photo.Data = data
	}
	return &req, photo, nil
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	req, photo, err := decodeApplication(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.svc.Applications.Create(r.Context(), chi.URLParam(r, "userId"), req.Application, photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleAmendApplication(w http.ResponseWriter, r *http.Request) {
	req, photo, err := decodeApplication(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.svc.Applications.Amend(r.Context(), chi.URLParam(r, "userId"), req.Application, photo)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetOwnApplication(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Applications.GetByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var criteria services.SearchCriteria
	if err := decodeJSON(w, r, &criteria); err != nil {
		s.writeError(w, r, err)
		return
	}
	views, err := s.svc.Search.Search(r.Context(), criteria)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
