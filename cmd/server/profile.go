package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Simplici0/valley.works/internal/catalog"
	"github.com/Simplici0/valley.works/internal/pricing"
	"github.com/Simplici0/valley.works/internal/store"
)

type profileRequest struct {
	Professions []string `json:"professions"`
	Quality     string   `json:"quality"`
	Foraged     bool     `json:"foraged"`
}

func (req profileRequest) toProfile() (store.Profile, error) {
	quality, err := catalog.ParseQuality(req.Quality)
	if err != nil {
		return store.Profile{}, err
	}
	p := store.Profile{Quality: quality, Foraged: req.Foraged, Professions: []pricing.Profession{}}
	for _, raw := range req.Professions {
		prof, err := pricing.ParseProfession(raw)
		if err != nil {
			return store.Profile{}, err
		}
		p.Professions = append(p.Professions, prof)
	}
	return p, nil
}

func decodeProfileRequest(r *http.Request) (store.Profile, error) {
	var req profileRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return store.Profile{}, errors.New("invalid profile body")
	}
	return req.toProfile()
}

func (s *server) handleProfileCreate(w http.ResponseWriter, r *http.Request) {
	p, err := decodeProfileRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateProfile(p)
	if err != nil {
		log.Printf("create profile: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	s.sessions.setProfileCookie(w, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	p, ok := s.currentProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	current, ok := s.currentProfile(w, r)
	if !ok {
		return
	}

	p, err := decodeProfileRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = current.ID

	if err := s.store.UpdateProfile(p); err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		log.Printf("update profile %s: %v", p.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) currentProfile(w http.ResponseWriter, r *http.Request) (store.Profile, bool) {
	id, ok := s.sessions.profileID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "no profile")
		return store.Profile{}, false
	}

	p, err := s.store.Profile(id)
	if errors.Is(err, store.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, "profile not found")
		return store.Profile{}, false
	}
	if err != nil {
		log.Printf("load profile %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return store.Profile{}, false
	}
	return p, true
}
