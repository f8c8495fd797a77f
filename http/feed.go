package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"chirp/errs"
)

func (s *Server) registerFeedRoutes(r *mux.Router) {
	// Read side.
	r.HandleFunc("/public", s.handlePublicFeed).Methods("GET")
	r.HandleFunc("/timeline/{name}", s.handleTimeline).Methods("GET")
	r.HandleFunc("/me/cheeps", s.requireAuth(s.handleMyCheeps)).Methods("GET")
	r.HandleFunc("/me/likes", s.requireAuth(s.handleMyLikes)).Methods("GET")
	r.HandleFunc("/me/following", s.requireAuth(s.handleFollowing)).Methods("GET")
	r.HandleFunc("/cheep/{id:[0-9]+}/likers", s.handleLikers).Methods("GET")

	// Mutations.
	r.HandleFunc("/cheep", s.requireAuth(s.handleCreateCheep)).Methods("POST")
	r.HandleFunc("/follow", s.requireAuth(s.handleToggleFollow)).Methods("POST")
	r.HandleFunc("/like/{id:[0-9]+}", s.requireAuth(s.handleToggleLike)).Methods("POST")
	r.HandleFunc("/account", s.requireAuth(s.handleDeleteAccount)).Methods("DELETE")
}

// handlePublicFeed handles the route "GET /public". It renders the global
// timeline, annotated for the viewer when one is signed in.
func (s *Server) handlePublicFeed(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	viewerName, viewerEmail := "", ""
	if user := s.getUserFromContext(r.Context()); user != nil {
		viewerEmail = user.Email
		if authors, err := s.as.ByEmail(user.Email, 0); err == nil && len(authors) > 0 {
			viewerName = authors[0].Name
		}
	}

	items, err := s.fs.Feed(viewerName, viewerEmail, page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(items); err != nil {
		errs.LogError(r, err)
	}
}

// handleTimeline handles the route "GET /timeline/{name}". It renders the
// named author's timeline; for the author themselves this is the
// self-inclusive follow feed.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	target, err := s.as.ByName(mux.Vars(r)["name"], 0)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	viewerEmail := ""
	if user := s.getUserFromContext(r.Context()); user != nil {
		viewerEmail = user.Email
	}

	items, err := s.fs.Timeline(viewerEmail, target, page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(items); err != nil {
		errs.LogError(r, err)
	}
}

// handleMyCheeps handles the route "GET /me/cheeps".
func (s *Server) handleMyCheeps(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())
	items, err := s.fs.MyCheeps(user.Email, parsePage(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(items); err != nil {
		errs.LogError(r, err)
	}
}

// handleMyLikes handles the route "GET /me/likes". Stale likes pointing at
// deleted cheeps are healed as a side effect of this read.
func (s *Server) handleMyLikes(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())
	items, err := s.fs.LikedCheeps(user.Email)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(items); err != nil {
		errs.LogError(r, err)
	}
}

// handleFollowing handles the route "GET /me/following".
func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())
	views, err := s.fs.FollowedAuthors(user.Email)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(views); err != nil {
		errs.LogError(r, err)
	}
}

// handleLikers handles the route "GET /cheep/{id}/likers".
func (s *Server) handleLikers(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	likers, err := s.fs.Likers(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(likers); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreateCheep handles the route "POST /cheep".
func (s *Server) handleCreateCheep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid cheep data."))
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.fs.CreateCheep(user.Email, req.Text); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "cheep created"})
}

// handleToggleFollow handles the route "POST /follow". Calling it twice
// for the same target restores the original state.
func (s *Server) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid follow data."))
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.fs.ToggleFollow(user.Email, req.Email); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "follow toggled"})
}

// handleToggleLike handles the route "POST /like/{id}".
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	if err := s.fs.ToggleLike(id, user.Email); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "like toggled"})
}

// handleDeleteAccount handles the route "DELETE /account". It runs the
// full deletion cascade and expires the session cookie.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())
	if err := s.fs.DeleteAccount(user.Email); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	cookie := http.Cookie{
		Name:     "remember_token",
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
	}
	http.SetCookie(w, &cookie)
	json.NewEncoder(w).Encode(map[string]string{"message": "account deleted"})
}

// parsePage reads the zero-based page number from the query string.
// Anything unparsable or negative means page zero.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		return 0
	}
	return page
}
