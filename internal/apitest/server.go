// Package apitest provides an in-process imitation of the store back-office
// REST API for integration tests. It speaks the same wire format as the real
// backend: form-encoded token endpoint, bearer-token auth, and error bodies
// of the form {"detail": "..."}.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/storekeeper/internal/client/models"
	"github.com/dmitrijs2005/storekeeper/internal/filex"
)

const tokenTTL = 30 * time.Minute

type account struct {
	user         models.User
	passwordHash []byte
}

// Server holds the fake API's in-memory state. Safe for concurrent use.
type Server struct {
	secret []byte
	router chi.Router

	mu     sync.Mutex
	users  map[string]*account
	nextID int64
}

// NewServer constructs an empty fake API signing tokens with secret.
func NewServer(secret string) *Server {
	s := &Server{
		secret: []byte(secret),
		users:  make(map[string]*account),
		nextID: 1,
	}

	r := chi.NewRouter()
	r.Post("/auth/token", s.handleToken)
	r.Post("/auth/register", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/users/me", s.handleMe)
		r.Put("/users/profile", s.handleUpdateProfile)
		r.Put("/auth/change_password", s.handleChangePassword)
		r.Post("/users/profile-picture", s.handleProfilePicture)
	})

	s.router = r
	return s
}

// Handler returns the fake API's HTTP handler, suitable for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// AddUser seeds an account directly, bypassing the register endpoint.
func (s *Server) AddUser(u models.User, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID
	}
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	s.users[u.Username] = &account{user: u, passwordHash: hash}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) issueToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) subjectFromToken(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("missing subject")
	}
	return sub, nil
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		sub, err := s.subjectFromToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.Lock()
		acc, ok := s.users[sub]
		s.mu.Unlock()
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), acc)))
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	s.mu.Lock()
	acc, ok := s.users[username]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.issueToken(username)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Token signing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var data models.RegistrationData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if data.Username == "" || data.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[data.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "Username already exists")
		return
	}
	for _, acc := range s.users {
		if acc.user.Email == data.Email {
			writeDetail(w, http.StatusBadRequest, "Email already exists")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Hashing failed")
		return
	}

	role := data.Role
	if role == "" {
		role = "user"
	}
	user := models.User{
		ID:        s.nextID,
		Username:  data.Username,
		Email:     data.Email,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Role:      role,
	}
	s.nextID++
	s.users[user.Username] = &account{user: user, passwordHash: hash}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())

	var upd models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if upd.Username != "" && upd.Username != acc.user.Username {
		if _, exists := s.users[upd.Username]; exists {
			writeDetail(w, http.StatusBadRequest, "Username already exists")
			return
		}
		delete(s.users, acc.user.Username)
		acc.user.Username = upd.Username
		s.users[acc.user.Username] = acc
	}
	if upd.Email != "" {
		for _, other := range s.users {
			if other != acc && other.user.Email == upd.Email {
				writeDetail(w, http.StatusBadRequest, "Email already exists")
				return
			}
		}
		acc.user.Email = upd.Email
	}
	if upd.FirstName != "" {
		acc.user.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		acc.user.LastName = upd.LastName
	}

	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())

	var payload struct {
		Password    string `json:"password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(payload.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Hashing failed")
		return
	}
	acc.passwordHash = hash

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (s *Server) handleProfilePicture(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if filex.ImageContentType(hdr.Filename) == "" {
		writeDetail(w, http.StatusBadRequest, "File must be an image")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	acc.user.ProfilePicture = fmt.Sprintf("/uploads/profile_pictures/user_%d%s", acc.user.ID, ext)

	writeJSON(w, http.StatusOK, map[string]string{"profile_picture": acc.user.ProfilePicture})
}
