package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/users-api/internal/catalog"
	"github.com/isdelr/users-api/internal/models"
	"github.com/isdelr/users-api/internal/services"
	"github.com/isdelr/users-api/internal/storage"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service      services.UserServiceProvider
	errCatalog   *catalog.Catalog
	defaultLimit int
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, errs *catalog.Catalog, defaultLimit int) *UserHandler {
	return &UserHandler{service: service, errCatalog: errs, defaultLimit: defaultLimit}
}

// UsersList is the payload of a list response.
type UsersList struct {
	Count int           `json:"count"`
	Users []models.User `json:"users"`
}

// UserPayload wraps a single user in a response.
type UserPayload struct {
	User any `json:"user"`
}

// List handles the request to get a page of users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", h.defaultLimit)

	users, err := h.service.ListUsers(offset, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Successfully retrieved list of users", UsersList{Count: len(users), Users: users})
}

// Create handles the request to create a new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload models.CreateUserInput
	if !h.decode(w, r, &payload) {
		return
	}

	user, err := h.service.CreateUser(payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User created")
	respondSuccess(w, http.StatusCreated, "Successfully created user", UserPayload{User: user.ToNewUser()})
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Successfully retrieved user", UserPayload{User: user})
}

// Update handles modifying the supplied fields of a user.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload models.UpdateUserInput
	if !h.decode(w, r, &payload) {
		return
	}

	user, err := h.service.UpdateUser(id, payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Successfully modified user", UserPayload{User: user})
}

// Delete handles removing a user.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.DeleteUser(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User deleted")
	respondSuccess(w, http.StatusOK, "Successfully deleted user", UserPayload{User: user})
}

// requestBody is a payload that can also be bound from an urlencoded form.
type requestBody interface {
	FromForm(form url.Values)
}

// decode reads the request body into dst. Urlencoded forms are bound field by
// field; anything else must be a single JSON value. An empty body decodes to
// the zero value.
func (h *UserHandler) decode(w http.ResponseWriter, r *http.Request, dst requestBody) bool {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			h.invalidBody(w, r, err)
			return false
		}
		dst.FromForm(r.PostForm)
		return true
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		h.invalidBody(w, r, err)
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.invalidBody(w, r, errors.New("unexpected data after JSON body"))
		return false
	}
	return true
}

func (h *UserHandler) invalidBody(w http.ResponseWriter, r *http.Request, err error) {
	log.Warn().Err(err).Str("path", r.URL.Path).Msg("Invalid request body")
	respondError(w, http.StatusBadRequest, h.errCatalog.Lookup(catalog.InvalidBodyError, nil, nil))
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// fail maps a service or storage error to the error envelope.
func (h *UserHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *services.ValidationError
		conflictErr   *services.ConflictError
		notFoundErr   *services.NotFoundError
		corruptErr    *storage.CorruptError
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, h.errCatalog.Lookup(catalog.RequiredBodyParamError,
			map[string]string{"param": validationErr.Field}, nil))
	case errors.As(err, &conflictErr):
		respondError(w, http.StatusBadRequest, h.errCatalog.Lookup(catalog.UserAlreadyExists,
			map[string]string{"email": conflictErr.Email}, nil))
	case errors.As(err, &notFoundErr):
		respondError(w, http.StatusNotFound, h.errCatalog.Lookup(catalog.UserNotFound,
			map[string]string{"userId": notFoundErr.ID}, nil))
	case errors.As(err, &corruptErr):
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Users file is corrupt")
		respondError(w, http.StatusBadRequest, h.errCatalog.Lookup(catalog.UsersFileError, nil, nil))
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to handle user request")
		respondError(w, http.StatusInternalServerError, h.errCatalog.Lookup(catalog.ServerInternalError, nil, nil))
	}
}

// queryInt parses a non-negative integer query parameter, returning fallback
// when it is absent or invalid.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
