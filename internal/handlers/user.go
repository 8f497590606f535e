package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/C241-PS090/backend-api/internal/services"
	"github.com/C241-PS090/backend-api/internal/store"
	"github.com/C241-PS090/backend-api/types"
)

const (
	maxMultipartMemory = 10 << 20
	formFieldName      = "name"
	formFieldGender    = "gender"
	formFieldAge       = "age"
	formFieldPicture   = "profilePicture"
)

// UserHandler provides the user listing, lookup, and profile-update
// endpoints.
type UserHandler struct {
	userService    *services.UserService
	pictureService *services.ProfilePictureService
}

// NewUserHandler constructs a UserHandler with the provided dependencies.
func NewUserHandler(userService *services.UserService, pictureService *services.ProfilePictureService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		pictureService: pictureService,
	}
}

// ListUsers returns every user. There is no pagination.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeErrorDetail(w, http.StatusInternalServerError, "Error getting users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser returns a single user by id.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeErrorDetail(w, http.StatusInternalServerError, "Error getting user", err)
		return
	}

	writeJSON(w, http.StatusOK, userEnvelope{ID: user.ID, Data: user})
}

// UpdateProfile merges the submitted profile fields into the user
// record and, when a profilePicture file is attached, replaces the
// stored asset first. Absent fields are left untouched; updatedAt is
// always stamped.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := parseUpdateForm(r); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeErrorDetail(w, http.StatusInternalServerError, "Error getting user", err)
		return
	}

	update, err := profileUpdateFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile(formFieldPicture)
	switch {
	case err == nil:
		data, readErr := io.ReadAll(file)
		_ = file.Close()
		if readErr != nil {
			writeErrorDetail(w, http.StatusInternalServerError, "Error uploading file", readErr)
			return
		}

		currentURL := ""
		if user.ProfilePictureURL != nil {
			currentURL = *user.ProfilePictureURL
		}
		url, upErr := h.pictureService.Replace(
			r.Context(),
			userID,
			currentURL,
			header.Filename,
			header.Header.Get("Content-Type"),
			data,
		)
		if upErr != nil {
			writeErrorDetail(w, http.StatusInternalServerError, "Error uploading file", upErr)
			return
		}
		update.ProfilePictureURL = &url
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// No file attached; only the submitted fields change.
	default:
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeErrorDetail(w, http.StatusInternalServerError, "Error updating profile", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "User profile updated successfully",
		Data:    updated,
	})
}

// parseUpdateForm accepts multipart bodies (the upload path) as well as
// plain form encodings.
func parseUpdateForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxMultipartMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// profileUpdateFromForm builds the optional-field update from the
// submitted form values. A field absent from the form stays nil.
func profileUpdateFromForm(r *http.Request) (types.ProfileUpdate, error) {
	var update types.ProfileUpdate

	if value, ok := formValue(r, formFieldName); ok {
		update.Name = &value
	}
	if value, ok := formValue(r, formFieldGender); ok {
		update.Gender = &value
	}
	if value, ok := formValue(r, formFieldAge); ok {
		age, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return types.ProfileUpdate{}, errors.New("Invalid age")
		}
		update.Age = &age
	}
	return update, nil
}

func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm != nil {
		if values, ok := r.MultipartForm.Value[key]; ok && len(values) > 0 {
			return values[0], true
		}
	}
	if values, ok := r.Form[key]; ok && len(values) > 0 {
		return values[0], true
	}
	return "", false
}
