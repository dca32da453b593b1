package server

import (
	"errors"
	"io"
	"net/http"

	"lifesync/internal/auth"
	"lifesync/internal/bmi"
	"lifesync/internal/profile"
)

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (h *handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}
	grant, err := h.Auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, grant)
}

func (h *handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decodeJSON(w, r, &req) {
		return
	}
	grant, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, grant)
}

func (h *handler) signOut(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	if err := h.Auth.SignOut(r.Context(), id.SessionID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	user, err := h.Profile.Get(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch profile.Patch
	if !decodeJSON(w, r, &patch) {
		return
	}
	id, _ := auth.FromContext(r.Context())
	user, err := h.Profile.Update(r.Context(), id.UserID, patch)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	id, _ := auth.FromContext(r.Context())
	if err := h.Auth.ChangePassword(r.Context(), id.UserID, req.NewPassword, req.ConfirmPassword); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// uploadPhoto expects a multipart form with the image in the "photo" field.
func (h *handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	data, ok := readFormFile(w, r, "photo", profile.MaxPhotoBytes)
	if !ok {
		return
	}
	id, _ := auth.FromContext(r.Context())
	url, err := h.Profile.UploadPhoto(r.Context(), id.UserID, data)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"photoURL": url})
}

func (h *handler) calculateBMI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Height float64 `json:"height"`
		Weight float64 `json:"weight"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := bmi.Calculate(req.Height, req.Weight)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// profileBMI uses the height and weight saved on the profile.
func (h *handler) profileBMI(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	user, err := h.Profile.Get(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := bmi.Calculate(user.HeightCm, user.WeightKg)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// readFormFile reads one multipart file field, refusing anything above limit bytes.
func readFormFile(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return nil, false
		}
		writeMessage(w, http.StatusBadRequest, "Expected a multipart form upload")
		return nil, false
	}
	file, _, err := r.FormFile(field)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing file field \""+field+"\"")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to read upload")
		return nil, false
	}
	return data, true
}
