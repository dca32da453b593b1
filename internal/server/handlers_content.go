package server

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifesync/internal/auth"
	"lifesync/internal/catalog"
	"lifesync/internal/community"
	"lifesync/internal/models"
	"lifesync/internal/posture"
	"lifesync/internal/tracker"
)

func (h *handler) pages(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{"pages": models.Pages})
}

// goalFor picks the ?goal= override, then the caller's profile goal, then maintenance.
func (h *handler) goalFor(r *http.Request) (models.FitnessGoal, bool) {
	if q := r.URL.Query().Get("goal"); q != "" {
		goal := models.FitnessGoal(q)
		return goal, goal.Valid()
	}
	if id, ok := auth.FromContext(r.Context()); ok {
		if user, err := h.Profile.Get(r.Context(), id.UserID); err == nil && user.FitnessGoal != "" {
			return user.FitnessGoal, true
		}
	}
	return models.GoalMaintenance, true
}

func (h *handler) fitness(w http.ResponseWriter, r *http.Request) {
	goal, ok := h.goalFor(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "unknown fitness goal")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"goal":     goal,
		"workouts": catalog.Workouts(goal),
	})
}

func (h *handler) nutrition(w http.ResponseWriter, r *http.Request) {
	goal, ok := h.goalFor(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "unknown fitness goal")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"goal":      goal,
		"mealPlans": catalog.MealPlans(goal),
	})
}

func (h *handler) chatWelcome(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"reply": h.Assistant.Welcome()})
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	reply, err := h.Assistant.Reply(r.Context(), req.Message)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// analyzePosture takes either a multipart photo ("image" plus optional "mode")
// or JSON with keypoints detected on the client.
func (h *handler) analyzePosture(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var req struct {
			Mode      string             `json:"mode"`
			Keypoints []posture.Keypoint `json:"keypoints"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		mode, err := posture.ParseMode(req.Mode)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeJSON(w, http.StatusOK, h.Posture.AnalyzeKeypoints(mode, req.Keypoints))
		return
	}

	data, ok := readFormFile(w, r, "image", posture.MaxUploadBytes)
	if !ok {
		return
	}
	mode, err := posture.ParseMode(r.FormValue("mode"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.Posture.AnalyzeImage(r.Context(), mode, data)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

type trackingResponse struct {
	Record *models.TrackingRecord `json:"record"`
	Charts []tracker.Chart        `json:"charts"`
}

func (h *handler) getTracking(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	rec, err := h.Tracker.Get(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, trackingResponse{Record: rec, Charts: tracker.Charts(*rec)})
}

func (h *handler) addTracking(w http.ResponseWriter, r *http.Request) {
	var in tracker.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	id, _ := auth.FromContext(r.Context())
	rec, err := h.Tracker.AddEntry(r.Context(), id.UserID, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, trackingResponse{Record: rec, Charts: tracker.Charts(*rec)})
}

func (h *handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Community.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

type contentRequest struct {
	Content string `json:"content"`
}

func author(r *http.Request) community.Author {
	id, _ := auth.FromContext(r.Context())
	return community.Author{ID: id.UserID, Name: id.DisplayName}
}

func (h *handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.Community.Create(r.Context(), author(r), req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, post)
}

func (h *handler) editPost(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.Community.Edit(r.Context(), author(r).ID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusOK, post)
}

func (h *handler) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.Community.Delete(r.Context(), author(r).ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) addComment(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := h.Community.AddComment(r.Context(), author(r), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, post)
}
