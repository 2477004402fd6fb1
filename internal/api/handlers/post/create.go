package post

import (
	"encoding/json"
	"log"
	"net/http"

	"anyboard/internal/api/middleware"
	"anyboard/internal/core/posts"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{
		service: service,
	}
}

type createResponse struct {
	ID string `json:"id"`
}

// HandleCreate handles POST /posts.
// Uploads the request's images and writes a new post authored by the
// signed-in user.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	// Image refs are URLs or device paths, not payloads, so 1MB is plenty
	r.Body = http.MaxBytesReader(w, r.Body, 1*1024*1024)

	var req posts.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
				"Request body too large (max 1MB)")
			return
		}
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	// Author identity comes from the session, never from the client
	session := middleware.GetSession(r)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}
	req.AuthorUID = session.UID
	req.AuthorName = session.Name()

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(createResponse{ID: id}); err != nil {
		log.Printf("Failed to encode post creation response: %v", err)
	}
}
