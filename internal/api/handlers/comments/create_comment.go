package comments

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"anyboard/internal/api/middleware"
	"anyboard/internal/core/comments"
)

// CreateCommentHandler handles comment creation requests
type CreateCommentHandler struct {
	service comments.Service
}

// NewCreateCommentHandler creates a new handler for creating comments
func NewCreateCommentHandler(service comments.Service) *CreateCommentHandler {
	return &CreateCommentHandler{
		service: service,
	}
}

type createCommentResponse struct {
	ID string `json:"id"`
}

// HandleCreate handles POST /posts/{postID}/comments
func (h *CreateCommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	// Comments cap at 500 characters, 100KB leaves plenty of headroom
	r.Body = http.MaxBytesReader(w, r.Body, 100*1024)

	var req comments.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	// Author identity comes from the session, never from the client
	session := middleware.GetSession(r)
	if session == nil {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}
	req.PostID = chi.URLParam(r, "postID")
	req.AuthorUID = session.UID
	req.AuthorName = session.Name()

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(createCommentResponse{ID: id}); err != nil {
		log.Printf("Failed to encode comment creation response: %v", err)
	}
}
