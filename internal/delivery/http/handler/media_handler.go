package handler

import (
	"net/http"
	"time"

	"petid/internal/infrastructure/storage"
	"petid/pkg/response"

	"github.com/gorilla/mux"
)

// mediaURLExpiry keeps the redirect target alive for as long as clients are
// told to cache the media URL.
const mediaURLExpiry = 24 * time.Hour

type MediaHandler struct {
	objectStore storage.ObjectStore
}

func NewMediaHandler(objectStore storage.ObjectStore) *MediaHandler {
	return &MediaHandler{objectStore: objectStore}
}

// Serve redirects to a presigned URL for the stored object. Avatar images
// render on the public card page, so the response is cacheable and
// cross-origin readable.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		response.NotFound(w, "Media not found")
		return
	}

	url, err := h.objectStore.PresignGet(r.Context(), key, mediaURLExpiry)
	if err != nil {
		response.NotFound(w, "Media not found")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	http.Redirect(w, r, url, http.StatusFound)
}
