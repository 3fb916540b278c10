package http

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"hazel-marketplace/internal/service"
	"hazel-marketplace/internal/storage"
)

type ListingHandler struct {
	listingSvc     service.ListingService
	reviewSvc      service.ReviewService
	maxUploadBytes int64
}

func NewListingHandler(listingSvc service.ListingService, reviewSvc service.ReviewService, maxUploadBytes int64) *ListingHandler {
	return &ListingHandler{listingSvc: listingSvc, reviewSvc: reviewSvc, maxUploadBytes: maxUploadBytes}
}

type listingRequest struct {
	Title            string   `json:"title" validate:"required,max=120"`
	FullTitle        string   `json:"full_title" validate:"max=300"`
	Category         string   `json:"category" validate:"required"`
	Description      string   `json:"description" validate:"required,max=5000"`
	PricePerDayCents int64    `json:"price_per_day_cents" validate:"required,gt=0"`
	ImageURL         string   `json:"image_url" validate:"omitempty,url"`
	Tags             []string `json:"tags" validate:"max=20,dive,max=40"`
	TrackingTagID    string   `json:"tracking_tag_id" validate:"max=100"`
	OwnerTerms       string   `json:"owner_terms" validate:"max=2000"`
}

type reviewRequest struct {
	Rating int32  `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"required,max=2000"`
}

func (req listingRequest) input() service.ListingInput {
	return service.ListingInput(req)
}

func (h *ListingHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.listingSvc.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Browse serves the paged catalogue: ?category=&q=&page=&page_size=
func (h *ListingHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.listingSvc.Browse(r.Context(), ActorFromContext(r.Context()), service.BrowseQuery{
		Category: q.Get("category"),
		Term:     q.Get("q"),
		Page:     queryInt32(r, "page", 1),
		PageSize: queryInt32(r, "page_size", service.DefaultPageSize),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ListingHandler) QuickSearch(w http.ResponseWriter, r *http.Request) {
	items, err := h.listingSvc.QuickSearch(r.Context(), ActorFromContext(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.listingSvc.Get(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	items, err := h.listingSvc.ListMine(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	listing, err := h.listingSvc.Create(r.Context(), ActorFromContext(r.Context()), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req listingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	listing, err := h.listingSvc.Update(r.Context(), ActorFromContext(r.Context()), id, req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.listingSvc.Delete(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// readImage returns the "image" part of a multipart upload.
func (h *ListingHandler) readImage(w http.ResponseWriter, r *http.Request) (io.ReadCloser, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(w, r, storage.ErrFileTooLarge)
		} else {
			writeError(w, http.StatusBadRequest, "bad_request", "expected a multipart form with an image field", nil)
		}
		return nil, "", false
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "image field is required", nil)
		return nil, "", false
	}
	if header.Size > h.maxUploadBytes {
		file.Close()
		writeServiceError(w, r, storage.ErrFileTooLarge)
		return nil, "", false
	}

	contentType, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := io.ReadFull(file, sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			file.Close()
			writeServiceError(w, r, err)
			return nil, "", false
		}
	}
	return file, contentType, true
}

func (h *ListingHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	file, contentType, ok := h.readImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	listing, err := h.listingSvc.UploadImage(r.Context(), ActorFromContext(r.Context()), id, contentType, file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// StageImage stores an image for a listing that is still being drafted.
func (h *ListingHandler) StageImage(w http.ResponseWriter, r *http.Request) {
	file, contentType, ok := h.readImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.listingSvc.StageImage(r.Context(), ActorFromContext(r.Context()), contentType, file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"image_url": url})
}

func (h *ListingHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	list, err := h.reviewSvc.List(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListingHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	review, err := h.reviewSvc.Submit(r.Context(), ActorFromContext(r.Context()), id, req.Rating, req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
