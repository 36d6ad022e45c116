// Package handler exposes the document lifecycle over HTTP. Handlers decode,
// delegate and render; business rules live in the service.
package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"doctrace/internal/document"
	"doctrace/internal/platform/metrics"
	"doctrace/internal/transport/httpjson"
	dErrors "doctrace/pkg/domainerrors"
	"doctrace/pkg/requestcontext"
)

// maxAttachmentBytes bounds attachment uploads.
const maxAttachmentBytes = 32 << 20

type Handler struct {
	log     *slog.Logger
	svc     *document.Service
	metrics *metrics.Metrics
}

func New(svc *document.Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{log: log, svc: svc, metrics: m}
}

// Register mounts the document routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleSearch)
		r.Get("/recent", h.handleRecent)
		r.Get("/roots", h.handleRoots)
		r.Get("/next-id", h.handleNextID)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
		r.Get("/{id}/thread", h.handleThread)
		r.Patch("/{id}/recognition", h.handleRecognition)
	})
	r.Post("/attachments", h.handleUploadAttachment)
	r.Get("/archive", h.handleArchive)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if !decode(w, r, &req) {
		return
	}

	date, ok := document.ParseDate(ctx, req.Date)
	if !ok {
		h.log.WarnContext(ctx, "unparseable document date, defaulting to now",
			"date", req.Date, "request_id", requestcontext.RequestID(ctx))
	}

	doc, err := h.svc.Create(ctx, document.CreateInput{
		Date:          date,
		Type:          document.Type(req.Type),
		Agency:        req.Agency,
		Subject:       req.Subject,
		ParentID:      req.ParentID,
		AttachmentRef: req.AttachmentRef,
		ManualID:      req.ManualID,
	})
	if err != nil {
		h.fail(w, r, "create document", err)
		return
	}
	h.metrics.IncDocumentsCreated()
	httpjson.Write(w, http.StatusCreated, toDocumentResponse(doc))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get document", err)
		return
	}
	httpjson.Write(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req updateRequest
	if !decode(w, r, &req) {
		return
	}

	// Full-row replace: load the stored row, apply the submitted fields,
	// write the whole document back.
	doc, err := h.svc.Get(ctx, id)
	if err != nil {
		h.fail(w, r, "update document", err)
		return
	}
	if req.Date != "" {
		date, ok := document.ParseDate(ctx, req.Date)
		if !ok {
			h.log.WarnContext(ctx, "unparseable document date, defaulting to now", "date", req.Date)
		}
		doc.Date = date
	}
	if req.Type != "" {
		doc.Type = document.Type(req.Type)
	}
	doc.Agency = req.Agency
	doc.Subject = req.Subject
	doc.ParentID = req.ParentID
	doc.AttachmentRef = req.AttachmentRef

	if err := h.svc.Update(ctx, doc); err != nil {
		h.fail(w, r, "update document", err)
		return
	}
	httpjson.Write(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "soft delete document", err)
		return
	}
	h.metrics.IncDocumentsArchived()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	query := document.SearchQuery{
		Keyword: q.Get("keyword"),
		Type:    document.Type(q.Get("type")),
		Agency:  q.Get("agency"),
	}
	var err error
	if query.DateFrom, err = parseBound(q.Get("from")); err != nil {
		httpjson.WriteError(w, err)
		return
	}
	if query.DateTo, err = parseBound(q.Get("to")); err != nil {
		httpjson.WriteError(w, err)
		return
	}

	docs, err := h.svc.Search(ctx, query)
	if err != nil {
		h.fail(w, r, "search documents", err)
		return
	}
	httpjson.Write(w, http.StatusOK, toDocumentListResponse(docs))
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Recent(r.Context())
	if err != nil {
		h.fail(w, r, "list recent documents", err)
		return
	}
	httpjson.Write(w, http.StatusOK, toDocumentListResponse(docs))
}

func (h *Handler) handleRoots(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Roots(r.Context())
	if err != nil {
		h.fail(w, r, "list root documents", err)
		return
	}
	httpjson.Write(w, http.StatusOK, toDocumentListResponse(docs))
}

func (h *Handler) handleThread(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Thread(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "build thread", err)
		return
	}
	out := make([]threadEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = threadEntryResponse{
			Document: toDocumentResponse(entry.Document),
			Depth:    entry.Depth,
		}
	}
	httpjson.Write(w, http.StatusOK, threadResponse{Entries: out})
}

// handleNextID previews the code the allocator would assign, without
// creating anything. The preview is a point-in-time read: the code is only
// reserved once a create lands.
func (h *Handler) handleNextID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	date := requestcontext.Now(ctx)
	if raw := q.Get("date"); raw != "" {
		var ok bool
		if date, ok = document.ParseDate(ctx, raw); !ok {
			h.log.WarnContext(ctx, "unparseable document date, defaulting to now",
				"date", raw, "request_id", requestcontext.RequestID(ctx))
		}
	}
	parentID := q.Get("parent_id")

	id, err := h.svc.Allocator().Next(ctx, date, parentID != "", parentID)
	if err != nil {
		h.fail(w, r, "preview next code", err)
		return
	}
	httpjson.Write(w, http.StatusOK, allocationResponse{ID: id})
}

func (h *Handler) handleRecognition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req recognitionRequest
	if !decode(w, r, &req) {
		return
	}
	at := requestcontext.Now(ctx)
	if req.Date != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Date); err == nil {
			at = parsed
		}
	}

	doc, err := h.svc.SetRecognition(ctx, chi.URLParam(r, "id"),
		document.RecognitionStatus(req.Status), req.Text, at)
	if err != nil {
		h.fail(w, r, "set recognition result", err)
		return
	}
	httpjson.Write(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := r.URL.Query().Get("name")
	content, err := io.ReadAll(io.LimitReader(r.Body, maxAttachmentBytes))
	if err != nil {
		httpjson.WriteError(w, dErrors.Wrap(dErrors.CodeValidation, "read attachment body", err))
		return
	}

	ref, err := h.svc.UploadAttachment(ctx, content, name)
	if err != nil {
		h.fail(w, r, "upload attachment", err)
		return
	}
	httpjson.Write(w, http.StatusCreated, attachmentResponse{Ref: ref})
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Archived(r.Context())
	if err != nil {
		h.fail(w, r, "list archive", err)
		return
	}
	httpjson.Write(w, http.StatusOK, archiveResponse{Rows: rows})
}

// fail logs with request context and renders the domain error, preserving
// its kind.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.WarnContext(r.Context(), op+" failed",
		"error", err,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	httpjson.WriteError(w, err)
}

func parseBound(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, dErrors.Newf(dErrors.CodeValidation, "invalid date bound %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
