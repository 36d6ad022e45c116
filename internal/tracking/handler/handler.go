// Package handler exposes the tracking reports over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"doctrace/internal/tracking"
	"doctrace/internal/transport/httpjson"
	"doctrace/pkg/requestcontext"
)

type Handler struct {
	log *slog.Logger
	svc *tracking.Service
}

func New(svc *tracking.Service, log *slog.Logger) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/tracking", func(r chi.Router) {
		r.Get("/pending", h.handlePending)
		r.Get("/statistics", h.handleStatistics)
	})
}

type pendingItemResponse struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Type            string `json:"type"`
	Agency          string `json:"agency"`
	Subject         string `json:"subject"`
	DaysWaiting     int    `json:"days_waiting"`
	NeedsAttention  bool   `json:"needs_attention"`
	ReplyCount      int    `json:"reply_count"`
	LatestReplyDate string `json:"latest_reply_date,omitempty"`
}

type pendingResponse struct {
	Urgent []pendingItemResponse `json:"urgent"`
	Normal []pendingItemResponse `json:"normal"`
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	urgent, normal, err := h.svc.PendingReplies(r.Context())
	if err != nil {
		h.log.WarnContext(r.Context(), "pending report failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, pendingResponse{
		Urgent: toItems(urgent),
		Normal: toItems(normal),
	})
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context())
	if err != nil {
		h.log.WarnContext(r.Context(), "tracking statistics failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, stats)
}

func toItems(items []tracking.PendingItem) []pendingItemResponse {
	out := make([]pendingItemResponse, len(items))
	for i, item := range items {
		out[i] = pendingItemResponse{
			ID:             item.Document.ID,
			Date:           item.Document.Date.Format("2006-01-02"),
			Type:           string(item.Document.Type),
			Agency:         item.Document.Agency,
			Subject:        item.Document.Subject,
			DaysWaiting:    item.Status.DaysWaiting,
			NeedsAttention: item.Status.NeedsAttention,
			ReplyCount:     item.Status.ReplyCount,
		}
		if !item.Status.LatestReplyDate.IsZero() {
			out[i].LatestReplyDate = item.Status.LatestReplyDate.Format("2006-01-02")
		}
	}
	return out
}
