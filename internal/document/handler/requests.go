package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"doctrace/internal/document"
	"doctrace/internal/rowstore"
	"doctrace/internal/transport/httpjson"
	dErrors "doctrace/pkg/domainerrors"
)

type createRequest struct {
	Date          string `json:"date"`
	Type          string `json:"type"`
	Agency        string `json:"agency"`
	Subject       string `json:"subject"`
	ParentID      string `json:"parent_id,omitempty"`
	AttachmentRef string `json:"attachment_ref,omitempty"`
	ManualID      string `json:"manual_id,omitempty"`
}

type updateRequest struct {
	Date          string `json:"date,omitempty"`
	Type          string `json:"type,omitempty"`
	Agency        string `json:"agency"`
	Subject       string `json:"subject"`
	ParentID      string `json:"parent_id,omitempty"`
	AttachmentRef string `json:"attachment_ref,omitempty"`
}

type recognitionRequest struct {
	Status string `json:"status"`
	Text   string `json:"text,omitempty"`
	Date   string `json:"date,omitempty"`
}

type documentResponse struct {
	ID                string `json:"id"`
	Date              string `json:"date"`
	Type              string `json:"type"`
	Agency            string `json:"agency"`
	Subject           string `json:"subject"`
	ParentID          string `json:"parent_id,omitempty"`
	AttachmentRef     string `json:"attachment_ref,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
	CreatedBy         string `json:"created_by,omitempty"`
	RecognitionStatus string `json:"recognition_status"`
	RecognitionText   string `json:"recognition_text,omitempty"`
	RecognitionDate   string `json:"recognition_date,omitempty"`
}

type documentListResponse struct {
	Documents []documentResponse `json:"documents"`
	Count     int                `json:"count"`
}

type threadEntryResponse struct {
	Document documentResponse `json:"document"`
	Depth    int              `json:"depth"`
}

type threadResponse struct {
	Entries []threadEntryResponse `json:"entries"`
}

type attachmentResponse struct {
	Ref string `json:"ref"`
}

type allocationResponse struct {
	ID string `json:"id"`
}

type archiveResponse struct {
	Rows []rowstore.Row `json:"rows"`
}

func toDocumentResponse(doc document.Document) documentResponse {
	out := documentResponse{
		ID:                doc.ID,
		Date:              doc.Date.Format("2006-01-02"),
		Type:              string(doc.Type),
		Agency:            doc.Agency,
		Subject:           doc.Subject,
		ParentID:          doc.ParentID,
		AttachmentRef:     doc.AttachmentRef,
		CreatedBy:         doc.CreatedBy,
		RecognitionStatus: string(doc.RecognitionStatus),
		RecognitionText:   doc.RecognitionText,
	}
	if !doc.CreatedAt.IsZero() {
		out.CreatedAt = doc.CreatedAt.Format(time.RFC3339)
	}
	if !doc.RecognitionDate.IsZero() {
		out.RecognitionDate = doc.RecognitionDate.Format(time.RFC3339)
	}
	return out
}

func toDocumentListResponse(docs []document.Document) documentListResponse {
	out := documentListResponse{Documents: make([]documentResponse, len(docs)), Count: len(docs)}
	for i, doc := range docs {
		out.Documents[i] = toDocumentResponse(doc)
	}
	return out
}

// decode reads a JSON body, rendering a validation error on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpjson.WriteError(w, dErrors.Wrap(dErrors.CodeValidation, "invalid request body", err))
		return false
	}
	return true
}
