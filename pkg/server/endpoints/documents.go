package endpoints

import (
	"net/http"
	"strconv"

	"github.com/doodlesbykumbi/docvault/pkg/audit"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server"
)

var writerRoles = []model.Role{model.RoleAdmin, model.RoleEditor}

// RegisterDocumentEndpoints registers document CRUD under /document
func RegisterDocumentEndpoints(s *server.Server) {
	router := authenticated(s, "/document")

	router.Handle("/upload", gated(s, handleUploadDocument(s), writerRoles...)).Methods("POST")
	router.HandleFunc("", handleListDocuments(s)).Methods("GET")
	router.HandleFunc("/{id}", handleGetDocument(s)).Methods("GET")
	router.Handle("/{id}", gated(s, handleUpdateDocument(s), writerRoles...)).Methods("PUT")
	router.Handle("/{id}", gated(s, handleDeleteDocument(s), writerRoles...)).Methods("DELETE")
	router.HandleFunc("/{id}/html", handleRenderDocument(s)).Methods("GET")
	router.HandleFunc("/{id}/ingestions", handleListIngestions(s)).Methods("GET")
}

func documentEvent(r *http.Request, id uint, op string, err error) audit.DocumentEvent {
	username, clientIP := caller(r)
	docID := ""
	if id != 0 {
		docID = strconv.FormatUint(uint64(id), 10)
	}
	return audit.DocumentEvent{
		UserID:       username,
		ClientIP:     clientIP,
		DocumentID:   docID,
		Operation:    op,
		Success:      err == nil,
		ErrorMessage: errorMessage(err),
	}
}

func handleUploadDocument(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UploadDocumentRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		doc, err := s.Documents.Create(r.Context(), req.UserID, req.Title, req.Content)
		var id uint
		if doc != nil {
			id = doc.ID
		}
		s.Auditor.Log(documentEvent(r, id, "create", err))
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		respondWithJSON(w, http.StatusCreated, doc)
	}
}

func handleListDocuments(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := s.Documents.List()
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, docs)
	}
}

func handleGetDocument(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		doc, err := s.Documents.Get(id)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}
		if doc == nil {
			respondWithError(w, http.StatusNotFound, "Document not found")
			return
		}

		respondWithJSON(w, http.StatusOK, doc)
	}
}

func handleUpdateDocument(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		var req UpdateDocumentRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		doc, err := s.Documents.Update(r.Context(), id, req.Title, req.Content)
		s.Auditor.Log(documentEvent(r, id, "update", err))
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		respondWithJSON(w, http.StatusOK, doc)
	}
}

func handleDeleteDocument(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		err = s.Documents.Delete(r.Context(), id)
		s.Auditor.Log(documentEvent(r, id, "delete", err))
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Document deleted successfully"})
	}
}

func handleRenderDocument(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		html, err := s.Documents.RenderHTML(r.Context(), id)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)
	}
}

func handleListIngestions(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}

		recs, err := s.Ingestion.List(id)
		if err != nil {
			respondWithServiceError(w, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, recs)
	}
}
