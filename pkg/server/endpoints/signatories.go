package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/logging"
	"github.com/doodlesbykumbi/signatories/pkg/server"
	"github.com/doodlesbykumbi/signatories/pkg/server/store"
)

// SignatoryResponse is the wire form of a stored signatory
type SignatoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Certificate string `json:"certificate"`
}

type signatoryRequest struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func RegisterSignatoriesEndpoints(s *server.Server) {
	signatoriesStore := s.SignatoriesStore
	logger := s.Logger

	router := s.Router.PathPrefix("/certificates/{certificate_id}/signatories").Subrouter()

	// GET /certificates/{certificate_id}/signatories - List signatories
	router.HandleFunc("", handleListSignatories(signatoriesStore, logger)).Methods("GET")

	// POST /certificates/{certificate_id}/signatories - Create a signatory
	router.HandleFunc("", handleCreateSignatory(signatoriesStore, logger)).Methods("POST")

	// PUT|PATCH /certificates/{certificate_id}/signatories/{id} - Update a signatory
	router.HandleFunc("/{id:[0-9]+}", handleUpdateSignatory(signatoriesStore, logger)).Methods("PUT", "PATCH")

	// DELETE /certificates/{certificate_id}/signatories/{id} - Delete a signatory
	router.HandleFunc("/{id:[0-9]+}", handleDeleteSignatory(signatoriesStore, logger)).Methods("DELETE")
}

func handleListSignatories(signatoriesStore store.SignatoriesStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificateID := pathVar(r, "certificate_id")

		list, err := signatoriesStore.ListSignatories(r.Context(), certificateID)
		if err != nil {
			logger.Error("failed to list signatories", logging.CertificateID(certificateID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to list signatories")
			return
		}

		response := make([]SignatoryResponse, 0, len(list))
		for _, sig := range list {
			response = append(response, toResponse(sig))
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

func handleCreateSignatory(signatoriesStore store.SignatoriesStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificateID := pathVar(r, "certificate_id")

		var req signatoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		sig := store.Signatory{CertificateID: certificateID, Name: req.Name, Title: req.Title}
		if err := signatoriesStore.CreateSignatory(r.Context(), &sig); err != nil {
			logger.Error("failed to create signatory", logging.CertificateID(certificateID), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to create signatory")
			return
		}

		respondWithJSON(w, http.StatusCreated, toResponse(sig))
	}
}

func handleUpdateSignatory(signatoriesStore store.SignatoriesStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificateID := pathVar(r, "certificate_id")
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid signatory id")
			return
		}

		var req signatoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		sig := store.Signatory{ID: id, CertificateID: certificateID, Name: req.Name, Title: req.Title}
		if err := signatoriesStore.UpdateSignatory(r.Context(), sig); err != nil {
			if errors.Is(err, store.ErrSignatoryNotFound) {
				respondWithError(w, http.StatusNotFound, "signatory not found")
				return
			}
			logger.Error("failed to update signatory", logging.CertificateID(certificateID), logging.SignatoryID(id), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to update signatory")
			return
		}

		respondWithJSON(w, http.StatusOK, toResponse(sig))
	}
}

func handleDeleteSignatory(signatoriesStore store.SignatoriesStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certificateID := pathVar(r, "certificate_id")
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid signatory id")
			return
		}

		if err := signatoriesStore.DeleteSignatory(r.Context(), certificateID, id); err != nil {
			if errors.Is(err, store.ErrSignatoryNotFound) {
				respondWithError(w, http.StatusNotFound, "signatory not found")
				return
			}
			logger.Error("failed to delete signatory", logging.CertificateID(certificateID), logging.SignatoryID(id), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to delete signatory")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(sig store.Signatory) SignatoryResponse {
	return SignatoryResponse{
		ID:          sig.ID,
		Name:        sig.Name,
		Title:       sig.Title,
		Certificate: sig.CertificateID,
	}
}
