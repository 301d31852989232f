package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/prism-network/prism-index/internal/prismdid"
)

// Server exposes the DID resolution and submission APIs over HTTP.
type Server struct {
	router     chi.Router
	resolver   *ResolutionService
	submitter  *SubmissionService
	httpServer *http.Server
}

// NewServer builds the router and binds it to addr; resolver and
// submission may each be nil, in which case their routes respond 500.
func NewServer(addr string, resolver *ResolutionService, submission *SubmissionService) *Server {
	s := &Server{resolver: resolver, submitter: submission}
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/api/dids/{did}", s.handleResolveDid)
	r.Post("/api/signed-operation-submissions", s.handleSubmitOperations)
	s.router = r
	s.httpServer = &http.Server{Addr: addr, Handler: r}
	return s
}

func (s *Server) Start() error { return s.httpServer.ListenAndServe() }

func (s *Server) handleResolveDid(w http.ResponseWriter, r *http.Request) {
	did := chi.URLParam(r, "did")
	doc, err := s.resolver.Resolve(r.Context(), did)
	if err != nil {
		var syntaxErr *prismdid.SyntaxError
		var suffixErr *prismdid.SuffixMismatchError
		switch {
		case errors.As(err, &syntaxErr), errors.As(err, &suffixErr):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrDidNotFound):
			http.Error(w, "did not found", http.StatusNotFound)
		default:
			logrus.WithError(err).WithField("did", did).Error("resolve did")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type submissionRequest struct {
	SignedOperations []string `json:"signed_operations"`
}

type submissionResponse struct {
	TxId string `json:"tx_id"`
}

func (s *Server) handleSubmitOperations(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	txID, err := s.submitter.Submit(r.Context(), req.SignedOperations)
	if err != nil {
		var invalid *InvalidSubmissionError
		if errors.As(err, &invalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logrus.WithError(err).Error("submit signed operations")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, submissionResponse{TxId: string(txID)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
