// Package chi is the HTTP transport: handlers, routing and middleware.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/domain"
	domdoc "github.com/kailas-cloud/hadithsearch/internal/domain/document"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/hadithsearch/internal/domain/search/request"
	"github.com/kailas-cloud/hadithsearch/internal/repository/resultcache"
	healthuc "github.com/kailas-cloud/hadithsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/hadithsearch/internal/usecase/search"
)

const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Searcher runs a hybrid search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Outcome, error)
}

// DocumentGetter looks up a single hadith.
type DocumentGetter interface {
	Get(ctx context.Context, id string) (domdoc.Document, error)
}

// CacheAdmin exposes result cache statistics and reset.
type CacheAdmin interface {
	Stats() resultcache.Stats
	Clear()
}

// ReadinessChecker aggregates collaborator checks.
type ReadinessChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	search        Searcher
	documents     DocumentGetter
	cache         CacheAdmin
	health        ReadinessChecker
	version       string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	search Searcher,
	documents DocumentGetter,
	cache CacheAdmin,
	health ReadinessChecker,
	version string,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:    search,
		documents: documents,
		cache:     cache,
		health:    health,
		version:   version,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeNotFound),
	}
	return s
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "invalid request body")
		return
	}

	req, err := request.New(body.Query, body.TopK, body.UseCache)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewSearchResponse(req.Query(), &out))
}

// NewSearchResponse renders a pipeline outcome as the public response body.
func NewSearchResponse(query string, out *searchuc.Outcome) SearchResponse {
	items := make([]HadithItem, len(out.Results))
	for i := range out.Results {
		items[i] = rerankedToItem(&out.Results[i])
	}
	return SearchResponse{
		Query:         query,
		ExpandedQuery: out.ExpandedQuery,
		Results:       items,
		Cached:        out.Cached,
		TookMs:        float64(out.Elapsed) / float64(time.Millisecond),
	}
}

// GetHadith handles GET /hadith/{id}. A direct lookup always scores 1.0.
func (s *Server) GetHadith(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid id")
		return
	}

	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToItem(&doc, 1.0))
}

// CacheStats handles GET /cache/stats.
func (s *Server) CacheStats(w http.ResponseWriter, _ *http.Request) {
	st := s.cache.Stats()
	writeJSON(w, http.StatusOK, CacheStatsResponse{
		Size:    st.Size,
		MaxSize: st.MaxSize,
		Hits:    st.Hits,
		Misses:  st.Misses,
		HitRate: st.HitRate,
	})
}

// ClearCache handles POST /cache/clear.
func (s *Server) ClearCache(w http.ResponseWriter, r *http.Request) {
	s.cache.Clear()
	loggerFrom(r, s.logger).Info("result cache cleared")
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Cache cleared"})
}

// Health handles GET /health. Liveness only: it never touches collaborators.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

// Ready handles GET /ready.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, ReadyResponse{Status: string(report.Status), Checks: checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler maps one sentinel to a status. Validation and not-found
// messages are client-safe and returned verbatim.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if errors.Is(err, domain.ErrValidation) {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := loggerFrom(r, s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Debug("request rejected", zap.Error(err))
			return
		}
	}

	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		log.Error("provider failure", zap.String("provider", pe.Provider), zap.Error(err))
	} else {
		log.Error("internal error", zap.Error(err))
	}
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func rerankedToItem(h *hit.Reranked) HadithItem {
	return documentToItem(&h.Document, h.Score)
}

func documentToItem(d *domdoc.Document, score float64) HadithItem {
	return HadithItem{
		ID:             d.ID(),
		Collection:     string(d.Collection()),
		Volume:         d.Volume(),
		Section:        d.Section(),
		SequenceNumber: d.SequenceNumber(),
		Attribution:    d.Attribution(),
		Text:           d.Body(),
		Score:          score,
	}
}
