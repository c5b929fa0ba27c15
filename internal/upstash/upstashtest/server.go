// Package upstashtest provides an in-memory fake of the search REST API.
package upstashtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/cloo-solutions/docsearch/internal/domain"
	"github.com/go-chi/chi/v5"
)

// Server is a fake search service backed by a map per namespace.
type Server struct {
	*httptest.Server

	token string

	mu         sync.Mutex
	namespaces map[string]map[string]domain.IndexRecord
	resets     map[string]int
	failIDs    map[string]bool
	failReset  bool
}

// NewServer starts a fake service that accepts token as bearer credentials.
// Call Close when done.
func NewServer(token string) *Server {
	s := &Server{
		token:      token,
		namespaces: make(map[string]map[string]domain.IndexRecord),
		resets:     make(map[string]int),
		failIDs:    make(map[string]bool),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.auth)

	r.Delete("/reset/*", s.handleReset)
	r.Post("/upsert-data/*", s.handleUpsert)
	r.Post("/search/*", s.handleSearch)

	return r
}

// FailUpsertsFor makes any upsert containing id answer 500.
func (s *Server) FailUpsertsFor(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failIDs[id] = true
}

// FailResets makes every reset answer 503.
func (s *Server) FailResets() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReset = true
}

// Seed stores records in namespace without going through the API.
func (s *Server) Seed(namespace string, records ...domain.IndexRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := s.namespaceLocked(namespace)
	for _, rec := range records {
		ns[rec.ID] = rec
	}
}

// Records returns the records of namespace sorted by ID.
func (s *Server) Records(namespace string) []domain.IndexRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.IndexRecord, 0, len(s.namespaces[namespace]))
	for _, rec := range s.namespaces[namespace] {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns the record IDs of namespace, sorted.
func (s *Server) IDs(namespace string) []string {
	records := s.Records(namespace)
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}

// Resets returns how many times namespace was reset.
func (s *Server) Resets(namespace string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets[namespace]
}

func (s *Server) namespaceLocked(name string) map[string]domain.IndexRecord {
	ns, ok := s.namespaces[name]
	if !ok {
		ns = make(map[string]domain.IndexRecord)
		s.namespaces[name] = ns
	}
	return ns
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "*")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReset {
		writeError(w, http.StatusServiceUnavailable, "reset unavailable")
		return
	}
	s.namespaces[namespace] = make(map[string]domain.IndexRecord)
	s.resets[namespace]++
	writeResult(w, "Success")
}

func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "*")

	var records []domain.IndexRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if s.failIDs[rec.ID] {
			writeError(w, http.StatusInternalServerError, "upsert failed for "+rec.ID)
			return
		}
	}
	ns := s.namespaceLocked(namespace)
	for _, rec := range records {
		ns[rec.ID] = rec
	}
	writeResult(w, "Success")
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

// handleSearch ranks records by how many query terms their title and content
// contain. Ties are broken by ID.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "*")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	terms := strings.Fields(strings.ToLower(req.Query))

	s.mu.Lock()
	var results []domain.SearchResult
	for _, rec := range s.namespaces[namespace] {
		text := strings.ToLower(rec.Content.Title + " " + rec.Content.Content)
		hits := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			ID:       rec.ID,
			Score:    float64(hits) / float64(len(terms)),
			Content:  rec.Content,
			Metadata: rec.Metadata,
		})
	}
	s.mu.Unlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if req.TopK > 0 && len(results) > req.TopK {
		results = results[:req.TopK]
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeResult(w, results)
}

func writeResult(w http.ResponseWriter, result interface{}) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": result})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
