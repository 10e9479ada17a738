package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/depscope/depscope/pkg/depgraph"
	"github.com/depscope/depscope/pkg/document"
	"github.com/depscope/depscope/pkg/errors"
	"github.com/depscope/depscope/pkg/observability"
	"github.com/depscope/depscope/pkg/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	var doc document.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeMalformedDocument, err, "decode request body"))
		return
	}
	// Reject documents that do not form a valid graph before storing them.
	if _, err := doc.ToGraph(); err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.store.Put(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	summary := rec
	summary.Doc = document.Document{}
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Doc)
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, "packages", "", func(g *depgraph.Graph) (any, error) {
		return map[string]any{
			"root":     g.RootPackage(),
			"packages": g.DependencyPackages(),
		}, nil
	})
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, "cycles", "", func(g *depgraph.Graph) (any, error) {
		return map[string]bool{"hasCycles": g.HasCycles()}, nil
	})
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	pkg, err := pkgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveQuery(w, r, "paths", pkg.String(), func(g *depgraph.Graph) (any, error) {
		paths, err := g.PathsToRoot(pkg)
		if err != nil {
			return nil, err
		}
		if paths == nil {
			paths = []depgraph.Path{}
		}
		return map[string]any{"count": len(paths), "paths": paths}, nil
	})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	pkg, err := pkgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveQuery(w, r, "count", pkg.String(), func(g *depgraph.Graph) (any, error) {
		count, err := g.CountPathsToRoot(pkg)
		if err != nil {
			return nil, err
		}
		return map[string]int{"count": count}, nil
	})
}

func (s *Server) handleWhy(w http.ResponseWriter, r *http.Request) {
	pkg, err := pkgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveQuery(w, r, "why", pkg.String(), func(g *depgraph.Graph) (any, error) {
		direct, err := g.DirectDependenciesLeadingTo(pkg)
		if err != nil {
			return nil, err
		}
		if direct == nil {
			direct = []depgraph.Occurrence{}
		}
		return map[string]any{"direct": direct}, nil
	})
}

// serveQuery loads the stored graph, runs the query with result caching by
// document hash, and writes the JSON response.
func (s *Server) serveQuery(w http.ResponseWriter, r *http.Request, query, params string, run func(*depgraph.Graph) (any, error)) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	key := s.keyer.AnalysisKey(rec.Hash, query, params)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "analysis")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "analysis")

	start := time.Now()
	observability.Query().OnQueryStart(ctx, query, id)

	g, err := rec.Doc.ToGraph()
	if err == nil {
		var result any
		result, err = run(g)
		if err == nil {
			data, mErr := json.Marshal(result)
			if mErr != nil {
				err = errors.Wrap(errors.ErrCodeInternal, mErr, "encode result")
			} else {
				if cErr := s.cache.Set(ctx, key, data, s.cacheTTL); cErr == nil {
					observability.Cache().OnCacheSet(ctx, "analysis", len(data))
				}
				observability.Query().OnQueryComplete(ctx, query, id, time.Since(start), nil)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(data)
				return
			}
		}
	}
	observability.Query().OnQueryComplete(ctx, query, id, time.Since(start), err)
	writeError(w, err)
}

// pkgParam parses the required "pkg" query parameter as name or name@version.
// The split is at the last "@" so scoped names like "@scope/pkg" survive.
func pkgParam(r *http.Request) (depgraph.Package, error) {
	raw := r.URL.Query().Get("pkg")
	if raw == "" {
		return depgraph.Package{}, errors.New(errors.ErrCodeInvalidInput, "missing pkg query parameter")
	}
	return depgraph.ParsePackage(raw), nil
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps structured error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeUnknownNode, errors.ErrCodeUnknownPackage:
		status = http.StatusNotFound
	case errors.ErrCodeCyclicGraph:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeMalformedDocument, errors.ErrCodeIncompatibleSchema,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPackage, errors.ErrCodeInvalidGraph:
		status = http.StatusBadRequest
	}

	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
