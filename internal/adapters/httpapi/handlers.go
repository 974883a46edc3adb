package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/zerr"
)

// GenericErrorMessage is the only error text returned for unexpected failures.
const GenericErrorMessage = "An error occurred while processing the knowledge graph request."

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Response is the envelope of every API reply.
type Response struct {
	Status   string `json:"status"`
	Data     any    `json:"data,omitempty"`
	Metadata any    `json:"metadata,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GraphMetadata summarizes a graph response.
type GraphMetadata struct {
	NodesCount int  `json:"nodes_count"`
	EdgesCount int  `json:"edges_count"`
	HasErrors  bool `json:"has_errors"`
}

// LinksMetadata summarizes a parse result response.
type LinksMetadata struct {
	InternalCount int  `json:"internal_links_count"`
	ExternalCount int  `json:"external_links_count"`
	HasErrors     bool `json:"has_errors"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.write(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	depth, err := queryDepth(q)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	refresh, err := queryRefresh(q)
	if err != nil {
		s.badRequest(w, err)
		return
	}

	if post := q.Get("post"); post != "" {
		s.graph(w, s.service.PostGraph(r.Context(), post, depth, refresh))
		return
	}
	s.graph(w, s.service.BuildKnowledgeGraph(r.Context(), refresh))
}

func (s *Server) postGraph(w http.ResponseWriter, r *http.Request) {
	var req graphRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.badRequest(w, zerr.Wrap(err, domain.ErrInvalidRequest.Error()))
		return
	}
	if err := s.validateRequest(&req); err != nil {
		s.badRequest(w, err)
		return
	}

	switch req.Operation {
	case OpRefresh:
		s.graph(w, s.service.BuildKnowledgeGraph(r.Context(), true))
	case OpPostGraph:
		depth := req.Depth
		if depth == 0 {
			depth = 1
		}
		s.graph(w, s.service.PostGraph(r.Context(), req.TemplateName, depth, false))
	default:
		s.graph(w, s.service.BuildKnowledgeGraph(r.Context(), false))
	}
}

func (s *Server) postLinks(w http.ResponseWriter, r *http.Request) {
	refresh, err := queryRefresh(r.URL.Query())
	if err != nil {
		s.badRequest(w, err)
		return
	}

	res := s.service.ParseBlogPost(r.Context(), chi.URLParam(r, "slug"), refresh)
	s.write(w, http.StatusOK, Response{
		Status: statusSuccess,
		Data:   res,
		Metadata: LinksMetadata{
			InternalCount: len(res.InternalLinks),
			ExternalCount: len(res.ExternalLinks),
			HasErrors:     res.Failed(),
		},
	})
}

func (s *Server) graph(w http.ResponseWriter, g *domain.Graph) {
	if g == nil {
		g = domain.EmptyGraph()
	}
	s.write(w, http.StatusOK, Response{
		Status: statusSuccess,
		Data:   g,
		Metadata: GraphMetadata{
			NodesCount: len(g.Nodes),
			EdgesCount: len(g.Edges),
			HasErrors:  g.HasErrors(),
		},
	})
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.write(w, http.StatusBadRequest, Response{Status: statusError, Error: err.Error()})
}

func (s *Server) internalError(w http.ResponseWriter) {
	s.write(w, http.StatusInternalServerError, Response{Status: statusError, Error: GenericErrorMessage})
}

// write encodes before writing the header so an encoding failure can still become a 500.
func (s *Server) write(w http.ResponseWriter, status int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to encode response"))
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(Response{Status: statusError, Error: GenericErrorMessage})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
