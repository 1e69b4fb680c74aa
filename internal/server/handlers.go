package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/matzehuels/tmdlayout/pkg/buildinfo"
	"github.com/matzehuels/tmdlayout/pkg/cache"
	"github.com/matzehuels/tmdlayout/pkg/engine"
	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/model"
	"github.com/matzehuels/tmdlayout/pkg/pipeline"
)

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Name          string                      `json:"name,omitempty"`
	Tables        []string                    `json:"tables"`
	Relationships []model.Relationship        `json:"relationships"`
	Hints         map[string]model.TableHints `json:"hints,omitempty"`
	CanvasWidth   int                         `json:"canvas_width,omitempty"`
	CanvasHeight  int                         `json:"canvas_height,omitempty"`
	Format        string                      `json:"format,omitempty"`
}

// digest hashes the fields that determine the layout. encoding/json sorts
// map keys, so equal requests hash equally.
func (req *LayoutRequest) digest() string {
	data, err := json.Marshal(struct {
		Tables        []string                    `json:"tables"`
		Relationships []model.Relationship        `json:"relationships"`
		Hints         map[string]model.TableHints `json:"hints"`
	}{req.Tables, req.Relationships, req.Hints})
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	var req LayoutRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body"))
		return
	}
	format, err := layout.ParseFormat(req.Format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.opts
	if req.CanvasWidth != 0 {
		opts.CanvasWidth = req.CanvasWidth
	}
	if req.CanvasHeight != 0 {
		opts.CanvasHeight = req.CanvasHeight
	}
	opts.Formats = []layout.Format{format}

	mreq := pipeline.ModelRequest{
		Name:   req.Name,
		Digest: req.digest(),
		Input: engine.Input{
			Tables:        req.Tables,
			Relationships: req.Relationships,
			Hints:         req.Hints,
		},
	}
	res, err := s.runner.ExecuteRequest(r.Context(), mreq, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	if res.CacheInfo.LayoutHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "json" {
		s.writeJSON(w, http.StatusOK, s.opts.Profile)
		return
	}
	var buf bytes.Buffer
	if err := s.opts.Profile.Encode(&buf); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode profile"))
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.IsInputError(err) {
		status = http.StatusBadRequest
	}
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("layout request failed", "err", err)
	}
	s.writeJSON(w, status, body)
}

func contentType(f layout.Format) string {
	if f == layout.FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}
