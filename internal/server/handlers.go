package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/tether/pkg/buildinfo"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/pipeline"
	"github.com/matzehuels/tether/pkg/scene"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req pipeline.RouteRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, hit, err := s.runner.Route(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cacheHeader(w, hit)
	writeJSON(w, http.StatusOK, resp)
}

// renderRequest is a scene plus render options. Options.Formats may name at
// most one format; the response body is that document.
type renderRequest struct {
	Scene   scene.Scene      `json:"scene"`
	Options pipeline.Options `json:"options"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Options.Formats) > 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "render one format per request"))
		return
	}

	res, err := s.runner.Execute(r.Context(), &req.Scene, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := pipeline.FormatSVG
	if len(req.Options.Formats) == 1 {
		format = req.Options.Formats[0]
	}
	data := res.Artifacts[format]

	cacheHeader(w, res.CacheInfo.RenderHit)
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Scene-Hash", res.SceneHash)
	if !res.CacheInfo.RenderHit {
		w.Header().Set("X-Fallbacks", strconv.Itoa(res.Stats.Fallbacks))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if len(data) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request body is empty, provide DOT content"))
		return
	}
	sc, err := scene.ImportDOT(r.Context(), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}
