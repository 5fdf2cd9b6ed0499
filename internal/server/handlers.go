package server

import (
	"net/http"
	"strconv"

	"github.com/matzehuels/xbar/pkg/buildinfo"
	"github.com/matzehuels/xbar/pkg/crossbar"
	"github.com/matzehuels/xbar/pkg/pipeline"
	"github.com/matzehuels/xbar/pkg/plan"
)

// Content types of the two plan encodings.
const (
	contentTypeJSON  = "application/json"
	contentTypeJSONL = "application/x-ndjson"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	x, err := crossbar.New(terminalsFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan.Summarize(x))
}

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Terminals:    terminalsFrom(r.Context()),
		Format:       q.Get("format"),
		Refresh:      refresh,
		MaxTerminals: s.cfg.limit(),
		CacheTTL:     s.cfg.CacheTTL,
		Logger:       s.logger,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	etag := strconv.Quote(res.ETag)
	h := w.Header()
	h.Set("ETag", etag)
	h.Set("Cache-Control", "public, max-age=86400")
	if res.CacheHit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if res.Format == plan.FormatJSONL {
		h.Set("Content-Type", contentTypeJSONL)
	} else {
		h.Set("Content-Type", contentTypeJSON)
	}
	h.Set("Content-Length", strconv.Itoa(len(res.Artifact)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact)
}

type verifyResponse struct {
	Terminals   int  `json:"terminals"`
	OK          bool `json:"ok"`
	Connections int  `json:"connections"`
	ColumnsUsed int  `json:"columns_used"`
	IntraBlock  int  `json:"intra_block"`
	InterBlock  int  `json:"inter_block"`
	MaxSpan     int  `json:"max_span"`
	MaxBlockGap int  `json:"max_block_gap"`
	MinSplit    int  `json:"min_split_depth"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	rep, err := s.runner.Verify(r.Context(), terminalsFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		Terminals:   rep.Terminals,
		OK:          true,
		Connections: rep.Connections,
		ColumnsUsed: rep.ColumnsUsed,
		IntraBlock:  rep.IntraBlock,
		InterBlock:  rep.InterBlock,
		MaxSpan:     rep.MaxSpan,
		MaxBlockGap: rep.MaxBlockGap,
		MinSplit:    rep.MinSplit,
	})
}
