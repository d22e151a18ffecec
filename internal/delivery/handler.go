// Package delivery exposes the repertoire service over HTTP.
package delivery

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lgbarn/repertoire-go/internal/errors"
	"github.com/lgbarn/repertoire-go/internal/output"
	"github.com/lgbarn/repertoire-go/internal/store"
	"github.com/lgbarn/repertoire-go/internal/trainer"
)

// rootNode names the root position in node paths.
const rootNode = "root"

// RepertoireHandler serves the repertoire routes.
type RepertoireHandler struct {
	svc *trainer.Service
	log *zap.SugaredLogger
}

type createRepertoireRequest struct {
	Name string `json:"name"`
	FEN  string `json:"fen,omitempty"`
}

type setViewRequest struct {
	Node string `json:"node"`
}

type repertoireResponse struct {
	Repertoire store.Repertoire `json:"repertoire"`
	Tree       *output.JSONTree `json:"tree"`
}

// NewRepertoireHandler creates a handler over svc.
func NewRepertoireHandler(svc *trainer.Service, log *zap.SugaredLogger) *RepertoireHandler {
	return &RepertoireHandler{svc: svc, log: log}
}

// Router returns the HTTP routes with request logging and panic recovery.
func (h *RepertoireHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/repertoires", func(r chi.Router) {
		r.Get("/", h.ListRepertoires)
		r.Post("/", h.CreateRepertoire)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetRepertoire)
			r.Get("/stats", h.Stats)
			r.Get("/lines", h.Lines)
			r.Post("/moves", h.Play)
			r.Post("/import", h.Import)
			r.Get("/view", h.GetView)
			r.Put("/view", h.SetView)
			r.Get("/nodes/{node}", h.GetNode)
			r.Get("/nodes/{node}/legal", h.LegalMoves)
			r.Get("/nodes/{node}/transpositions", h.Transpositions)
		})
	})
	return r
}

func (h *RepertoireHandler) ListRepertoires(w http.ResponseWriter, r *http.Request) {
	reps, err := h.svc.Repertoires(r.Context())
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	if reps == nil {
		reps = []store.Repertoire{}
	}
	WriteResponse(w, http.StatusOK, reps)
}

func (h *RepertoireHandler) CreateRepertoire(w http.ResponseWriter, r *http.Request) {
	var req createRepertoireRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.log, err)
		return
	}
	rep, err := h.svc.CreateRepertoire(r.Context(), req.Name, req.FEN)
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	h.log.Infow("repertoire created", "repertoire", rep.ID, "name", rep.Name)
	WriteResponse(w, http.StatusCreated, rep)
}

// GetRepertoire replies with the repertoire and its whole tree.
func (h *RepertoireHandler) GetRepertoire(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := h.svc.Repertoire(r.Context(), id)
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	jt, err := h.svc.Export(r.Context(), id)
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	WriteResponse(w, http.StatusOK, repertoireResponse{Repertoire: rep, Tree: jt})
}

func (h *RepertoireHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	WriteResponse(w, http.StatusOK, stats)
}

// Lines lists the lines matching the "moves", "material" and "exact"
// query parameters.
func (h *RepertoireHandler) Lines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := trainer.SearchRequest{
		Moves:         q.Get("moves"),
		Material:      q.Get("material"),
		ExactMaterial: q.Get("exact") == "true",
	}
	lines, err := h.svc.Search(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	WriteResponse(w, http.StatusOK, lines)
}

// Play records a move. A move kept in the tree but not persisted is still
// answered with 200 and "synced": false.
func (h *RepertoireHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req trainer.PlayRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.log, err)
		return
	}
	req.Parent = nodeParam(req.Parent)

	res, err := h.svc.Play(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil && !(res != nil && errors.Is(err, errors.ErrStoreSync)) {
		WriteError(w, h.log, err)
		return
	}
	status := http.StatusOK
	if res.IsNew && res.Synced {
		status = http.StatusCreated
	}
	WriteResponse(w, status, res)
}

// Import adds the PGN movetext in the request body. Like Play, a store
// failure is answered with 200 and "synced": false.
func (h *RepertoireHandler) Import(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.svc.Import(r.Context(), id, io.LimitReader(r.Body, maxBodyBytes))
	if err != nil && !(res != nil && errors.Is(err, errors.ErrStoreSync)) {
		WriteError(w, h.log, err)
		return
	}
	status := http.StatusOK
	if res.NewMoves > 0 && res.Synced {
		status = http.StatusCreated
	}
	h.log.Infow("movetext imported", "repertoire", id, "lines", res.Lines, "new", res.NewMoves)
	WriteResponse(w, status, res)
}

func (h *RepertoireHandler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	WriteResponse(w, http.StatusOK, view)
}

func (h *RepertoireHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req setViewRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, h.log, err)
		return
	}
	view, err := h.svc.SetView(r.Context(), chi.URLParam(r, "id"), nodeParam(req.Node))
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	WriteResponse(w, http.StatusOK, view)
}

func (h *RepertoireHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Node(r.Context(), chi.URLParam(r, "id"), nodeParam(chi.URLParam(r, "node")))
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	WriteResponse(w, http.StatusOK, view)
}

// LegalMoves lists legal moves at a node, from the square in the "from"
// query parameter or from every square when it is absent.
func (h *RepertoireHandler) LegalMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := h.svc.LegalMoves(r.Context(), chi.URLParam(r, "id"),
		nodeParam(chi.URLParam(r, "node")), r.URL.Query().Get("from"))
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	WriteResponse(w, http.StatusOK, moves)
}

func (h *RepertoireHandler) Transpositions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.Transpositions(r.Context(), chi.URLParam(r, "id"), nodeParam(chi.URLParam(r, "node")))
	if err != nil {
		WriteError(w, h.log, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	WriteResponse(w, http.StatusOK, ids)
}

func nodeParam(node string) string {
	if node == rootNode {
		return ""
	}
	return node
}
