package repertoire

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/practicetrack/internal/telemetry/tracing"
	"github.com/2beens/practicetrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=repertoire_test

type piecesRepo interface {
	Add(ctx context.Context, piece Piece) (*Piece, error)
	Get(ctx context.Context, id int) (*Piece, error)
	List(ctx context.Context, status Status) ([]Piece, error)
	Update(ctx context.Context, piece *Piece) error
	Delete(ctx context.Context, id int) error
}

type ListPiecesResponse struct {
	Pieces []Piece `json:"pieces"`
	Total  int     `json:"total"`
}

type Handler struct {
	repo piecesRepo
}

func NewHandler(repo piecesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.repertoire.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var piece Piece
	if err := json.NewDecoder(r.Body).Decode(&piece); err != nil {
		log.Tracef("new piece, unmarshal json params: %s", err)
		http.Error(w, "add piece failed", http.StatusBadRequest)
		return
	}

	if piece.Title == "" {
		http.Error(w, "error, title empty", http.StatusBadRequest)
		return
	}
	if piece.Status == "" {
		piece.Status = StatusLearning
	}
	if !piece.Status.IsValid() {
		http.Error(w, "error, invalid status", http.StatusBadRequest)
		return
	}

	addedPiece, err := handler.repo.Add(ctx, piece)
	if err != nil {
		log.Errorf("failed to add new piece [%s]: %s", piece.Title, err)
		http.Error(w, "error, failed to add new piece", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(addedPiece)
	if err != nil {
		log.Errorf("failed to marshal new piece: %s", err)
		http.Error(w, "error, failed to add new piece", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.repertoire.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	piece, err := handler.repo.Get(ctx, id)
	if errors.Is(err, ErrPieceNotFound) {
		http.Error(w, "piece not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get piece %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pieceJson, err := json.Marshal(piece)
	if err != nil {
		log.Errorf("failed to marshal piece: %s", err)
		http.Error(w, "failed to marshal piece", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, pieceJson)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.repertoire.list")
	defer span.End()

	status := Status(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		http.Error(w, "error, invalid status", http.StatusBadRequest)
		return
	}

	pieces, err := handler.repo.List(ctx, status)
	if err != nil {
		log.Errorf("list pieces error: %s", err)
		http.Error(w, "failed to get pieces", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListPiecesResponse{
		Pieces: pieces,
		Total:  len(pieces),
	})
	if err != nil {
		log.Errorf("marshal pieces error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.repertoire.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var piece Piece
	if err := json.NewDecoder(r.Body).Decode(&piece); err != nil {
		log.Errorf("update piece, unmarshal json params: %s", err)
		http.Error(w, "update piece failed", http.StatusBadRequest)
		return
	}
	if piece.Title == "" || !piece.Status.IsValid() {
		http.Error(w, "error, invalid piece", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, &piece); errors.Is(err, ErrPieceNotFound) {
		http.Error(w, "piece not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to update piece %d: %s", piece.ID, err)
		http.Error(w, "error, failed to update piece", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"updated":true}`)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.repertoire.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); errors.Is(err, ErrPieceNotFound) {
		http.Error(w, "piece not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to delete piece %d: %s", id, err)
		http.Error(w, "piece not deleted", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"deleted":true}`)
}
