package practice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/practicetrack/internal/telemetry/metrics"
	"github.com/2beens/practicetrack/internal/telemetry/tracing"
	"github.com/2beens/practicetrack/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=practice_test

type sessionsRepo interface {
	Add(ctx context.Context, session Session) (*Session, error)
	Get(ctx context.Context, id int) (*Session, error)
	List(ctx context.Context, params ListParams) (_ []Session, total int, err error)
	ListAll(ctx context.Context, params SessionParams) ([]Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, params SessionParams) (int, error)
}

type AddSessionResponse struct {
	Session
	CountToday int `json:"countToday"`
}

type ListResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

type DeleteSessionResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateSessionResponse struct {
	UpdatedID int `json:"updatedId"`
}

// Handler serves the practice session CRUD surface. Every write clears the
// stats cache so the charts pick the change up on the next request.
type Handler struct {
	repo           sessionsRepo
	statsCache     *freecache.Cache
	metricsManager *metrics.Manager
}

func NewHandler(repo sessionsRepo, statsCache *freecache.Cache, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		statsCache:     statsCache,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) invalidateStats() {
	if handler.statsCache != nil {
		handler.statsCache.Clear()
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.practice.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Tracef("new session, unmarshal json params: %s", err)
		http.Error(w, "add session failed", http.StatusBadRequest)
		return
	}

	if session.StartedAt.IsZero() {
		http.Error(w, "error, started at empty", http.StatusBadRequest)
		return
	}
	if session.DurationSeconds < 0 {
		http.Error(w, "error, negative duration", http.StatusBadRequest)
		return
	}
	if session.Source == "" {
		session.Source = SourceManual
	}
	if !session.Source.IsValid() {
		http.Error(w, "error, invalid source", http.StatusBadRequest)
		return
	}

	addedSession, err := handler.repo.Add(ctx, session)
	if err != nil {
		log.Errorf("failed to add new session [%s]: %s", session.StartedAt, err)
		http.Error(w, "error, failed to add new session", http.StatusInternalServerError)
		return
	}

	handler.invalidateStats()
	if handler.metricsManager != nil {
		handler.metricsManager.CounterSessionsAdded.Inc()
	}

	dayStart := addedSession.StartedAt.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)
	countToday, err := handler.repo.Count(ctx, SessionParams{
		From: &dayStart,
		To:   &dayEnd,
	})
	if err != nil {
		// just log the error, no need to return error to the client
		log.Errorf("failed to count sessions for %s: %s", dayStart, err)
	}

	respJson, err := json.Marshal(AddSessionResponse{
		Session:    *addedSession,
		CountToday: countToday,
	})
	if err != nil {
		log.Errorf("failed to marshal new session: %s", err)
		http.Error(w, "error, failed to add new session", http.StatusInternalServerError)
		return
	}

	log.Debugf("new session added: %s", respJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.practice.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	session, err := handler.repo.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get session %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("failed to marshal session: %s", err)
		http.Error(w, "failed to marshal session", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionJson)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.practice.list")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}
	if page < 1 || size < 1 {
		http.Error(w, "invalid page or size (must be non-zero)", http.StatusBadRequest)
		return
	}

	listParams := ListParams{
		SessionParams: SessionParams{
			Source: Source(r.URL.Query().Get("source")),
		},
		Page: page,
		Size: size,
	}

	sessions, total, err := handler.repo.List(ctx, listParams)
	if err != nil {
		log.Errorf("list sessions error: %s", err)
		http.Error(w, "failed to get sessions", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(ListResponse{
		Sessions: sessions,
		Total:    total,
	})
	if err != nil {
		log.Errorf("marshal sessions error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.practice.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Errorf("update session, unmarshal json params: %s", err)
		http.Error(w, "update session failed", http.StatusBadRequest)
		return
	}
	if session.StartedAt.IsZero() || session.DurationSeconds < 0 {
		http.Error(w, "error, invalid session", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(ctx, &session); errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to update session %d: %s", session.ID, err)
		http.Error(w, "error, failed to update session", http.StatusInternalServerError)
		return
	}

	handler.invalidateStats()

	respJson, err := json.Marshal(UpdateSessionResponse{UpdatedID: session.ID})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.practice.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, id); errors.Is(err, ErrSessionNotFound) {
		log.Debugf("session %d not found", id)
		http.Error(w, "session not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to delete session %d: %s", id, err)
		http.Error(w, "session not deleted", http.StatusInternalServerError)
		return
	}

	handler.invalidateStats()

	respJson, err := json.Marshal(DeleteSessionResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respJson))
}
