package practice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/practicetrack/internal/practice/analytics"
	"github.com/2beens/practicetrack/internal/telemetry/tracing"
	"github.com/2beens/practicetrack/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	statsCacheTTLSeconds    = 60
	intradayCacheTTLSeconds = 30
)

type RangeStatsResponse struct {
	Range  analytics.RangeToken       `json:"range"`
	Points []analytics.DailyDataPoint `json:"points"`
	Delta  analytics.Delta            `json:"delta"`
}

type LiveAverageResponse struct {
	Average        float64 `json:"average"`
	HoursToday     float64 `json:"hoursToday"`
	TodayDayNumber int     `json:"todayDayNumber"`
}

// StatsHandler serves the analytics surface: lifetime aggregation, chart
// range windows, the intraday curve and the live in-session average. Reads
// are public, so responses are cached; writes elsewhere clear the cache.
type StatsHandler struct {
	repo       sessionsRepo
	statsCache *freecache.Cache
	filterCfg  analytics.FilterConfig
	loc        *time.Location
	now        func() time.Time
}

func NewStatsHandler(
	repo sessionsRepo,
	statsCache *freecache.Cache,
	filterCfg analytics.FilterConfig,
	loc *time.Location,
) *StatsHandler {
	return &StatsHandler{
		repo:       repo,
		statsCache: statsCache,
		filterCfg:  filterCfg,
		loc:        loc,
		now:        time.Now,
	}
}

func (handler *StatsHandler) aggregate(ctx context.Context) (*analytics.Result, []Session, error) {
	sessions, err := handler.repo.ListAll(ctx, SessionParams{})
	if err != nil {
		return nil, nil, err
	}
	res, err := analytics.Aggregate(AnalyticsSessions(sessions), handler.now(), handler.loc)
	if err != nil {
		return nil, nil, err
	}
	return res, sessions, nil
}

func (handler *StatsHandler) cachedResponse(key string) ([]byte, bool) {
	if handler.statsCache == nil {
		return nil, false
	}
	cached, err := handler.statsCache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return cached, true
}

func (handler *StatsHandler) cacheResponse(key string, respJson []byte, ttlSeconds int) {
	if handler.statsCache == nil {
		return
	}
	if err := handler.statsCache.Set([]byte(key), respJson, ttlSeconds); err != nil {
		log.Warnf("failed to cache stats response [%s]: %s", key, err)
	}
}

// HandleStats returns the full lifetime series plus totals.
func (handler *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.practice.stats")
	defer span.End()

	if cached, ok := handler.cachedResponse("stats"); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	res, _, err := handler.aggregate(ctx)
	if errors.Is(err, analytics.ErrNoData) {
		http.Error(w, "no practice data", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("get practice stats: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(res)
	if err != nil {
		log.Errorf("marshal practice stats: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	handler.cacheResponse("stats", respJson, statsCacheTTLSeconds)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleRangeStats returns the windowed, possibly downsampled series for one
// chart range token, with the delta over the window.
func (handler *StatsHandler) HandleRangeStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.practice.rangestats")
	defer span.End()

	token, err := analytics.ParseRangeToken(mux.Vars(r)["range"])
	if err != nil {
		http.Error(w, "invalid range", http.StatusBadRequest)
		return
	}

	cacheKey := "stats:range:" + string(token)
	if cached, ok := handler.cachedResponse(cacheKey); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	res, _, err := handler.aggregate(ctx)
	if errors.Is(err, analytics.ErrNoData) {
		http.Error(w, "no practice data", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("get practice range stats: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	points := analytics.WindowPoints(res.Daily, token, res.EndDay, handler.filterCfg)
	respJson, err := json.Marshal(RangeStatsResponse{
		Range:  token,
		Points: points,
		Delta:  analytics.ComputeDelta(points),
	})
	if err != nil {
		log.Errorf("marshal practice range stats: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	handler.cacheResponse(cacheKey, respJson, statsCacheTTLSeconds)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleIntraday returns the reconstructed average-in-progress curve for
// today. With no history at all the curve is legitimately empty, not a 404.
func (handler *StatsHandler) HandleIntraday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.practice.intraday")
	defer span.End()

	if cached, ok := handler.cachedResponse("stats:intraday"); ok {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	now := handler.now()
	today := analytics.DayOf(now, handler.loc)

	result := analytics.IntradayResult{Points: []analytics.IntradayPoint{}}
	res, sessions, err := handler.aggregate(ctx)
	if err != nil && !errors.Is(err, analytics.ErrNoData) {
		log.Errorf("get practice intraday stats: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err == nil {
		todaySessions := make([]Session, 0)
		for _, s := range sessions {
			if analytics.DayOf(s.StartedAt, handler.loc) == today {
				todaySessions = append(todaySessions, s)
			}
		}
		result = analytics.ReconstructIntraday(
			res.Daily, AnalyticsSessions(todaySessions),
			today, now, handler.loc,
		)
	}

	respJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("marshal practice intraday stats: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	handler.cacheResponse("stats:intraday", respJson, intradayCacheTTLSeconds)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleLiveAverage projects the lifetime average for an in-flight practice
// timer that has not been saved yet. The elapsed time comes from the client
// and is floored to the whole minute so the projected value does not flicker
// on every request. Never cached: every call carries fresh elapsed time.
func (handler *StatsHandler) HandleLiveAverage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.practice.liveaverage")
	defer span.End()

	elapsedSeconds, err := strconv.Atoi(r.URL.Query().Get("elapsed_seconds"))
	if err != nil || elapsedSeconds < 0 {
		http.Error(w, "invalid elapsed_seconds", http.StatusBadRequest)
		return
	}

	res, sessions, err := handler.aggregate(ctx)
	if errors.Is(err, analytics.ErrNoData) {
		http.Error(w, "no practice data", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("get practice live average: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	now := handler.now()
	today := analytics.DayOf(now, handler.loc)
	var savedHoursToday float64
	for _, s := range sessions {
		if analytics.DayOf(s.StartedAt, handler.loc) == today {
			savedHoursToday += s.Hours()
		}
	}

	// the daily series always reaches today, so the last point is today and
	// the baseline is everything before it
	baselineCumHours := res.TotalHours - savedHoursToday
	timerHours := float64((elapsedSeconds/60)*60) / 3600
	hoursToday := savedHoursToday + timerHours

	respJson, err := json.Marshal(LiveAverageResponse{
		Average:        analytics.AverageWithHours(baselineCumHours, res.TotalDays, hoursToday),
		HoursToday:     hoursToday,
		TodayDayNumber: res.TotalDays,
	})
	if err != nil {
		log.Errorf("marshal practice live average: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
