package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/cadence/internal/api/shared"
	"github.com/phrazzld/cadence/internal/domain"
	"github.com/phrazzld/cadence/internal/domain/srs"
	"github.com/phrazzld/cadence/internal/events"
	"github.com/phrazzld/cadence/internal/platform/logger"
	"github.com/phrazzld/cadence/internal/redact"
)

// ScheduleHandler handles scheduling HTTP requests
type ScheduleHandler struct {
	scheduler srs.Service
	emitter   events.EventEmitter
	clock     func() time.Time
	logger    *slog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler. A nil clock means
// time.Now; a nil emitter disables review events.
func NewScheduleHandler(
	scheduler srs.Service,
	emitter events.EventEmitter,
	clock func() time.Time,
	logger *slog.Logger,
) *ScheduleHandler {
	if scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler cannot be nil for ScheduleHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ScheduleHandler")
	}
	if clock == nil {
		clock = time.Now
	}

	return &ScheduleHandler{
		scheduler: scheduler,
		emitter:   emitter,
		clock:     clock,
		logger:    logger.With(slog.String("component", "schedule_handler")),
	}
}

// Grade handles POST /api/schedule/grade requests.
// It applies one grading event and returns the updated record.
func (h *ScheduleHandler) Grade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GradeRequest
	if !h.decode(w, r, &req, log) {
		return
	}

	grade, err := domain.ParseGrade(req.Grade)
	if err != nil {
		log.Debug("rejected grade", slog.String("grade", req.Grade))
		h.respondError(w, r, err)
		return
	}

	scheduler := h.schedulerFor(req.Config)
	now := h.now(req.Now)

	next, err := scheduler.ApplyGrade(req.Progress, grade, req.LatencyMs, now)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	interval := next.DueAt.Sub(now)
	stage := scheduler.Stage(req.Progress)

	log.Debug("grade applied",
		slog.String("grade", string(grade)),
		slog.Int("stage", int(stage)),
		slog.Duration("interval", interval),
		slog.Int("penalty_level", next.PenaltyLevel))

	event := events.NewReviewEvent(events.TypeGraded, next, now)
	event.Grade = grade
	event.LatencyMs = req.LatencyMs
	h.emit(r, event, log)

	shared.RespondWithJSON(w, r, http.StatusOK, GradeResponse{
		Progress:       next,
		Stage:          int(stage),
		NextIntervalMs: interval.Milliseconds(),
		Label:          srs.FormatDuration(interval),
	})
}

// Preview handles POST /api/schedule/preview requests.
// It reports what every grade would do without changing the record.
func (h *ScheduleHandler) Preview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req PreviewRequest
	if !h.decode(w, r, &req, log) {
		return
	}

	scheduler := h.schedulerFor(req.Config)
	options := scheduler.PreviewAll(req.Progress, h.now(req.Now))

	resp := PreviewResponse{
		Stage:   int(scheduler.Stage(req.Progress)),
		Options: make([]PreviewOption, 0, len(options)),
	}
	for _, o := range options {
		resp.Options = append(resp.Options, PreviewOption{
			Grade:      o.Grade,
			IntervalMs: o.Interval.Milliseconds(),
			Label:      o.Label,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Introduce handles POST /api/schedule/introduce requests.
// It returns a fresh record due immediately.
func (h *ScheduleHandler) Introduce(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req IntroduceRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	now := h.now(req.Now)
	progress := h.schedulerFor(req.Config).Introduce(now)
	h.emit(r, events.NewReviewEvent(events.TypeIntroduced, progress, now), log)

	shared.RespondWithJSON(w, r, http.StatusCreated, ProgressResponse{Progress: progress})
}

// Postpone handles POST /api/schedule/postpone requests.
// It pushes the due time forward by whole days without counting a review.
func (h *ScheduleHandler) Postpone(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req PostponeRequest
	if !h.decode(w, r, &req, log) {
		return
	}

	now := h.now(req.Now)
	next, err := h.schedulerFor(req.Config).PostponeReview(req.Progress, req.Days, now)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.emit(r, events.NewReviewEvent(events.TypePostponed, next, now), log)

	log.Debug("review postponed", slog.Int("days", req.Days), slog.Time("due_at", next.DueAt))
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressResponse{Progress: next})
}

// Params handles GET /api/schedule/params requests.
func (h *ScheduleHandler) Params(w http.ResponseWriter, r *http.Request) {
	params := h.scheduler.Params()
	shared.RespondWithJSON(w, r, http.StatusOK, ParamsResponse{
		Params:   params,
		Timezone: params.Location.String(),
	})
}

// decode reads and validates the body, writing a 400 on failure.
func (h *ScheduleHandler) decode(
	w http.ResponseWriter,
	r *http.Request,
	req interface{},
	log *slog.Logger,
) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		if errors.Is(err, shared.ErrEmptyBody) {
			h.respondError(w, r, err)
			return false
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}

	return true
}

// emit publishes event. Subscriber failures are logged and never fail the
// request.
func (h *ScheduleHandler) emit(r *http.Request, event *events.ReviewEvent, log *slog.Logger) {
	if h.emitter == nil {
		return
	}
	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		log.Warn("review event not fully delivered",
			slog.String("event_type", event.Type),
			slog.String("error", redact.Error(err)))
	}
}

func (h *ScheduleHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

func (h *ScheduleHandler) schedulerFor(config *srs.ParamsConfig) srs.Service {
	if config == nil {
		return h.scheduler
	}
	return h.scheduler.WithOverrides(*config)
}

func (h *ScheduleHandler) now(override *time.Time) time.Time {
	if override != nil && !override.IsZero() {
		return *override
	}
	return h.clock()
}
