package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"schedsim/config"
	"schedsim/internal/core"
	"schedsim/internal/engine"
	"schedsim/internal/export"
	"schedsim/internal/metrics"
	"schedsim/internal/requests"
	"schedsim/internal/responses"
	"schedsim/internal/schedulers"
	"schedsim/internal/store"
)

// SchedulerHandler is the HTTP surface of the scheduling engine.
type SchedulerHandler interface {
	Schedule(ctx *fiber.Ctx) error
	ScheduleAll(ctx *fiber.Ctx) error
	Algorithms(ctx *fiber.Ctx) error
	ListRuns(ctx *fiber.Ctx) error
	GetRun(ctx *fiber.Ctx) error
	ExportRun(ctx *fiber.Ctx) error
}

// SchedulerHandlerImpl serves simulations over HTTP. The store may be
// nil, in which case run persistence is disabled.
type SchedulerHandlerImpl struct {
	config *config.SchedulerConfig
	store  *store.Store
	logger *slog.Logger
}

func NewSchedulerHandlerImpl(cfg *config.SchedulerConfig, st *store.Store, logger *slog.Logger) *SchedulerHandlerImpl {
	return &SchedulerHandlerImpl{config: cfg, store: st, logger: logger.With("component", "api")}
}

// Register mounts all routes under the given router group.
func (s *SchedulerHandlerImpl) Register(v1 fiber.Router) {
	v1.Get("/algorithms", s.Algorithms)
	v1.Post("/schedule/all", s.ScheduleAll)
	v1.Post("/schedule/:algorithm", s.Schedule)
	v1.Get("/runs", s.ListRuns)
	v1.Get("/runs/:id", s.GetRun)
	v1.Get("/runs/:id/export", s.ExportRun)
}

// simOutcome bundles everything one simulation produced.
type simOutcome struct {
	resp      responses.ScheduleResponse
	record    *metrics.Record
	processes []core.Process
}

// Schedule runs one algorithm over the submitted process set.
func (s *SchedulerHandlerImpl) Schedule(ctx *fiber.Ctx) error {
	var request requests.ScheduleRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	alg := schedulers.Algorithm(ctx.Params("algorithm"))
	out, err := s.simulate(ctx, alg, &request)
	if err != nil {
		return s.fail(ctx, err)
	}

	if request.Save && s.store != nil {
		id, err := s.store.SaveRun(ctx.Context(), &store.Run{
			Algorithm: alg,
			Processes: out.processes,
			Segments:  out.resp.Gantt,
			Metrics:   out.record,
		})
		if err != nil {
			s.logger.Error("persist run", "algorithm", alg, "error", err)
		} else {
			out.resp.RunID = id
		}
	}
	return ctx.JSON(out.resp)
}

// ScheduleAll runs every algorithm over clones of the same process set
// and returns the results side by side.
func (s *SchedulerHandlerImpl) ScheduleAll(ctx *fiber.Ctx) error {
	var request requests.ScheduleRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	results := make([]responses.ScheduleResponse, 0, len(schedulers.Algorithms()))
	for _, alg := range schedulers.Algorithms() {
		out, err := s.simulate(ctx, alg, &request)
		if err != nil {
			return s.fail(ctx, fmt.Errorf("%s: %w", alg, err))
		}
		results = append(results, out.resp)
	}
	return ctx.JSON(fiber.Map{"results": results})
}

// Algorithms lists the supported algorithm names.
func (s *SchedulerHandlerImpl) Algorithms(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"algorithms": schedulers.Algorithms()})
}

// ListRuns returns stored runs, newest first.
func (s *SchedulerHandlerImpl) ListRuns(ctx *fiber.Ctx) error {
	if s.store == nil {
		return ctx.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "run history disabled"})
	}
	limit := ctx.QueryInt("limit", 50)
	runs, err := s.store.ListRuns(ctx.Context(), limit)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(fiber.Map{"runs": runs})
}

// GetRun returns one stored run by id.
func (s *SchedulerHandlerImpl) GetRun(ctx *fiber.Ctx) error {
	if s.store == nil {
		return ctx.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "run history disabled"})
	}
	run, err := s.store.GetRun(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(run)
}

// ExportRun returns one stored run's metrics as CSV.
func (s *SchedulerHandlerImpl) ExportRun(ctx *fiber.Ctx) error {
	if s.store == nil {
		return ctx.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "run history disabled"})
	}
	run, err := s.store.GetRun(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, run.Metrics); err != nil {
		return s.fail(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", run.ID+".csv"))
	return ctx.Send(buf.Bytes())
}

func (s *SchedulerHandlerImpl) simulate(ctx *fiber.Ctx, alg schedulers.Algorithm, request *requests.ScheduleRequest) (*simOutcome, error) {
	reg, err := request.Registry()
	if err != nil {
		return nil, err
	}
	pol, err := schedulers.New(alg, mergeConfig(s.config.Defaults, request.Config))
	if err != nil {
		return nil, err
	}
	res, err := engine.Simulate(ctx.Context(), reg, pol)
	if err != nil {
		return nil, err
	}
	rec, err := metrics.Compute(reg, res.Segments)
	if err != nil {
		return nil, err
	}
	s.logger.Info("simulation complete",
		"algorithm", alg, "processes", reg.Len(), "makespan", res.Makespan)

	procs := make([]core.Process, 0, reg.Len())
	for _, p := range reg.Processes() {
		procs = append(procs, *p)
	}
	return &simOutcome{
		resp:      responses.NewScheduleResponse(res, rec),
		record:    rec,
		processes: procs,
	}, nil
}

func (s *SchedulerHandlerImpl) fail(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrDuplicateID),
		errors.Is(err, core.ErrConfiguration),
		errors.Is(err, core.ErrEmptyInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, core.ErrDeadlock):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		status = fiber.StatusNotFound
	}
	if status == fiber.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// mergeConfig overlays the request's policy config on the server
// defaults, field by field.
func mergeConfig(def schedulers.Config, req *schedulers.Config) schedulers.Config {
	if req == nil {
		return def
	}
	out := def
	if req.Quantum != 0 {
		out.Quantum = req.Quantum
	}
	if len(req.MLFQQuantums) > 0 {
		out.MLFQQuantums = req.MLFQQuantums
	}
	if req.PriorityHighIsBest {
		out.PriorityHighIsBest = true
	}
	if req.Weights != (schedulers.Weights{}) {
		out.Weights = req.Weights
	}
	if req.StarvationThreshold != 0 {
		out.StarvationThreshold = req.StarvationThreshold
	}
	if req.Script != "" {
		out.Script = req.Script
	}
	return out
}
