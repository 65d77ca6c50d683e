package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/khanglvm/sales-pipeline/internal/pipeline"

// Runner executes a fixed sequence of stages.
type Runner struct {
	stages        []Stage
	logger        *zap.Logger
	tracer        trace.Tracer
	stageDuration metric.Float64Histogram
	runs          metric.Int64Counter
}

// NewRunner creates a runner over stages in the given order.
func NewRunner(logger *zap.Logger, stages ...Stage) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	meter := otel.GetMeterProvider().Meter(instrumentationName)
	stageDuration, err := meter.Float64Histogram("pipeline.stage.duration",
		metric.WithDescription("Duration of a single pipeline stage"),
		metric.WithUnit("ms"))
	if err != nil {
		logger.Warn("failed to create stage duration histogram", zap.Error(err))
	}
	runs, err := meter.Int64Counter("pipeline.runs",
		metric.WithDescription("Completed pipeline runs by outcome"))
	if err != nil {
		logger.Warn("failed to create run counter", zap.Error(err))
	}

	ordered := make([]Stage, len(stages))
	copy(ordered, stages)

	return &Runner{
		stages:        ordered,
		logger:        logger,
		tracer:        otel.Tracer(instrumentationName),
		stageDuration: stageDuration,
		runs:          runs,
	}
}

// Stages returns the stage names in execution order.
func (r *Runner) Stages() []string {
	names := make([]string, 0, len(r.stages))
	for _, s := range r.stages {
		names = append(names, s.Name())
	}
	return names
}

// Run passes rec through every stage and returns the last stage's output.
// The first failing stage aborts the run with a *StageError.
func (r *Runner) Run(ctx context.Context, rec Record) (Record, error) {
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run_id", runID))

	ctx, span := r.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Float64("latest_sales", rec.LatestSales),
	))
	defer span.End()

	start := time.Now()
	logger.Debug("pipeline started", zap.Float64("latest_sales", rec.LatestSales), zap.Int("stages", len(r.stages)))

	for _, stage := range r.stages {
		next, err := r.runStage(ctx, logger, stage, rec)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.countRun(ctx, "error")
			logger.Error("pipeline aborted", zap.String("stage", stage.Name()), zap.Error(err))
			return rec, &StageError{Stage: stage.Name(), Err: err}
		}
		rec = next
	}

	r.countRun(ctx, "success")
	logger.Info("pipeline completed",
		zap.Bool("anomaly", rec.Anomaly),
		zap.Float64("z_score", rec.ZScore),
		zap.Float64("forecast_sales", rec.ForecastSales),
		zap.Duration("duration", time.Since(start)))

	return rec, nil
}

func (r *Runner) runStage(ctx context.Context, logger *zap.Logger, stage Stage, rec Record) (Record, error) {
	ctx, span := r.tracer.Start(ctx, "pipeline.stage."+stage.Name())
	defer span.End()

	start := time.Now()
	out, err := stage.Run(ctx, rec)
	elapsed := time.Since(start)

	if r.stageDuration != nil {
		r.stageDuration.Record(ctx, float64(elapsed.Microseconds())/1000,
			metric.WithAttributes(attribute.String("stage", stage.Name())))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return rec, err
	}

	logger.Debug("stage finished", zap.String("stage", stage.Name()), zap.Duration("duration", elapsed))
	return out, nil
}

func (r *Runner) countRun(ctx context.Context, outcome string) {
	if r.runs == nil {
		return
	}
	r.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
