package analysis

import (
	"context"
	"errors"
	"sort"

	"github.com/lintang-b-s/pedflow/pkg/concurrent"
	"github.com/lintang-b-s/pedflow/pkg/config"
	"github.com/lintang-b-s/pedflow/pkg/geometry"
	"github.com/lintang-b-s/pedflow/pkg/spatialindex"
	"github.com/lintang-b-s/pedflow/pkg/trajectory"
	"github.com/lintang-b-s/pedflow/pkg/util"
	"github.com/lintang-b-s/pedflow/pkg/velocity"
	"go.uber.org/zap"
)

// NoArea marks samples of a run without measurement areas.
const NoArea = -1

type TrajectorySource interface {
	velocity.TrajectoryProvider
	Agents() []int
	Frames(agentID int) ([]int, error)
	Position(agentID, frame int) (geometry.Point, bool)
}

type Sample struct {
	AreaID   int
	AgentID  int
	Frame    int
	Position geometry.Point
	Speed    float64
}

type Result struct {
	Samples []Sample
	// frames whose velocity window ran outside the recorded data
	Skipped int
}

type agentResult struct {
	samples []Sample
	skipped int
	err     error
}

type Analyzer struct {
	cfg    *config.Configuration
	source TrajectorySource
	index  *spatialindex.AreaIndex
	log    *zap.Logger
}

func NewAnalyzer(cfg *config.Configuration, source TrajectorySource, log *zap.Logger) *Analyzer {
	areas := make([]geometry.MeasurementArea, 0)
	for _, id := range cfg.MeasurementAreaIDs() {
		area, _ := cfg.MeasurementArea(id)
		areas = append(areas, area)
	}

	index := spatialindex.NewAreaIndex()
	index.Build(areas, log)

	return &Analyzer{
		cfg:    cfg,
		source: source,
		index:  index,
		log:    log,
	}
}

/*
Run computes the instantaneous velocity of every agent at every frame it spends inside a
measurement area, or at every recorded frame when no areas are configured.

frames whose window cannot be filled are skipped and counted. any other error aborts the run.
agents are processed in parallel, samples are sorted by area, agent and frame.
*/
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	agents := a.source.Agents()
	a.log.Info("starting velocity analysis",
		zap.Int("agents", len(agents)),
		zap.Int("measurement_areas", a.index.Len()),
		zap.Int("frame_step", a.cfg.VelocityCalculator().FrameStep()),
		zap.Int("workers", a.cfg.NumWorkers()))

	results := concurrent.Run(a.cfg.NumWorkers(), agents, func(agentID int) agentResult {
		return a.analyzeAgent(ctx, agentID)
	})

	res := &Result{Samples: make([]Sample, 0)}
	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		res.Samples = append(res.Samples, r.samples...)
		res.Skipped += r.skipped
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	sort.Slice(res.Samples, func(i, j int) bool {
		si, sj := res.Samples[i], res.Samples[j]
		if si.AreaID != sj.AreaID {
			return si.AreaID < sj.AreaID
		}
		if si.AgentID != sj.AgentID {
			return si.AgentID < sj.AgentID
		}
		return si.Frame < sj.Frame
	})

	a.log.Info("velocity analysis done", zap.Int("samples", len(res.Samples)), zap.Int("skipped", res.Skipped))
	return res, nil
}

func (a *Analyzer) areasOf(p geometry.Point) []int {
	if a.index.Len() == 0 {
		return []int{NoArea}
	}
	return a.index.Locate(p)
}

func (a *Analyzer) analyzeAgent(ctx context.Context, agentID int) agentResult {
	frames, err := a.source.Frames(agentID)
	if err != nil {
		return agentResult{err: err}
	}

	calculator := a.cfg.VelocityCalculator()
	var res agentResult
	for _, frame := range frames {
		if util.StopConcurrentOperation(ctx) {
			return agentResult{err: ctx.Err()}
		}

		p, _ := a.source.Position(agentID, frame)
		areaIDs := a.areasOf(p)
		if len(areaIDs) == 0 {
			continue
		}

		speed, err := calculator.ComputeInstantaneousVelocity(a.source, agentID, frame)
		if errors.Is(err, trajectory.ErrInsufficientData) {
			res.skipped++
			a.log.Debug("skipping frame, velocity window incomplete",
				zap.Int("agent", agentID), zap.Int("frame", frame), zap.Error(err))
			continue
		}
		if err != nil {
			return agentResult{err: err}
		}

		for _, areaID := range areaIDs {
			res.samples = append(res.samples, Sample{
				AreaID:   areaID,
				AgentID:  agentID,
				Frame:    frame,
				Position: p,
				Speed:    speed,
			})
		}
	}
	return res
}
