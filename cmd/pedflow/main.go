package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/pedflow/pkg/analysis"
	"github.com/lintang-b-s/pedflow/pkg/config"
	"github.com/lintang-b-s/pedflow/pkg/logger"
	"github.com/lintang-b-s/pedflow/pkg/trajectory"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "./data/config.yaml", "analysis configuration file (yaml, toml or json)")
	logLevel   = flag.String("log_level", "info", "log level: debug, info, warn, error")
)

func main() {
	flag.Parse()
	os.Exit(pedflow())
}

// pedflow returns the exit code so deferred cleanup runs before os.Exit.
func pedflow() int {
	log, err := logger.New(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, log); err != nil {
		log.Error("velocity analysis failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, log *zap.Logger) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if cfg.GeometryFile() != "" {
		if err := checkGeometry(cfg, log); err != nil {
			return err
		}
	}

	if err := logMeasurementLines(cfg, log); err != nil {
		return err
	}

	data, err := trajectory.LoadFiles(ctx, cfg.TrajectoryFiles(), trajectory.TextOptions{
		FrameRate: cfg.FrameRate(),
		Unit:      cfg.LengthUnit(),
	})
	if err != nil {
		return err
	}
	first, last := data.FrameRange()
	log.Info("trajectories loaded",
		zap.Strings("files", cfg.TrajectoryFiles()),
		zap.Int("agents", len(data.Agents())),
		zap.Int("records", data.NumRecords()),
		zap.Int("first_frame", first),
		zap.Int("last_frame", last),
		zap.Float64("frame_rate", data.FrameRate()))

	result, err := analysis.NewAnalyzer(cfg, data, log).Run(ctx)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	fmt.Fprintln(w, "area\tagent\tframe\tx\ty\tspeed")
	for _, s := range result.Samples {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4f\t%.4f\t%.6f\n", s.AreaID, s.AgentID, s.Frame,
			s.Position.X(), s.Position.Y(), s.Speed)
	}
	return w.Flush()
}

// checkGeometry warns about measurement areas reaching outside the walkable area.
func checkGeometry(cfg *config.Configuration, log *zap.Logger) error {
	geometry, err := config.LoadGeometry(cfg.GeometryFile())
	if err != nil {
		return err
	}
	walkable, err := geometry.AsPolygon()
	if err != nil {
		return err
	}
	if !walkable.IsSimple() {
		log.Warn("walls do not form a simple polygon, check their order", zap.String("geometry_file", cfg.GeometryFile()))
	}
	log.Info("geometry loaded", zap.Int("walls", len(geometry.Walls())), zap.Float64("area", walkable.Area()))

	for id, area := range cfg.MeasurementAreas() {
		for _, v := range area.Polygon().Vertices() {
			if !walkable.Contains(v) {
				log.Warn("measurement area leaves the walkable area", zap.Int("area", id),
					zap.Float64("x", v.X()), zap.Float64("y", v.Y()))
				break
			}
		}
	}
	return nil
}

// logMeasurementLines reports the strip each measurement line covers with its configured line width.
func logMeasurementLines(cfg *config.Configuration, log *zap.Logger) error {
	for _, id := range cfg.MeasurementLineIDs() {
		line, _ := cfg.MeasurementLine(id)
		width := cfg.MethodCCM(id).LineWidth()
		fields := []zap.Field{zap.Int("line", id), zap.Float64("length", line.Length()), zap.Float64("line_width", width)}
		if width > 0 {
			strip, err := line.Buffer(width)
			if err != nil {
				return fmt.Errorf("measurement line %d: %w", id, err)
			}
			fields = append(fields, zap.Float64("strip_area", strip.Area()))
		}
		log.Debug("measurement line", fields...)
	}
	return nil
}
