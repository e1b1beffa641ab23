package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/lintang-b-s/pedflow/pkg"
	"github.com/lintang-b-s/pedflow/pkg/geometry"
	"github.com/lintang-b-s/pedflow/pkg/velocity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const analysisYAML = `
output_directory: results
trajectory_files:
  - traj/bottleneck.txt
  - /abs/other.sqlite
geometry_file: geometry.yaml
length_unit: cm
workers: 3
measurement_areas:
  - id: 1
    coordinates: [[0, 0], [4, 0], [4, 2], [0, 2]]
  - id: 2
    coordinates: [[-1, -1], [1, -1], [0, 1]]
measurement_lines:
  - id: 1
    coordinates: [[0, 1], [4, 1]]
velocity:
  frame_step: 8
  measurement_direction: [0, -1]
  ignore_backward_movement: true
method_ccm:
  - id: 1
    line_width: 0.4
    cut_off_radius: 0.8
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "analysis.yaml", analysisYAML)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "results"), cfg.OutputDirectory())
	assert.Equal(t, []string{filepath.Join(dir, "traj/bottleneck.txt"), "/abs/other.sqlite"}, cfg.TrajectoryFiles())
	assert.Equal(t, filepath.Join(dir, "geometry.yaml"), cfg.GeometryFile())
	assert.Equal(t, pkg.CENTIMETER, cfg.LengthUnit())
	assert.Equal(t, 3, cfg.NumWorkers())
	assert.Equal(t, 0.0, cfg.FrameRate())

	assert.Equal(t, []int{1, 2}, cfg.MeasurementAreaIDs())
	area, ok := cfg.MeasurementArea(1)
	require.True(t, ok)
	assert.Equal(t, 1, area.ID())
	assert.InDelta(t, 8.0, area.Polygon().Area(), 1e-9)

	line, ok := cfg.MeasurementLine(1)
	require.True(t, ok)
	assert.InDelta(t, 4.0, line.Length(), 1e-12)
	assert.Equal(t, []int{1}, cfg.MeasurementLineIDs())

	vc := cfg.VelocityCalculator()
	assert.Equal(t, 8, vc.FrameStep())
	assert.True(t, vc.IgnoreBackwardMovement())
	d, ok := vc.MeasurementDirection()
	require.True(t, ok)
	assert.Equal(t, -1.0, d.Y())

	assert.Equal(t, 0.4, cfg.MethodCCM(1).LineWidth())
	assert.Equal(t, 0.8, cfg.MethodCCM(1).CutOffRadius())
	// unconfigured ids fall back to zero tuning
	assert.Equal(t, 0.0, cfg.MethodCCM(2).LineWidth())
	assert.Equal(t, 0.0, cfg.MethodCCM(2).CutOffRadius())
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "minimal.yaml", "output_directory: out\ntrajectory_files: [t.txt]\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	vc := cfg.VelocityCalculator()
	assert.Equal(t, pkg.DEFAULT_FRAME_STEP, vc.FrameStep())
	assert.False(t, vc.IgnoreBackwardMovement())
	_, ok := vc.MeasurementDirection()
	assert.False(t, ok)

	assert.Empty(t, cfg.MeasurementAreas())
	assert.Empty(t, cfg.MeasurementLines())
	assert.Empty(t, cfg.MethodCCMs())
	assert.Equal(t, "", cfg.GeometryFile())
	assert.Equal(t, pkg.UNKNOWN_UNIT, cfg.LengthUnit())
	assert.Equal(t, runtime.NumCPU(), cfg.NumWorkers())
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "env.yaml", "output_directory: out\ntrajectory_files: [t.txt]\nvelocity:\n  frame_step: 4\n")
	t.Setenv("PEDFLOW_VELOCITY_FRAME_STEP", "12")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.VelocityCalculator().FrameStep())
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "analysis.json", `{
		"output_directory": "/tmp/out",
		"trajectory_files": ["/data/a.txt"],
		"velocity": {"frame_step": 2}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.OutputDirectory())
	assert.Equal(t, 2, cfg.VelocityCalculator().FrameStep())
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missing output directory",
			content: "trajectory_files: [t.txt]\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "missing trajectory files",
			content: "output_directory: out\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative frame step",
			content: "output_directory: out\ntrajectory_files: [t.txt]\nvelocity:\n  frame_step: -2\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "zero measurement direction",
			content: "output_directory: out\ntrajectory_files: [t.txt]\nvelocity:\n  measurement_direction: [0, 0]\n",
			wantErr: velocity.ErrDegenerateDirection,
		},
		{
			name:    "nan measurement direction",
			content: "output_directory: out\ntrajectory_files: [t.txt]\nvelocity:\n  measurement_direction: [.nan, 1]\n",
			wantErr: velocity.ErrDegenerateDirection,
		},
		{
			name:    "three component direction",
			content: "output_directory: out\ntrajectory_files: [t.txt]\nvelocity:\n  measurement_direction: [1, 0, 0]\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "negative line width",
			content: "output_directory: out\ntrajectory_files: [t.txt]\nmethod_ccm:\n  - id: 1\n    line_width: -0.1\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "area with two vertices",
			content: "output_directory: out\ntrajectory_files: [t.txt]\nmeasurement_areas:\n  - id: 1\n    coordinates: [[0, 0], [1, 1]]\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name: "duplicate area id",
			content: "output_directory: out\ntrajectory_files: [t.txt]\nmeasurement_areas:\n" +
				"  - id: 1\n    coordinates: [[0, 0], [1, 0], [1, 1]]\n" +
				"  - id: 1\n    coordinates: [[0, 0], [2, 0], [2, 2]]\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "degenerate measurement line",
			content: "output_directory: out\ntrajectory_files: [t.txt]\nmeasurement_lines:\n  - id: 1\n    coordinates: [[1, 1], [1, 1]]\n",
			wantErr: geometry.ErrDegenerateLine,
		},
		{
			name:    "unknown length unit",
			content: "output_directory: out\ntrajectory_files: [t.txt]\nlength_unit: ft\n",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "bad.yaml", tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestConfigurationIsImmutable(t *testing.T) {
	square, err := geometry.NewPolygon([]geometry.Point{
		geometry.NewPoint(0, 0), geometry.NewPoint(1, 0), geometry.NewPoint(1, 1), geometry.NewPoint(0, 1),
	})
	require.NoError(t, err)
	vc, err := velocity.NewCalculator(4, nil, false)
	require.NoError(t, err)
	m, err := NewMethodCCM(0.2, 0)
	require.NoError(t, err)

	files := []string{"a.txt"}
	areas := map[int]geometry.MeasurementArea{5: geometry.NewMeasurementArea(5, square)}
	methods := map[int]MethodCCM{5: m}

	cfg, err := New(Params{
		OutputDirectory:    "out",
		TrajectoryFiles:    files,
		MeasurementAreas:   areas,
		VelocityCalculator: vc,
		MethodCCM:          methods,
		NumWorkers:         2,
	})
	require.NoError(t, err)

	files[0] = "changed.txt"
	delete(areas, 5)
	methods[5] = MethodCCM{}
	cfg.TrajectoryFiles()[0] = "changed again"
	delete(cfg.MeasurementAreas(), 5)

	assert.Equal(t, []string{"a.txt"}, cfg.TrajectoryFiles())
	_, ok := cfg.MeasurementArea(5)
	assert.True(t, ok)
	assert.Equal(t, 0.2, cfg.MethodCCM(5).LineWidth())
	assert.Same(t, vc, cfg.VelocityCalculator())
}

func TestNewRejectsInconsistentParams(t *testing.T) {
	_, err := New(Params{OutputDirectory: "out"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	square, err := geometry.NewPolygon([]geometry.Point{
		geometry.NewPoint(0, 0), geometry.NewPoint(1, 0), geometry.NewPoint(1, 1),
	})
	require.NoError(t, err)
	vc, err := velocity.NewCalculator(4, nil, false)
	require.NoError(t, err)

	_, err = New(Params{
		VelocityCalculator: vc,
		MeasurementAreas:   map[int]geometry.MeasurementArea{1: geometry.NewMeasurementArea(2, square)},
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewMethodCCM(0, -1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadGeometry(t *testing.T) {
	path := writeConfig(t, "geometry.yaml", `
walls:
  - [[0, 0], [10, 0]]
  - [[10, 0], [10, 5]]
  - [[10, 5], [0, 5], [0, 0]]
`)

	g, err := LoadGeometry(path)
	require.NoError(t, err)
	assert.Len(t, g.Walls(), 3)

	pg, err := g.AsPolygon()
	require.NoError(t, err)
	assert.InDelta(t, 50.0, pg.Area(), 1e-9)
	assert.True(t, pg.Contains(geometry.NewPoint(5, 2.5)))

	_, err = LoadGeometry(writeConfig(t, "bad_geometry.yaml", "walls:\n  - [[0, 0]]\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
