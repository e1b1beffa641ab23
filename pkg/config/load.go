package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lintang-b-s/pedflow/pkg"
	"github.com/lintang-b-s/pedflow/pkg/geometry"
	"github.com/lintang-b-s/pedflow/pkg/velocity"
	"github.com/spf13/viper"
)

type areaConfig struct {
	ID          int         `mapstructure:"id"`
	Coordinates [][]float64 `mapstructure:"coordinates" validate:"min=3,dive,len=2"`
}

type lineConfig struct {
	ID          int         `mapstructure:"id"`
	Coordinates [][]float64 `mapstructure:"coordinates" validate:"len=2,dive,len=2"`
}

type velocityConfig struct {
	FrameStep              int       `mapstructure:"frame_step" validate:"gt=0"`
	MeasurementDirection   []float64 `mapstructure:"measurement_direction" validate:"omitempty,len=2"`
	IgnoreBackwardMovement bool      `mapstructure:"ignore_backward_movement"`
}

type methodCCMConfig struct {
	ID           int     `mapstructure:"id"`
	LineWidth    float64 `mapstructure:"line_width" validate:"gte=0"`
	CutOffRadius float64 `mapstructure:"cut_off_radius" validate:"gte=0"`
}

type fileConfig struct {
	OutputDirectory  string            `mapstructure:"output_directory" validate:"required"`
	TrajectoryFiles  []string          `mapstructure:"trajectory_files" validate:"required,min=1,dive,required"`
	GeometryFile     string            `mapstructure:"geometry_file"`
	FrameRate        float64           `mapstructure:"frame_rate" validate:"gte=0"`
	LengthUnit       string            `mapstructure:"length_unit" validate:"omitempty,oneof=m cm"`
	Workers          int               `mapstructure:"workers" validate:"gte=0"`
	MeasurementAreas []areaConfig      `mapstructure:"measurement_areas" validate:"dive"`
	MeasurementLines []lineConfig      `mapstructure:"measurement_lines" validate:"dive"`
	Velocity         velocityConfig    `mapstructure:"velocity"`
	MethodCCM        []methodCCMConfig `mapstructure:"method_ccm" validate:"dive"`
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("PEDFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

/*
Load. reads an analysis configuration file (yaml, toml or json, picked by extension).
every key can be overridden from the environment with the PEDFLOW_ prefix, e.g. PEDFLOW_VELOCITY_FRAME_STEP.
relative file paths are resolved against the directory of the configuration file.
*/
func Load(path string) (*Configuration, error) {
	v := newViper(path)
	v.SetDefault("velocity.frame_step", pkg.DEFAULT_FRAME_STEP)
	v.SetDefault("velocity.ignore_backward_movement", false)
	v.SetDefault("frame_rate", 0.0)
	v.SetDefault("length_unit", "")
	v.SetDefault("workers", 0)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("fatal error config file: %w", err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	if err := validateStruct(fc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return fc.build(filepath.Dir(path))
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func toPoints(coords [][]float64) []geometry.Point {
	points := make([]geometry.Point, len(coords))
	for i, c := range coords {
		points[i] = geometry.NewPoint(c[0], c[1])
	}
	return points
}

func (fc fileConfig) build(baseDir string) (*Configuration, error) {
	areas := make(map[int]geometry.MeasurementArea, len(fc.MeasurementAreas))
	for _, ac := range fc.MeasurementAreas {
		if _, dup := areas[ac.ID]; dup {
			return nil, fmt.Errorf("measurement area id %d is used twice: %w", ac.ID, ErrInvalidConfig)
		}
		polygon, err := geometry.NewPolygon(toPoints(ac.Coordinates))
		if err != nil {
			return nil, fmt.Errorf("measurement area %d: %w", ac.ID, err)
		}
		areas[ac.ID] = geometry.NewMeasurementArea(ac.ID, polygon)
	}

	lines := make(map[int]geometry.MeasurementLine, len(fc.MeasurementLines))
	for _, lc := range fc.MeasurementLines {
		if _, dup := lines[lc.ID]; dup {
			return nil, fmt.Errorf("measurement line id %d is used twice: %w", lc.ID, ErrInvalidConfig)
		}
		pts := toPoints(lc.Coordinates)
		line, err := geometry.NewMeasurementLine(pts[0], pts[1])
		if err != nil {
			return nil, fmt.Errorf("measurement line %d: %w", lc.ID, err)
		}
		lines[lc.ID] = line
	}

	methods := make(map[int]MethodCCM, len(fc.MethodCCM))
	for _, mc := range fc.MethodCCM {
		if _, dup := methods[mc.ID]; dup {
			return nil, fmt.Errorf("method_ccm id %d is used twice: %w", mc.ID, ErrInvalidConfig)
		}
		m, err := NewMethodCCM(mc.LineWidth, mc.CutOffRadius)
		if err != nil {
			return nil, err
		}
		methods[mc.ID] = m
	}

	var direction *geometry.Vector
	if len(fc.Velocity.MeasurementDirection) == 2 {
		d := geometry.NewVector(fc.Velocity.MeasurementDirection[0], fc.Velocity.MeasurementDirection[1])
		direction = &d
	}
	calculator, err := velocity.NewCalculator(fc.Velocity.FrameStep, direction, fc.Velocity.IgnoreBackwardMovement)
	if err != nil {
		return nil, fmt.Errorf("velocity: %w", err)
	}

	trajectoryFiles := make([]string, len(fc.TrajectoryFiles))
	for i, f := range fc.TrajectoryFiles {
		trajectoryFiles[i] = resolvePath(baseDir, f)
	}

	unit := pkg.UNKNOWN_UNIT
	switch fc.LengthUnit {
	case "m":
		unit = pkg.METER
	case "cm":
		unit = pkg.CENTIMETER
	}

	return New(Params{
		OutputDirectory:    resolvePath(baseDir, fc.OutputDirectory),
		TrajectoryFiles:    trajectoryFiles,
		GeometryFile:       resolvePath(baseDir, fc.GeometryFile),
		MeasurementAreas:   areas,
		MeasurementLines:   lines,
		VelocityCalculator: calculator,
		MethodCCM:          methods,
		FrameRate:          fc.FrameRate,
		LengthUnit:         unit,
		NumWorkers:         fc.Workers,
	})
}

type geometryFile struct {
	Walls [][][]float64 `mapstructure:"walls" validate:"required,min=1,dive,min=2,dive,len=2"`
}

// LoadGeometry reads the walls of the walkable area, in order, from a yaml, toml or json file.
func LoadGeometry(path string) (geometry.Geometry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return geometry.Geometry{}, fmt.Errorf("read geometry file: %w", err)
	}

	var gf geometryFile
	if err := v.Unmarshal(&gf); err != nil {
		return geometry.Geometry{}, fmt.Errorf("decode geometry file %s: %w", path, err)
	}
	if err := validateStruct(gf); err != nil {
		return geometry.Geometry{}, fmt.Errorf("%s: %w", path, err)
	}

	walls := make([]geometry.LineString, len(gf.Walls))
	for i, w := range gf.Walls {
		ls, err := geometry.NewLineString(toPoints(w))
		if err != nil {
			return geometry.Geometry{}, fmt.Errorf("wall %d: %w", i, err)
		}
		walls[i] = ls
	}
	return geometry.NewGeometry(walls), nil
}
