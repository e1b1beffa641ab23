package trajectory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/pedflow/pkg"
	"github.com/lintang-b-s/pedflow/pkg/util"
)

type TextOptions struct {
	// overrides the frame rate found in the file header when > 0
	FrameRate float64
	// UNKNOWN_UNIT means: take it from the header, default metres
	Unit pkg.LengthUnit
}

var frameRateHeader = regexp.MustCompile(`(?i)framerate\s*:?\s*([0-9]*\.?[0-9]+)`)

// "(in cm)", "(in metres)" of the coordinate description or an "x/cm" column label
var unitHeader = regexp.MustCompile(`(?i)\(in\s+(cm|m|centimet(?:er|re)s?|met(?:er|re)s?)\)|\bx\s*/\s*(cm|m)\b`)

type textMeta struct {
	frameRate float64
	unit      pkg.LengthUnit
}

func parseHeaderLine(line string, meta *textMeta) {
	if m := frameRateHeader.FindStringSubmatch(line); m != nil {
		if fps, err := strconv.ParseFloat(m[1], 64); err == nil {
			meta.frameRate = fps
		}
	}

	// first declaration wins
	if meta.unit != pkg.UNKNOWN_UNIT {
		return
	}
	m := unitHeader.FindStringSubmatch(line)
	if m == nil {
		return
	}
	unit := strings.ToLower(m[1] + m[2])
	if strings.HasPrefix(unit, "c") {
		meta.unit = pkg.CENTIMETER
	} else {
		meta.unit = pkg.METER
	}
}

// LoadText reads a whitespace separated trajectory file with the columns id, frame, x, y and an optional z.
// Files ending in .bz2 are decompressed on the fly.
func LoadText(path string, opts TextOptions) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		r = bz
	}

	data, err := ParseText(r, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

func ParseText(r io.Reader, opts TextOptions) (*Data, error) {
	br := bufio.NewReader(r)
	meta := textMeta{unit: pkg.UNKNOWN_UNIT}
	records := make([]Record, 0, 1024)

	for lineNo := 1; ; lineNo++ {
		line, err := util.ReadLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			parseHeaderLine(line, &meta)
			continue
		}

		rec, err := parseRecord(strings.Fields(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}

	frameRate := meta.frameRate
	if opts.FrameRate > 0 {
		frameRate = opts.FrameRate
	}
	if frameRate <= 0 {
		return nil, fmt.Errorf("no frame rate in header or options: %w", ErrInvalidFrameRate)
	}

	unit := meta.unit
	if opts.Unit != pkg.UNKNOWN_UNIT {
		unit = opts.Unit
	}
	if unit == pkg.CENTIMETER {
		for i := range records {
			p := records[i].Position
			records[i] = NewRecord(records[i].AgentID, records[i].Frame,
				p.X()*pkg.CENTIMETER_TO_METER, p.Y()*pkg.CENTIMETER_TO_METER)
		}
	}

	return NewData(frameRate, records)
}

func parseRecord(tokens []string) (Record, error) {
	if len(tokens) < 4 {
		return Record{}, fmt.Errorf("expected at least 4 columns, got %d: %w", len(tokens), ErrMalformedTrajectory)
	}
	id, err := strconv.Atoi(tokens[0])
	if err != nil {
		return Record{}, fmt.Errorf("agent id %q: %w", tokens[0], ErrMalformedTrajectory)
	}
	frame, err := strconv.Atoi(tokens[1])
	if err != nil {
		return Record{}, fmt.Errorf("frame %q: %w", tokens[1], ErrMalformedTrajectory)
	}
	x, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil {
		return Record{}, fmt.Errorf("x %q: %w", tokens[2], ErrMalformedTrajectory)
	}
	y, err := strconv.ParseFloat(tokens[3], 64)
	if err != nil {
		return Record{}, fmt.Errorf("y %q: %w", tokens[3], ErrMalformedTrajectory)
	}
	return NewRecord(id, frame, x, y), nil
}
