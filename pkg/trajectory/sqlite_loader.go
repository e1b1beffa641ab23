package trajectory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite"
)

const (
	selectFrameRate = `SELECT value FROM metadata WHERE key = 'fps'`
	selectPositions = `SELECT frame, id, pos_x, pos_y FROM trajectory_data ORDER BY id, frame`
)

// LoadSQLite reads a JuPedSim sqlite trajectory file: positions from trajectory_data, frame rate from
// the fps entry of the metadata table.
func LoadSQLite(ctx context.Context, path string) (*Data, error) {
	// sql.Open would create a missing file
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	data, err := readSQLite(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

func readSQLite(ctx context.Context, db *sql.DB) (*Data, error) {
	var fpsValue string
	err := db.QueryRowContext(ctx, selectFrameRate).Scan(&fpsValue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("metadata has no fps entry: %w", ErrMalformedTrajectory)
	}
	if err != nil {
		return nil, fmt.Errorf("read frame rate: %w", err)
	}
	frameRate, err := strconv.ParseFloat(fpsValue, 64)
	if err != nil {
		return nil, fmt.Errorf("fps %q: %w", fpsValue, ErrMalformedTrajectory)
	}

	rows, err := db.QueryContext(ctx, selectPositions)
	if err != nil {
		return nil, fmt.Errorf("read trajectory_data: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, 1024)
	for rows.Next() {
		var (
			frame, id int
			x, y      float64
		)
		if err := rows.Scan(&frame, &id, &x, &y); err != nil {
			return nil, err
		}
		records = append(records, NewRecord(id, frame, x, y))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NewData(frameRate, records)
}
