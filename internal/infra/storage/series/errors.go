package series

import "errors"

var (
	ErrSeriesNotFound = errors.New("series.repository: series not found")
	ErrBuildQuery     = errors.New("series.repository: failed to build query")
	ErrExecQuery      = errors.New("series.repository: failed to execute query")
	ErrScanRow        = errors.New("series.repository: failed to scan row")
)
