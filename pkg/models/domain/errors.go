package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTemplate   = errors.New("unknown report type")
	ErrReportNotFound    = errors.New("report not found")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrUnknownDomain     = errors.New("unknown metrics domain")
)

// DataSourceError reports a failed collection fetch
type DataSourceError struct {
	Collection Collection
	Err        error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Collection, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
