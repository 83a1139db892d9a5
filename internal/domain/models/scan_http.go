package models

// ScanRequest is the API payload for running a scan.
type ScanRequest struct {
	Tickers        []string `json:"tickers" validate:"required,min=1,dive,required"`
	CommissionRate float64  `json:"commission_rate" default:"0.0015" validate:"gte=0,lt=1"`
	SlippageRate   float64  `json:"slippage_rate" default:"0.0005" validate:"gte=0,lt=1"`
	MaxWorkers     int      `json:"max_workers" default:"10" validate:"gt=0,lte=64"`
	BatchSize      int      `json:"batch_size" default:"20" validate:"gt=0,lte=500"`
	StartDate      string   `json:"start_date,omitempty"`
	EndDate        string   `json:"end_date,omitempty"`
}

// CacheCleanupRequest is the API payload for cache housekeeping.
type CacheCleanupRequest struct {
	MaxAge string `json:"max_age" default:"168h"`
}

// ScanProgressEvent is pushed once per batch boundary on the progress stream.
type ScanProgressEvent struct {
	Type         string `json:"type"` // progress or report
	BatchIndex   int    `json:"batch_index,omitempty"`
	TotalBatches int    `json:"total_batches,omitempty"`
	Report       *ScanReport `json:"report,omitempty"`
}
