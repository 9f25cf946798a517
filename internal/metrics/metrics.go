// Package metrics holds the Prometheus collectors for the file service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeExpired  = "expired"
	OutcomeError    = "error"
)

var (
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filedrop_uploads_total",
		Help: "Total number of stored uploads.",
	})

	UploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filedrop_upload_bytes_total",
		Help: "Total number of bytes stored by uploads.",
	})

	RejectedUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filedrop_rejected_uploads_total",
		Help: "Uploads rejected before reaching storage.",
	}, []string{"reason"})

	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filedrop_lookups_total",
		Help: "Key resolutions by outcome.",
	}, []string{"outcome"})

	SweptFilesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filedrop_swept_files_total",
		Help: "Expired files removed by the sweeper.",
	})
)
