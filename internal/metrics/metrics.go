// Package metrics exposes Prometheus counters for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UploadsTotal counts upload requests by outcome ("ok", "rejected", "error").
var UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "filedrop_uploads_total",
	Help: "Upload requests processed, labelled by outcome.",
}, []string{"outcome"})

// DeletionsTotal counts deletion requests by outcome
// ("ok", "invalid_key", "not_found", "error").
var DeletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "filedrop_deletions_total",
	Help: "Deletion requests processed, labelled by outcome.",
}, []string{"outcome"})

// UploadBytesTotal counts bytes written to storage by successful uploads.
var UploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "filedrop_upload_bytes_total",
	Help: "Bytes persisted by successful uploads.",
})
