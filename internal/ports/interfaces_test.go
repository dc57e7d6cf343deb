package ports_test

import (
	"testing"

	"github.com/emiliopalmerini/polymer-explorer/internal/adapters/otel"
	"github.com/emiliopalmerini/polymer-explorer/internal/adapters/storage"
	"github.com/emiliopalmerini/polymer-explorer/internal/adapters/turso"
	"github.com/emiliopalmerini/polymer-explorer/internal/ports"
)

// Compile-time interface conformance checks.

func TestFileSourceConformance(t *testing.T) {
	var _ ports.DatasetSource = (*storage.FileSource)(nil)
}

func TestEmbeddedSourceConformance(t *testing.T) {
	var _ ports.DatasetSource = storage.EmbeddedSource{}
}

func TestLatestSourceConformance(t *testing.T) {
	var _ ports.DatasetSource = (*turso.LatestSource)(nil)
}

func TestSnapshotRepositoryConformance(t *testing.T) {
	var _ ports.SnapshotRepository = (*turso.SnapshotRepository)(nil)
}

func TestOTelExporterConformance(t *testing.T) {
	var _ ports.MetricsExporter = (*otel.Exporter)(nil)
}

func TestNoOpExporterConformance(t *testing.T) {
	var _ ports.MetricsExporter = (*otel.NoOpExporter)(nil)
}
