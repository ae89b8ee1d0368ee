// Package testutil provides shared test doubles and fixtures.
//
//   - MockTranscriber: configurable api.Transcriber with call tracking
//   - MockCatalogDAO: in-memory repository.CatalogDAO
//   - Fixtures: sample transcripts and configuration documents
package testutil
