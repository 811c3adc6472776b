// Package dataset loads and prepares the raw daily metrics table for
// analysis.
//
// The pipeline mirrors the ingest stage of the reporting tool: load the
// raw CSV (generating a sample dataset when none exists), clean it (date
// parsing, duplicate removal, forward- then backward-fill of missing
// numeric values), and derive the business metrics the reports show
// (growth rates, moving average, cumulative revenue). Column recognition
// is driven entirely by configuration, not hard-coded names.
package dataset
