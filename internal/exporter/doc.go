// Package exporter writes the pipeline's outputs to disk.
//
// Two output families exist:
//
// CSVWriter: core CSV writing with headers and a UTF-8 BOM for Excel
// compatibility, plus the forecast and processed-table exports built on
// it.
//
// ReportWriter: the multi-sheet Excel daily report (executive summary,
// detailed metrics, forecast, trends, recommendations) rendered with
// excelize.
//
// Exporters consume the forecast results read-only; they never reach back
// into the modeling pipeline.
package exporter
