// Package connectors holds the source connectors ingestion reads from.
// Each connector lists the files of one source and reports changes to
// them for watch mode.
package connectors
