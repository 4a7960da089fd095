package domain

import "time"

// DocumentOutcome is the per-document result of an ingestion run.
type DocumentOutcome struct {
	// SourceID is the document id (base filename).
	SourceID string

	// Path is the file that was processed.
	Path string

	// Chunks is how many chunks the document produced.
	Chunks int

	// Err is set when extraction failed or timed out.
	Err error
}

// OK reports whether the document was extracted.
func (o DocumentOutcome) OK() bool {
	return o.Err == nil
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// Documents has one outcome per source file, in enumeration order.
	Documents []DocumentOutcome

	// Chunks is the total number of chunks written.
	Chunks int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Succeeded counts documents extracted without error.
func (r *IngestReport) Succeeded() int {
	n := 0
	for _, d := range r.Documents {
		if d.OK() {
			n++
		}
	}
	return n
}

// Failed returns the outcomes of documents that degraded.
func (r *IngestReport) Failed() []DocumentOutcome {
	var failed []DocumentOutcome
	for _, d := range r.Documents {
		if !d.OK() {
			failed = append(failed, d)
		}
	}
	return failed
}
