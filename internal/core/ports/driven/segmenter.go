package driven

// Segmenter splits cleaned text into size-bounded chunks.
// Implementations are pure: identical input yields identical output.
type Segmenter interface {
	// Name returns the strategy name used for selection.
	Name() string

	// Segment returns ordered, non-empty chunks of text.
	// A non-positive limit returns domain.ErrConfiguration.
	Segment(text string, limit int) ([]string, error)
}
