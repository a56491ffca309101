package port

import "context"

// SummaryChunk is one increment of streamed summary text. Err is set on the
// final chunk when generation fails upstream.
type SummaryChunk struct {
	Text string
	Err  error
}

// SummaryGenerator streams a summary for extracted page text. The returned
// channel is closed when the stream ends. Cancelling ctx stops generation;
// the caller ceasing to consume the channel must not leak the producer.
type SummaryGenerator interface {
	Stream(ctx context.Context, text string) (<-chan SummaryChunk, error)
}

// ContentExtractor produces readable plain text from raw page content.
type ContentExtractor interface {
	Extract(ctx context.Context, pageURL, rawHTML string) (string, error)
}
