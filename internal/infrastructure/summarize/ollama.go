package summarize

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/strataview/strata/internal/application/port"
)

const promptTemplate = `Summarize the following article. Provide a concise summary with key points.

---

%s`

// Ollama streams summaries from a local Ollama instance.
type Ollama struct {
	client *http.Client
	host   string
	model  string
}

// NewOllama creates a generator against host (e.g. http://localhost:11434)
// using the given model. The client has no timeout; generation is bounded by
// the caller's context.
func NewOllama(host, model string) *Ollama {
	return &Ollama{
		client: &http.Client{},
		host:   host,
		model:  model,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Stream sends text for summarization and returns a channel of incremental
// chunks. The channel closes when the stream ends; cancelling ctx ends it
// early.
func (o *Ollama) Stream(ctx context.Context, text string) (<-chan port.SummaryChunk, error) {
	body, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: fmt.Sprintf(promptTemplate, text),
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("ollama returned HTTP %d", resp.StatusCode)
	}

	chunks := make(chan port.SummaryChunk)
	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var chunk generateResponse
			if err := json.Unmarshal(line, &chunk); err != nil {
				o.send(ctx, chunks, port.SummaryChunk{Err: fmt.Errorf("malformed ollama stream line: %w", err)})
				return
			}
			if chunk.Error != "" {
				o.send(ctx, chunks, port.SummaryChunk{Err: fmt.Errorf("ollama: %s", chunk.Error)})
				return
			}
			if chunk.Response != "" {
				if !o.send(ctx, chunks, port.SummaryChunk{Text: chunk.Response}) {
					return
				}
			}
			if chunk.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			o.send(ctx, chunks, port.SummaryChunk{Err: fmt.Errorf("ollama stream read failed: %w", err)})
		}
	}()
	return chunks, nil
}

func (o *Ollama) send(ctx context.Context, chunks chan<- port.SummaryChunk, chunk port.SummaryChunk) bool {
	select {
	case chunks <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
