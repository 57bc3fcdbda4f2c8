// Package knowledge provides retrieval over the operator's documentation
// directory. A Bleve index is built once per process on first use and then
// serves top-k chunk lookups for the knowledge handler.
package knowledge

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"

	errx "github.com/telecom-assist-poc/server/internal/core/error"
	logx "github.com/telecom-assist-poc/server/pkg/logger"
)

// chunkTargetLen bounds the size of one indexed chunk. Paragraphs are grouped
// until the next one would exceed it.
const chunkTargetLen = 800

// Chunk is one retrieved slice of documentation.
type Chunk struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

// Library is the process-scoped document index. Init-once-on-first-use:
// the index is built lazily by the first Search call and shared afterwards;
// sync.Once makes concurrent first use safe.
type Library struct {
	dir string

	once    sync.Once
	index   bleve.Index
	initErr error
}

// NewLibrary returns a Library over the given documents directory. Nothing
// is read until the first search.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Search returns the top-k chunks ranked by relevance to the query. The
// index is built on first call; a build failure is returned on every call
// so the handler can fall back to its caveat text.
func (l *Library) Search(ctx context.Context, query string, k int) ([]Chunk, error) {
	l.once.Do(func() {
		l.index, l.initErr = buildIndex(l.dir)
	})
	if l.initErr != nil {
		return nil, errx.WrapIndex(l.initErr)
	}
	if k <= 0 {
		k = 3
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), k, 0, false)
	req.Fields = []string{"source", "text"}

	res, err := l.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, errx.WrapIndex(err)
	}

	chunks := make([]Chunk, 0, len(res.Hits))
	for _, hit := range res.Hits {
		c := Chunk{Score: hit.Score}
		if v, ok := hit.Fields["source"].(string); ok {
			c.Source = v
		}
		if v, ok := hit.Fields["text"].(string); ok {
			c.Text = v
		}
		if c.Text != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

// buildIndex walks the docs dir, chunks every markdown/text file and indexes
// the chunks into an in-memory Bleve index.
func buildIndex(dir string) (bleve.Index, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("knowledge base folder not found: %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("knowledge base path is not a directory: %s", dir)
	}

	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	indexed := 0
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDocFile(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		for i, text := range chunkText(string(data)) {
			doc := map[string]any{"source": rel, "text": text}
			if err := index.Index(fmt.Sprintf("%s#%d", rel, i), doc); err != nil {
				return err
			}
			indexed++
		}
		return nil
	})
	if walkErr != nil {
		index.Close()
		return nil, walkErr
	}
	if indexed == 0 {
		index.Close()
		return nil, fmt.Errorf("no documents found in knowledge base folder: %s", dir)
	}

	logx.Info().Str("dir", dir).Int("chunks", indexed).Msg("Knowledge index built")
	return index, nil
}

func isDocFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".txt":
		return true
	default:
		return false
	}
}

// chunkText splits a document on blank lines and regroups paragraphs into
// chunks of roughly chunkTargetLen characters.
func chunkText(content string) []string {
	paragraphs := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > chunkTargetLen {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
