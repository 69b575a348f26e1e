package task

import (
	"bytes"
	"context"

	"github.com/ishibashi-futos/notepad-macos/internal/charset"
	"github.com/ishibashi-futos/notepad-macos/internal/engine"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"
	"github.com/ishibashi-futos/notepad-macos/internal/engine/rope"
	"github.com/ishibashi-futos/notepad-macos/internal/fileio"
	"github.com/ishibashi-futos/notepad-macos/internal/search"
)

// SearchResult is the outcome of a Search unit.
type SearchResult struct {
	Query   string
	Options search.Options
	Matches []rope.Offset
}

// Load reads path and decodes it. With a nil override the encoding is
// detected. The result is applied with engine.Document.ApplyLoad.
func Load(c *Coordinator, doc Document, path string, override *charset.Name, tok *Token) <-chan Message[engine.LoadResult] {
	spec := Spec{Document: doc.ID(), Kind: KindLoad, Token: tok, Versions: doc}
	return Run(c, spec, func(_ context.Context, poll func() error) (engine.LoadResult, error) {
		data, err := fileio.ReadAll(c.fs, path, c.pollBytes, poll)
		if err != nil {
			return engine.LoadResult{}, coreerr.FromIO("read "+path, err)
		}
		dec, err := charset.DecodeWithPoll(data, override, poll)
		if err != nil {
			return engine.LoadResult{}, err
		}
		if err := poll(); err != nil {
			return engine.LoadResult{}, err
		}
		return engine.LoadResult{
			Path:       path,
			Text:       rope.FromString(dec.Text),
			Descriptor: dec.Descriptor,
		}, nil
	})
}

// Save encodes snap with desc and writes it to path. The document should
// be locked with BeginSave beforehand and the message handed to
// FinishSave. The token is polled until the write starts; a cancellation
// that arrives during the write still reports Cancelled, so the document
// stays dirty.
func Save(c *Coordinator, doc Document, snap engine.Snapshot, path string, desc charset.Descriptor, tok *Token) <-chan Message[engine.SaveResult] {
	spec := Spec{Document: doc.ID(), Kind: KindSave, Token: tok, Versions: doc}
	return Run(c, spec, func(_ context.Context, poll func() error) (engine.SaveResult, error) {
		var buf bytes.Buffer
		buf.Grow(snap.Rope.LenBytes())
		enc, err := charset.NewStreamEncoder(&buf, desc)
		if err != nil {
			return engine.SaveResult{}, err
		}

		pending := 0
		it := snap.Rope.Chunks()
		for it.Next() {
			chunk := it.Chunk()
			if err := enc.WriteString(chunk.String()); err != nil {
				return engine.SaveResult{}, err
			}
			if pending += chunk.Len(); pending >= c.pollBytes {
				pending = 0
				if err := poll(); err != nil {
					return engine.SaveResult{}, err
				}
			}
		}
		if err := enc.Close(); err != nil {
			return engine.SaveResult{}, err
		}
		if err := poll(); err != nil {
			return engine.SaveResult{}, err
		}

		if err := c.fs.WriteFile(path, buf.Bytes(), fileio.DefaultPerm); err != nil {
			return engine.SaveResult{}, coreerr.FromIO("write "+path, err)
		}
		return engine.SaveResult{
			Path:       path,
			Descriptor: desc,
			Version:    snap.Version,
			Mark:       snap.Mark,
			Bytes:      enc.Written(),
		}, nil
	})
}

// Search finds query in snap. A zero opts.PollEvery uses the
// coordinator's search window.
func Search(c *Coordinator, doc Document, snap engine.Snapshot, query string, opts search.Options, tok *Token) <-chan Message[SearchResult] {
	spec := Spec{Document: doc.ID(), Kind: KindSearch, Token: tok, Versions: doc}
	if opts.PollEvery <= 0 {
		opts.PollEvery = c.searchPoll
	}
	return Run(c, spec, func(_ context.Context, poll func() error) (SearchResult, error) {
		matches, err := search.FindAll(snap.Rope, query, opts, poll)
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Query: query, Options: opts, Matches: matches}, nil
	})
}
