package internal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Document struct {
	Source       string
	Listing      *Listing
	InstrManager *InstructionManager

	Log *logrus.Logger
}

func NewDocument() *Document {
	return &Document{
		Listing:      NewListing(),
		InstrManager: NewInstructionManager(),
		Log:          logrus.StandardLogger(),
	}
}

// LoadDocument reads the listing file at filename.
func LoadDocument(ctx context.Context, filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc := NewDocument()
	if err := doc.LoadListing(ctx, file, filename); err != nil {
		return nil, err
	}
	return doc, nil
}

func (doc *Document) LoadListing(ctx context.Context, r io.Reader, source string) error {
	listing, warnings, err := ReadListing(ctx, r)
	for _, w := range warnings {
		doc.Log.WithField("source", source).Warn(w)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}

	doc.Source = source
	doc.Listing = listing
	doc.InstrManager = NewInstructionManager()
	fields := logrus.Fields{
		"source":  source,
		"entries": listing.Len(),
		"skipped": len(warnings),
	}
	if lo, hi, ok := listing.Bounds(); ok {
		fields["lo"] = fmt.Sprintf("0x%08x", lo)
		fields["hi"] = fmt.Sprintf("0x%08x", hi)
	}
	doc.Log.WithFields(fields).Debug("listing loaded")
	return nil
}

// Disasm returns the cached decode result for addr, decoding it on first
// use. It is nil when the listing has no such address.
func (doc *Document) Disasm(addr uint32) *DecodeResult {
	if res := doc.InstrManager.Get(addr); res != nil {
		return res
	}
	entry, ok := doc.Listing.At(addr)
	if !ok {
		return nil
	}
	if res := doc.InstrManager.Create(entry); res != nil {
		doc.logFailure(res)
		return res
	}
	return doc.InstrManager.Get(addr)
}

// DisasmAt returns the result for the entry at or nearest below addr.
func (doc *Document) DisasmAt(addr uint32) *DecodeResult {
	entry, ok := doc.Listing.Floor(addr)
	if !ok {
		return nil
	}
	return doc.Disasm(entry.Address)
}

// cached returns the stored result for entry when it was decoded from the
// same line.
func (doc *Document) cached(entry Entry) *DecodeResult {
	if res := doc.InstrManager.Get(entry.Address); res != nil && res.Entry == entry {
		return res
	}
	return nil
}

// DisasmAll decodes every entry of the listing in input order.
func (doc *Document) DisasmAll(ctx context.Context, workers int) ([]*DecodeResult, error) {
	return doc.DisasmEntries(ctx, doc.Listing.Entries(), workers)
}

func (doc *Document) DisasmRange(ctx context.Context, from, to uint32, workers int) ([]*DecodeResult, error) {
	return doc.DisasmEntries(ctx, doc.Listing.Range(from, to), workers)
}

// DisasmEntries decodes entries on at most workers goroutines (unbounded
// when workers <= 0). Results keep the order of entries.
func (doc *Document) DisasmEntries(ctx context.Context, entries []Entry, workers int) ([]*DecodeResult, error) {
	results := make([]*DecodeResult, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i := range entries {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if res := doc.cached(entries[i]); res != nil {
				results[i] = res
				return nil
			}
			results[i] = decodeEntry(entries[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range results {
		doc.InstrManager.Store(res)
		doc.logFailure(res)
	}
	doc.Log.WithFields(logrus.Fields{
		"decoded": len(results),
		"cached":  doc.InstrManager.Len(),
	}).Debug("disasm done")
	return results, nil
}

func (doc *Document) logFailure(res *DecodeResult) {
	if res.Err == nil {
		return
	}
	doc.Log.WithFields(logrus.Fields{
		"line": res.Entry.Line,
		"pc":   fmt.Sprintf("0x%08x", res.Entry.Address),
		"word": fmt.Sprintf("0x%08x", res.Entry.Encoded),
	}).Debug(res.Err)
}
