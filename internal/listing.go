package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/firodj/mipsdis/binarysearchtree"
)

var ErrMalformedLine = errors.New("malformed line")

// Entry is one address/word pair of a listing.
type Entry struct {
	Line     int
	AddrText string
	Address  uint32
	Encoded  uint32
}

type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ParseHex32 parses a 32-bit hex literal with an optional 0x prefix.
func ParseHex32(s string) (uint32, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	return uint32(v), nil
}

// ParseLine reads "0x<address> 0x<word>". Anything after the second
// field is ignored.
func ParseLine(text string) (entry Entry, err error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return entry, fmt.Errorf("%w: want address and word", ErrMalformedLine)
	}

	entry.AddrText = fields[0]
	if entry.Address, err = ParseHex32(fields[0]); err != nil {
		return
	}
	if entry.Encoded, err = ParseHex32(fields[1]); err != nil {
		return
	}
	return
}

type Listing struct {
	entries []Entry
	index   binarysearchtree.Tree[uint32, int]
}

func NewListing() *Listing {
	return &Listing{}
}

// Add appends entry; the address index keeps the first entry of a
// repeated address.
func (l *Listing) Add(entry Entry) {
	l.entries = append(l.entries, entry)
	if l.index.Search(entry.Address).End() {
		l.index.Insert(entry.Address, len(l.entries)-1)
	}
}

func (l *Listing) Len() int {
	return len(l.entries)
}

// Entries returns the entries in input order.
func (l *Listing) Entries() []Entry {
	return l.entries
}

func (l *Listing) At(addr uint32) (Entry, bool) {
	it := l.index.Search(addr)
	if it.End() {
		return Entry{}, false
	}
	return l.entries[it.Value()], true
}

// Floor returns the entry with the greatest address <= addr.
func (l *Listing) Floor(addr uint32) (Entry, bool) {
	it := l.index.Floor(addr)
	if it.End() {
		return Entry{}, false
	}
	return l.entries[it.Value()], true
}

// Range returns the entries with from <= address <= to, in address order.
func (l *Listing) Range(from, to uint32) []Entry {
	var entries []Entry
	for it := l.index.Ceil(from); !it.End() && it.Key() <= to; it = it.Next() {
		entries = append(entries, l.entries[it.Value()])
	}
	return entries
}

func (l *Listing) Bounds() (lo, hi uint32, ok bool) {
	min, max := l.index.Min(), l.index.Max()
	if min.End() {
		return 0, 0, false
	}
	return min.Key(), max.Key(), true
}

// ReadListing parses r line by line. Malformed lines are skipped and
// returned as warnings; err is only set when reading stops early.
func ReadListing(ctx context.Context, r io.Reader) (l *Listing, warnings []error, err error) {
	l = NewListing()
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return l, warnings, ctx.Err()
		default:
		}

		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		entry, perr := ParseLine(text)
		if perr != nil {
			warnings = append(warnings, &LineError{Line: lineNo, Text: text, Err: perr})
			continue
		}
		entry.Line = lineNo
		l.Add(entry)
	}

	return l, warnings, scanner.Err()
}
