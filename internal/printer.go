package internal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

type PrintOptions struct {
	Color  bool
	Pseudo bool
}

// Printer writes one "<address> <instruction>" line per decode result.
type Printer struct {
	w    io.Writer
	opts PrintOptions

	mnemonic *color.Color
	failure  *color.Color
	comment  *color.Color
}

func NewPrinter(w io.Writer, opts PrintOptions) *Printer {
	p := &Printer{
		w:        w,
		opts:     opts,
		mnemonic: color.New(color.FgCyan, color.Bold),
		failure:  color.New(color.FgRed),
		comment:  color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.mnemonic, p.failure, p.comment} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func addressText(entry Entry) string {
	if entry.AddrText != "" {
		return entry.AddrText
	}
	return fmt.Sprintf("0x%08x", entry.Address)
}

func (p *Printer) Line(res *DecodeResult) string {
	ss := addressText(res.Entry) + " "

	if res.Err != nil || res.Instr == nil {
		return ss + p.failure.Sprint(ErrorText)
	}

	text := res.Instr.String()
	ss += p.mnemonic.Sprint(res.Instr.Mnemonic) + text[len(res.Instr.Mnemonic):]

	if p.opts.Pseudo {
		if code := Code(res.Instr); code != "" {
			ss += p.comment.Sprint("\t; " + code)
		}
	}
	return ss
}

func (p *Printer) Print(res *DecodeResult) error {
	_, err := fmt.Fprintln(p.w, p.Line(res))
	return err
}

func (p *Printer) PrintAll(results []*DecodeResult) error {
	for _, res := range results {
		if err := p.Print(res); err != nil {
			return err
		}
	}
	return nil
}

type Record struct {
	Line     int      `yaml:"line" json:"line"`
	Address  string   `yaml:"address" json:"address"`
	Word     string   `yaml:"word" json:"word"`
	Text     string   `yaml:"text" json:"text"`
	Mnemonic string   `yaml:"mnemonic,omitempty" json:"mnemonic,omitempty"`
	Operands []string `yaml:"operands,omitempty" json:"operands,omitempty"`
	Pseudo   string   `yaml:"pseudo,omitempty" json:"pseudo,omitempty"`
	Error    string   `yaml:"error,omitempty" json:"error,omitempty"`
}

func NewRecord(res *DecodeResult, withPseudo bool) Record {
	rec := Record{
		Line:    res.Entry.Line,
		Address: addressText(res.Entry),
		Word:    fmt.Sprintf("0x%08x", res.Entry.Encoded),
		Text:    res.Text(),
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
		return rec
	}
	if res.Instr != nil {
		rec.Mnemonic = res.Instr.Mnemonic
		rec.Operands = res.Instr.Operands()
		if withPseudo {
			rec.Pseudo = Code(res.Instr)
		}
	}
	return rec
}

func NewRecords(results []*DecodeResult, withPseudo bool) []Record {
	records := make([]Record, 0, len(results))
	for _, res := range results {
		records = append(records, NewRecord(res, withPseudo))
	}
	return records
}

func WriteYAML(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}
