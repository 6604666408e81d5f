package internal

import (
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Stats counts mnemonics in the order they first appear.
type Stats struct {
	Total     int
	Failed    int
	Mnemonics *orderedmap.OrderedMap[string, int]
}

func CollectStats(results []*DecodeResult) *Stats {
	s := &Stats{
		Mnemonics: orderedmap.New[string, int](),
	}
	for _, res := range results {
		s.Add(res)
	}
	return s
}

func (s *Stats) Add(res *DecodeResult) {
	s.Total++
	if res.Err != nil || res.Instr == nil {
		s.Failed++
		return
	}
	count, _ := s.Mnemonics.Get(res.Instr.Mnemonic)
	s.Mnemonics.Set(res.Instr.Mnemonic, count+1)
}

func (s *Stats) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "total=%d failed=%d\n", s.Total, s.Failed); err != nil {
		return err
	}
	for pair := s.Mnemonics.Oldest(); pair != nil; pair = pair.Next() {
		if _, err := fmt.Fprintf(w, "%-8s %d\n", pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}
