package grammar

import (
	"math/bits"
	"strings"
)

// SymbolSet is an immutable set of symbols. The zero value is empty.
type SymbolSet struct {
	words []uint64
}

func NewSymbolSet(syms ...Symbol) SymbolSet {
	var words []uint64
	for _, s := range syms {
		i := int(s) / 64
		for len(words) <= i {
			words = append(words, 0)
		}
		words[i] |= 1 << (uint(s) % 64)
	}
	return SymbolSet{words: words}
}

func (s SymbolSet) Has(sym Symbol) bool {
	i := int(sym) / 64
	if i >= len(s.words) {
		return false
	}
	return s.words[i]&(1<<(uint(sym)%64)) != 0
}

func (s SymbolSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

func (s SymbolSet) IsEmpty() bool {
	return s.Len() == 0
}

// Symbols returns the members in ascending order.
func (s SymbolSet) Symbols() []Symbol {
	var out []Symbol
	for i, w := range s.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, Symbol(i*64+b))
			w &^= 1 << uint(b)
		}
	}
	return out
}

func (s SymbolSet) Union(other SymbolSet) SymbolSet {
	n := len(s.words)
	if len(other.words) > n {
		n = len(other.words)
	}
	words := make([]uint64, n)
	copy(words, s.words)
	for i, w := range other.words {
		words[i] |= w
	}
	return SymbolSet{words: words}
}

func (s SymbolSet) Intersects(other SymbolSet) bool {
	n := len(s.words)
	if len(other.words) < n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		if s.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}

// Format renders the set using the table's symbol names.
func (s SymbolSet) Format(t *Table) string {
	names := make([]string, 0, s.Len())
	for _, sym := range s.Symbols() {
		names = append(names, t.SymbolName(sym))
	}
	return "{" + strings.Join(names, ", ") + "}"
}
