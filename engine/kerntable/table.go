package kerntable

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/derekparker/trie"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/npillmayer/autokern/core"
	"github.com/npillmayer/autokern/core/percent"
)

// Table is a kerning table: an ordered mapping of character pairs to kerns,
// given as percentages of the left glyph's advance width.
// A Table is safe for concurrent use.
type Table struct {
	Font     string  // name of the font
	FontSize float64 // pixels per em
	mx       sync.RWMutex
	pairs    *treemap.Map // pair string → float64
	index    *trie.Trie   // pair strings, for prefix lookup
}

// NewTable creates an empty kerning table.
func NewTable(fontname string, fontSize float64) *Table {
	return &Table{
		Font:     fontname,
		FontSize: fontSize,
		pairs:    treemap.NewWithStringComparator(),
		index:    trie.New(),
	}
}

// Put sets the kern of a pair. pair should consist of two characters.
func (t *Table) Put(pair string, p percent.Percent) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.pairs.Put(pair, float64(p))
	t.index.Add(pair, nil)
}

// Get returns the kern of a pair.
func (t *Table) Get(pair string) (percent.Percent, bool) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	v, found := t.pairs.Get(pair)
	if !found {
		return 0, false
	}
	return percent.FromFloat(v.(float64)), true
}

// Len returns the number of pairs in t.
func (t *Table) Len() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.pairs.Size()
}

// Pairs returns all pairs of t in ascending order.
func (t *Table) Pairs() []string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	keys := t.pairs.Keys()
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k.(string)
	}
	return pairs
}

// Each calls f for every pair in ascending order.
func (t *Table) Each(f func(pair string, p percent.Percent)) {
	t.mx.RLock()
	defer t.mx.RUnlock()
	it := t.pairs.Iterator()
	for it.Next() {
		f(it.Key().(string), percent.FromFloat(it.Value().(float64)))
	}
}

// WithLeft returns all pairs starting with character left, in ascending order.
func (t *Table) WithLeft(left rune) []string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	prefix := string(left)
	if !t.index.HasKeysWithPrefix(prefix) {
		return nil
	}
	pairs := t.index.PrefixSearch(prefix)
	sort.Strings(pairs)
	return pairs
}

type wrappedTable struct {
	Font     string          `json:"font"`
	FontSize float64         `json:"fontSize"`
	Kerning  json.RawMessage `json:"kerning"`
}

// WriteJSON writes t to w. If wrapped is true, the kerning pairs are wrapped
// into an object carrying the font name and font size. Pairs are written in
// ascending order.
func (t *Table) WriteJSON(w io.Writer, wrapped bool) error {
	t.mx.RLock()
	kerning, err := t.pairs.ToJSON()
	t.mx.RUnlock()
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot serialize kerning table")
	}
	var out []byte
	if wrapped {
		out, err = json.MarshalIndent(wrappedTable{
			Font:     t.Font,
			FontSize: t.FontSize,
			Kerning:  kerning,
		}, "", "  ")
	} else {
		var buf bytes.Buffer
		err = json.Indent(&buf, kerning, "", "  ")
		out = buf.Bytes()
	}
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot serialize kerning table")
	}
	out = append(out, '\n')
	if _, err = w.Write(out); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot write kerning table")
	}
	return nil
}

// ReadJSON reads a kerning table, flat or wrapped, as written by WriteJSON.
func ReadJSON(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot read kerning table")
	}
	var probe map[string]json.RawMessage
	if err = json.Unmarshal(data, &probe); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "kerning table is not a JSON object")
	}
	t := NewTable("", 0)
	kerning := data
	if _, ok := probe["kerning"]; ok {
		var w wrappedTable
		if err = json.Unmarshal(data, &w); err != nil {
			return nil, core.WrapError(err, core.EINVALID, "malformed kerning table")
		}
		t.Font, t.FontSize, kerning = w.Font, w.FontSize, w.Kerning
	}
	if err = t.pairs.FromJSON(kerning); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "malformed kerning pairs")
	}
	it := t.pairs.Iterator()
	for it.Next() {
		pair := it.Key().(string)
		if _, ok := it.Value().(float64); !ok {
			return nil, core.Error(core.EINVALID, "kern of pair %q is not a number", pair)
		}
		if utf8.RuneCountInString(pair) != 2 {
			tracer().Infof("kerning table contains odd pair %q", pair)
		}
		t.index.Add(pair, nil)
	}
	return t, nil
}
