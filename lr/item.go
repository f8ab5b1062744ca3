package lr

import (
	"hash/fnv"
	"strings"

	"github.com/cnf/structhash"
	"github.com/pylite/pylite/lr/iteratable"
)

// Item is an LR item: a production rule with a dot marking parser
// progress. Items are value types; equality and hashing are
// structural (rule and dot position).
type Item struct {
	rule *Rule
	dot  int
}

// StartItem creates the item [A -> . γ] for a rule.
func StartItem(r *Rule) Item {
	return Item{rule: r}
}

// Rule returns the underlying production rule.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the dot position, 0 … len(RHS).
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol right after the dot, or "" if the dot
// is at the end of the rule.
func (i Item) PeekSymbol() string {
	if i.dot >= len(i.rule.rhs) {
		return ""
	}
	return i.rule.rhs[i.dot]
}

// Advance moves the dot one symbol to the right. Advancing past the
// end of the rule is a no-op.
func (i Item) Advance() Item {
	if i.dot >= len(i.rule.rhs) {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1}
}

// IsKernel reports whether this is a kernel item: the dot is not at
// position 0, or the item belongs to the start rule. Non-kernel items
// are re-derivable by closure.
func (i Item) IsKernel() bool {
	return i.dot > 0 || i.rule.Serial == 0
}

func (i Item) String() string {
	var b strings.Builder
	b.WriteString(i.rule.LHS)
	b.WriteString(" ->")
	for k, sym := range i.rule.rhs {
		if k == i.dot {
			b.WriteString(" .")
		}
		b.WriteString(" ")
		b.WriteString(sym)
	}
	if i.dot == len(i.rule.rhs) {
		b.WriteString(" .")
	}
	return b.String()
}

func asItem(x interface{}) Item {
	return x.(Item)
}

func newItemSet() *iteratable.Set {
	return iteratable.NewSet(0)
}

// itemCore is the hashable identity of an item.
type itemCore struct {
	Serial int
	Dot    int
}

func itemHash(i Item) uint64 {
	h := fnv.New64a()
	h.Write(structhash.Dump(itemCore{Serial: i.rule.Serial, Dot: i.dot}, 1))
	return shuffleBits(h.Sum64())
}

func shuffleBits(h uint64) uint64 {
	return ((h ^ 89869747) ^ (h << 16)) * 3644798167
}

// itemSetHash computes an order-independent hash over an item set:
// the XOR of the per-item hashes, mixed with the set's cardinality.
// It is used as a pre-filter when searching the canonical collection
// for an existing state.
func itemSetHash(S *iteratable.Set) uint64 {
	var hash uint64
	for _, x := range S.Values() {
		hash ^= itemHash(asItem(x))
	}
	hash ^= uint64(S.Size()) * 1927868237
	hash = hash*69069 + 907133923
	return hash
}

func itemSetString(S *iteratable.Set) string {
	var b strings.Builder
	b.WriteString("{")
	first := true
	for _, x := range S.Values() {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(asItem(x).String())
	}
	b.WriteString(" }")
	return b.String()
}
