package lr

import (
	"fmt"
	"os"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/pylite/pylite"
	"github.com/pylite/pylite/lr/iteratable"
	"github.com/pylite/pylite/lr/sparse"
)

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Cell encodings for the ACTION table. Reduce entries are encoded as
// the serial number of the rule to reduce, i.e. values >= 0.
const (
	ShiftAction  = -1
	AcceptAction = -2
)

// InstrOp is the tag of a parse instruction.
type InstrOp int8

// The four kinds of parse instruction.
const (
	Shift InstrOp = iota
	Reduce
	Goto
	Accept
)

func (op InstrOp) String() string {
	switch op {
	case Shift:
		return "SHIFT"
	case Reduce:
		return "REDUCE"
	case Goto:
		return "GOTO"
	case Accept:
		return "ACCEPT"
	}
	return "?"
}

// ParseInstr is a tagged parse-table instruction. Value is the target
// state for SHIFT and GOTO, and the rule serial for REDUCE.
type ParseInstr struct {
	Op    InstrOp
	Value int
}

func (pi ParseInstr) String() string {
	switch pi.Op {
	case Accept:
		return "<accept>"
	case Shift:
		return fmt.Sprintf("<shift %d>", pi.Value)
	case Goto:
		return fmt.Sprintf("<goto %d>", pi.Value)
	}
	return fmt.Sprintf("<reduce %d>", pi.Value)
}

// Conflict records a table-cell collision which precedence could not
// resolve. Chosen is the instruction left in the table (the
// first-inserted one), Other the instruction it collided with.
type Conflict struct {
	Chosen    ParseInstr
	Other     ParseInstr
	Lookahead string
}

// --- Precedence -------------------------------------------------------------

// Assoc is the associativity of a precedence level.
type Assoc int8

// Associativity values. On an equal-level shift/reduce collision, LEFT
// resolves to reduce, RIGHT resolves to shift.
const (
	LeftAssoc Assoc = iota
	RightAssoc
)

func (a Assoc) String() string {
	if a == RightAssoc {
		return "right"
	}
	return "left"
}

// PrecLevel is one level of the precedence table: an associativity and
// the terminals living on that level.
type PrecLevel struct {
	Assoc     Assoc
	Terminals []string
}

// Precedence is an ordered list of precedence levels, lowest first:
// later levels bind tighter.
type Precedence []PrecLevel

type precEntry struct {
	level int
	assoc Assoc
}

func (p Precedence) table() map[string]precEntry {
	m := make(map[string]precEntry)
	for level, entry := range p {
		for _, t := range entry.Terminals {
			m[t] = precEntry{level: level, assoc: entry.Assoc}
		}
	}
	return m
}

// === Closure and Goto-Set Operations =======================================

// closure computes the closure of a single item.
func (ga *LRAnalysis) closure(i Item) *iteratable.Set {
	S := newItemSet()
	S.Add(i)
	return ga.closureSet(S)
}

// closureSet computes the closure of an item set: for every item with
// a non-terminal B after the dot, the fresh items of all B-rules join
// the set, until the walk runs out of elements.
func (ga *LRAnalysis) closureSet(S *iteratable.Set) *iteratable.Set {
	C := S.Copy() // add start items to closure
	C.IterateOnce()
	for C.Next() {
		item := asItem(C.Item())
		A := item.PeekSymbol() // get symbol A after dot
		if A != "" && !ga.g.IsTerminal(A) {
			R := ga.g.startItemsFor(A)
			if New := R.Difference(C); !New.Empty() {
				C.Union(New)
			}
		}
	}
	return C
}

func (ga *LRAnalysis) gotoSet(closure *iteratable.Set, A string) *iteratable.Set {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			ii := i.Advance()
			tracer().Debugf("goto(%s) -%s-> %s", i, A, ii)
			gotoset.Add(ii)
		}
	}
	return gotoset
}

func (ga *LRAnalysis) gotoSetClosure(i *iteratable.Set, A string) *iteratable.Set {
	gotoset := ga.gotoSet(i, A)
	gclosure := ga.closureSet(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int             // serial ID of this state
	items  *iteratable.Set // configuration items within this state
	Accept bool            // is this an accepting state?
}

// CFSM edge between 2 states, directed and with a symbol label
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label string
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	for _, x := range s.items.Values() {
		tracer().Debugf("    %s", asItem(x))
	}
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.PeekSymbol() == "" {
			return true
		}
	}
	return false
}

// Create a state from an item set
func state(id int, iset *iteratable.Set) *CFSMState {
	s := &CFSMState{ID: id}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	return s
}

// Create an edge
func edge(from, to *CFSMState, label string) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// CFSM is the characteristic finite state machine for an LR grammar,
// i.e. the LR(0) state diagram. Will be constructed by a
// TableGenerator. Clients normally do not use it directly, but it is
// kept around for debugging and for the state dumps of parse errors.
type CFSM struct {
	g       *Grammar
	states  *treeset.Set    // all the states
	edges   *arraylist.List // all the edges between states
	S0      *CFSMState      // start state
	cfsmIds int             // serial IDs for CFSM states
	hashes  map[uint64][]*CFSMState
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.hashes = make(map[uint64][]*CFSMState)
	return c
}

// Add a state to the CFSM. Checks first if the state is present.
func (c *CFSM) addState(iset *iteratable.Set) *CFSMState {
	s := c.findStateByItems(iset)
	if s == nil {
		s = state(c.cfsmIds, iset)
		c.cfsmIds++
		c.hashes[itemSetHash(iset)] = append(c.hashes[itemSetHash(iset)], s)
	}
	c.states.Add(s)
	return s
}

// Find a CFSM state by the contained item set. The order-independent
// set hash serves as a pre-filter; candidates are verified by set
// equality.
func (c *CFSM) findStateByItems(iset *iteratable.Set) *CFSMState {
	for _, s := range c.hashes[itemSetHash(iset)] {
		if s.items.Equals(iset) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym string) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// State returns the state with the given ID, or nil.
func (c *CFSM) State(id int) *CFSMState {
	it := c.states.Iterator()
	for it.Next() {
		s := it.Value().(*CFSMState)
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return c.states.Size()
}

// === Table Generation ======================================================

// TableGenerator is a generator object to construct SLR(1) parser
// tables. Clients create a Grammar G, an LRAnalysis for G, and then a
// table generator. CreateTables() constructs the CFSM and the parser
// tables for G, resolving action collisions by operator precedence.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	prec         map[string]precEntry
	conflicts    *arraylist.List
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously
// analysed) grammar, with a precedence table for conflict resolution.
// The precedence list may be empty.
func NewTableGenerator(ga *LRAnalysis, prec Precedence) *TableGenerator {
	return &TableGenerator{
		g:         ga.Grammar(),
		ga:        ga,
		prec:      prec.table(),
		conflicts: arraylist.New(),
	}
}

// CFSM returns the characteristic finite state machine for the
// grammar. It will be created if it has not been constructed
// previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// StartState returns the ID of the start state.
func (lrgen *TableGenerator) StartState() int {
	return 0
}

// CreateTables creates the necessary data structures for an SLR parser.
func (lrgen *TableGenerator) CreateTables() {
	lrgen.dfa = lrgen.buildCFSM()
	lrgen.gototable = lrgen.buildGotoTable()
	lrgen.actiontable = lrgen.buildActionTable()
}

// Conflicts returns the collisions precedence could not resolve, in
// encounter order.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	r := make([]Conflict, 0, lrgen.conflicts.Size())
	it := lrgen.conflicts.Iterator()
	for it.Next() {
		r = append(r, it.Value().(Conflict))
	}
	return r
}

// Instruction decodes the table cell for (state, symbol). For
// terminals the result is SHIFT, REDUCE or ACCEPT; for non-terminals
// GOTO. ok is false for an empty cell.
func (lrgen *TableGenerator) Instruction(stateID int, sym string) (ParseInstr, bool) {
	id, known := lrgen.g.symbolID(sym)
	if !known {
		return ParseInstr{}, false
	}
	if !lrgen.g.IsTerminal(sym) {
		v := lrgen.gototable.Value(stateID, id)
		if v == lrgen.gototable.NullValue() {
			return ParseInstr{}, false
		}
		return ParseInstr{Op: Goto, Value: int(v)}, true
	}
	return lrgen.terminalInstruction(stateID, id)
}

func (lrgen *TableGenerator) terminalInstruction(stateID, symID int) (ParseInstr, bool) {
	v := lrgen.actiontable.Value(stateID, symID)
	switch {
	case v == lrgen.actiontable.NullValue():
		return ParseInstr{}, false
	case v == ShiftAction:
		return ParseInstr{Op: Shift, Value: int(lrgen.gototable.Value(stateID, symID))}, true
	case v == AcceptAction:
		return ParseInstr{Op: Accept}, true
	}
	return ParseInstr{Op: Reduce, Value: int(v)}, true
}

// Construct the characteristic finite state machine CFSM for the grammar.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	closure0 := lrgen.ga.closure(StartItem(G.Start()))
	cfsm.S0 = cfsm.addState(closure0)
	cfsm.S0.Dump()
	S := treeset.NewWith(stateComparator)
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		G.EachSymbol(func(A string) {
			gotoset := lrgen.ga.gotoSetClosure(s.items, A)
			if gotoset.Empty() { // no transition under A
				return
			}
			snew := cfsm.findStateByItems(gotoset)
			if snew == nil {
				snew = cfsm.addState(gotoset)
				S.Add(snew)
				if snew.containsCompletedStartRule() {
					snew.Accept = true
				}
			}
			cfsm.addEdge(s, snew, A)
		})
	}
	return cfsm
}

// buildGotoTable stores the CFSM edges in a sparse matrix: for every
// edge (i) --A--> (j), cell (i, A) holds j. For terminal edge labels
// this doubles as the shift-target lookup.
func (lrgen *TableGenerator) buildGotoTable() *Table {
	statescnt := lrgen.dfa.states.Size()
	tracer().Infof("GOTO table of size %d x %d", statescnt, lrgen.g.symbolCount())
	gototable := newTable(statescnt, lrgen.g.symbolCount())
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		for _, e := range lrgen.dfa.allEdges(state) {
			id, _ := lrgen.g.symbolID(e.label)
			gototable.set(state.ID, id, int32(e.to.ID))
		}
	}
	return gototable
}

// For building the ACTION table we iterate over all the states of the
// CFSM. An inner loop iterates over all the items within a CFSM
// state. If an item has a terminal immediately after the dot, we
// produce a shift entry. If an item's dot is behind the complete RHS
// of a rule, we produce a reduce entry for the rule for each terminal
// of FOLLOW(LHS) — except for the start rule, whose completion on END
// is the accept entry.
//
// Cell collisions run through precedence resolution; what precedence
// cannot decide is recorded on the conflict list, with the
// first-inserted instruction left in the table and the loser kept in
// the cell's secondary slot.
func (lrgen *TableGenerator) buildActionTable() *Table {
	statescnt := lrgen.dfa.states.Size()
	tracer().Infof("ACTION table of size %d x %d", statescnt, lrgen.g.symbolCount())
	lrgen.actiontable = newTable(statescnt, lrgen.g.symbolCount())
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, x := range state.items.Values() {
			i := asItem(x)
			A := i.PeekSymbol()
			if A != "" && lrgen.g.IsTerminal(A) { // create a shift entry
				id, _ := lrgen.g.symbolID(A)
				j := int(lrgen.gototable.Value(state.ID, id))
				lrgen.insertAction(state, A, ParseInstr{Op: Shift, Value: j})
			}
			if A == "" { // we are at the end of a rule
				if i.rule.Serial == 0 { // start rule completed: accept on END
					id, _ := lrgen.g.symbolID(pylite.EndTok)
					lrgen.actiontable.set(state.ID, id, AcceptAction)
					continue
				}
				for _, la := range lrgen.ga.Follow(i.rule.LHS) {
					lrgen.insertAction(state, la, ParseInstr{Op: Reduce, Value: i.rule.Serial})
				}
			}
		}
	}
	return lrgen.actiontable
}

// insertAction stores an intended instruction for (state, lookahead),
// passing collisions through precedence resolution.
func (lrgen *TableGenerator) insertAction(state *CFSMState, la string, cand ParseInstr) {
	id, _ := lrgen.g.symbolID(la)
	existing, occupied := lrgen.terminalInstruction(state.ID, id)
	if !occupied {
		lrgen.actiontable.set(state.ID, id, encodeInstr(cand))
		return
	}
	if existing == cand { // relax, same entry twice
		return
	}
	if existing.Op == Accept { // the accept cell is never displaced
		return
	}
	lrgen.checkPrecedence(state, la, existing, cand)
}

// checkPrecedence resolves a collision between the instruction already
// in the table and a candidate:
//
//   - the precedence key of a SHIFT is the lookahead, that of a REDUCE
//     the rightmost terminal of the reduced production;
//   - if either key carries no precedence, the collision is a conflict
//     and the first-inserted instruction stays;
//   - a higher precedence level overwrites the cell;
//   - on equal levels with a SHIFT side, LEFT associativity picks the
//     REDUCE, RIGHT picks the SHIFT;
//   - equal-level REDUCE/REDUCE is unresolvable: conflict, first stays.
func (lrgen *TableGenerator) checkPrecedence(state *CFSMState, la string, existing, cand ParseInstr) {
	id, _ := lrgen.g.symbolID(la)
	keyExisting := lrgen.precKey(existing, la)
	keyCand := lrgen.precKey(cand, la)
	precExisting, okExisting := lrgen.prec[keyExisting]
	precCand, okCand := lrgen.prec[keyCand]
	if !okExisting || !okCand {
		lrgen.conflict(state, la, existing, cand)
		return
	}
	tracer().Debugf("checking precedence between %s and %s", keyExisting, keyCand)
	switch {
	case precCand.level > precExisting.level:
		lrgen.actiontable.set(state.ID, id, encodeInstr(cand))
	case precCand.level < precExisting.level:
		// keep existing
	case cand.Op == Shift || existing.Op == Shift:
		shift, reduce := cand, existing
		if existing.Op == Shift {
			shift, reduce = existing, cand
		}
		if precCand.assoc == LeftAssoc {
			lrgen.actiontable.set(state.ID, id, encodeInstr(reduce))
		} else {
			lrgen.actiontable.set(state.ID, id, encodeInstr(shift))
		}
	default: // both are reduce, same level: cannot resolve
		lrgen.conflict(state, la, existing, cand)
	}
}

// precKey returns the terminal whose precedence governs an
// instruction: the lookahead for a shift, the rightmost RHS terminal
// for a reduce ("" if the production has none).
func (lrgen *TableGenerator) precKey(instr ParseInstr, la string) string {
	if instr.Op == Reduce {
		return lrgen.rightmostTerminal(lrgen.g.Rule(instr.Value).rhs)
	}
	return la
}

func (lrgen *TableGenerator) rightmostTerminal(rhs []string) string {
	for k := len(rhs) - 1; k >= 0; k-- {
		if lrgen.g.IsTerminal(rhs[k]) {
			return rhs[k]
		}
	}
	return ""
}

func (lrgen *TableGenerator) conflict(state *CFSMState, la string, existing, cand ParseInstr) {
	tracer().Infof("%s/%s conflict in state %d on %q", existing.Op, cand.Op, state.ID, la)
	lrgen.conflicts.Add(Conflict{Chosen: existing, Other: cand, Lookahead: la})
	lrgen.HasConflicts = true
	id, _ := lrgen.g.symbolID(la)
	lrgen.actiontable.add(state.ID, id, encodeInstr(cand)) // keep the loser in the secondary slot
}

func encodeInstr(instr ParseInstr) int32 {
	switch instr.Op {
	case Shift:
		return ShiftAction
	case Accept:
		return AcceptAction
	}
	return int32(instr.Value)
}

// === Tables ================================================================

// Table wraps a sparse matrix indexed by (state ID, symbol ID).
type Table struct {
	matrix *sparse.IntMatrix
}

func newTable(m, n int) *Table {
	return &Table{matrix: sparse.NewIntMatrix(m, n, sparse.DefaultNullValue)}
}

func (t *Table) set(i, j int, val int32) {
	t.matrix.Set(i, j, val)
}

func (t *Table) add(i, j int, val int32) {
	t.matrix.Add(i, j, val)
}

// NullValue returns the empty-cell marker of this table.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the primary entry at (i,j), or NullValue.
func (t *Table) Value(i, j int) int32 {
	return t.matrix.Value(i, j)
}

// Values returns the pair of entries at (i,j).
func (t *Table) Values(i, j int) (int32, int32) {
	return t.matrix.Values(i, j)
}

// GotoTable returns the GOTO table. The tables have to be built by
// calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table. The tables have to be built by
// calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// === Export ================================================================

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format, given a filename.
func (c *CFSM) CFSM2GraphViz(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create dot file: %w", err)
	}
	defer f.Close()
	f.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	it := c.states.Iterator()
	for it.Next() {
		s := it.Value().(*CFSMState)
		color := "white"
		if s.Accept {
			color = "lightgray"
		}
		fmt.Fprintf(f, "s%03d [fillcolor=%s label=\"state %d\"]\n", s.ID, color, s.ID)
	}
	eit := c.edges.Iterator()
	for eit.Next() {
		e := eit.Value().(*cfsmEdge)
		fmt.Fprintf(f, "s%03d -> s%03d [label=\"%s\"]\n", e.from.ID, e.to.ID, e.label)
	}
	f.WriteString("}\n")
	return nil
}
