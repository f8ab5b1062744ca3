package lr

import (
	"fmt"
	"io"
)

// DumpGrammar writes the numbered rule list, a listing of every CFSM
// state (kernel items plus the non-GOTO action rows), and the conflict
// list. The format is stable and intended for golden tests and for
// eyeballing a grammar the way yacc-like tools report theirs.
func (lrgen *TableGenerator) DumpGrammar(w io.Writer) {
	fmt.Fprintf(w, "Grammar\n\n")
	for _, r := range lrgen.g.rules {
		fmt.Fprintf(w, "Rule %d: %s\n", r.Serial, r)
	}
	fmt.Fprintf(w, "\n")
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		lrgen.DumpState(w, states.Value().(*CFSMState).ID)
	}
	fmt.Fprintf(w, "\n")
	conflicts := lrgen.Conflicts()
	fmt.Fprintf(w, "Conflicts (%d)\n\n", len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(w, "%s/%s conflict (defaulting to %s)\n", c.Chosen.Op, c.Other.Op, c.Chosen.Op)
		fmt.Fprintf(w, "- %s\n", lrgen.describeInstr(c.Chosen, c.Lookahead))
		fmt.Fprintf(w, "- %s\n", lrgen.describeInstr(c.Other, c.Lookahead))
	}
}

// DumpState writes one state: its kernel items in "A -> α . β" form,
// followed by the shift/reduce/accept rows of the action table.
func (lrgen *TableGenerator) DumpState(w io.Writer, stateID int) {
	state := lrgen.dfa.State(stateID)
	if state == nil {
		fmt.Fprintf(w, "state %d (unknown)\n\n", stateID)
		return
	}
	fmt.Fprintf(w, "state %d\n\n", stateID)
	for _, x := range state.items.Values() {
		i := asItem(x)
		if i.IsKernel() {
			fmt.Fprintf(w, "    %s\n", i)
		}
	}
	fmt.Fprintf(w, "\n")
	lrgen.g.EachSymbol(func(sym string) {
		if !lrgen.g.IsTerminal(sym) {
			return
		}
		instr, ok := lrgen.Instruction(stateID, sym)
		if !ok {
			return
		}
		switch instr.Op {
		case Shift:
			fmt.Fprintf(w, "    %-12s shift and go to state %d\n", sym, instr.Value)
		case Reduce:
			fmt.Fprintf(w, "    %-12s reduce using rule %d\n", sym, instr.Value)
		case Accept:
			fmt.Fprintf(w, "    %-12s accept\n", sym)
		}
	})
	fmt.Fprintf(w, "\n")
}

// describeInstr renders one side of a conflict report.
func (lrgen *TableGenerator) describeInstr(instr ParseInstr, lookahead string) string {
	switch instr.Op {
	case Shift:
		return fmt.Sprintf("shift and go to state %d on lookahead %s", instr.Value, lookahead)
	case Reduce:
		rhs := lrgen.g.Rule(instr.Value).rhs
		return fmt.Sprintf("reduce using rule %d on terminal %s", instr.Value, lrgen.rightmostTerminal(rhs))
	case Goto:
		return fmt.Sprintf("go to state %d", instr.Value)
	}
	return "accept"
}
