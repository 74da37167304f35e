package rtlir

import "strings"

// Selection tags which modules, cells, and wires a pass operates on. The
// zero Selection selects nothing; FullSelection selects everything.
//
// Selections are built from predicates of the form "module" (the whole
// module) or "module/member" (one cell or wire).
type Selection struct {
	full    bool
	modules map[string]bool            // whole module selected
	members map[string]map[string]bool // per-module member names
}

// FullSelection selects every module and every member.
func FullSelection() Selection {
	return Selection{full: true}
}

// ParseSelection builds a selection from predicate arguments. An empty
// argument list selects the full design.
func ParseSelection(args []string) Selection {
	if len(args) == 0 {
		return FullSelection()
	}
	sel := Selection{
		modules: make(map[string]bool),
		members: make(map[string]map[string]bool),
	}
	for _, arg := range args {
		if mod, member, ok := strings.Cut(arg, "/"); ok {
			mod, member = EscapeID(mod), EscapeID(member)
			if sel.members[mod] == nil {
				sel.members[mod] = make(map[string]bool)
			}
			sel.members[mod][member] = true
		} else {
			sel.modules[EscapeID(arg)] = true
		}
	}
	return sel
}

// SelectedModule reports whether any part of the module is in scope.
func (s Selection) SelectedModule(name string) bool {
	if s.full {
		return true
	}
	return s.modules[name] || len(s.members[name]) > 0
}

// SelectedMember reports whether a cell or wire is in scope.
func (s Selection) SelectedMember(module, member string) bool {
	if s.full || s.modules[module] {
		return true
	}
	return s.members[module][member]
}

// SelectedModules returns the in-scope modules of a design, ordered by name.
func (s Selection) SelectedModules(d *Design) []*Module {
	var out []*Module
	for _, m := range d.SortedModules() {
		if s.SelectedModule(m.Name) {
			out = append(out, m)
		}
	}
	return out
}

// SelectedCells returns the in-scope cells of a module, ordered by name.
func (s Selection) SelectedCells(m *Module) []*Cell {
	var out []*Cell
	for _, c := range m.SortedCells() {
		if s.SelectedMember(m.Name, c.Name) {
			out = append(out, c)
		}
	}
	return out
}

// SelectedWires returns the in-scope wires of a module, ordered by name.
func (s Selection) SelectedWires(m *Module) []*Wire {
	var out []*Wire
	for _, w := range m.SortedWires() {
		if s.SelectedMember(m.Name, w.Name) {
			out = append(out, w)
		}
	}
	return out
}
