package devolution

import (
	"github.com/samber/lo"

	"github.com/mtlprog/succession/internal/domain"
)

// maxChainDepth bounds representation chains when walking the forest.
const maxChainDepth = 4

type stirpsNode struct {
	id       string
	heir     int // index into members, -1 for a predeceased ancestor who is not listed
	children []int
}

// Forest groups representatives under the heir they represent.
// Nodes live in a single arena and refer to each other by index.
type Forest struct {
	members []domain.FamilyMember
	nodes   []stirpsNode
	roots   []int
	byID    map[string]int
	loose   []int
}

// NewForest builds the stirps of one class of heirs in a single grouping pass.
// head is the relationship of the stirps founders (children, siblings);
// representatives are the relationships allowed to step into their place.
func NewForest(members []domain.FamilyMember, head domain.Relationship, representatives ...domain.Relationship) *Forest {
	f := &Forest{members: members, byID: make(map[string]int)}
	belongs := func(r domain.Relationship) bool {
		return r == head || lo.Contains(representatives, r)
	}

	for i, m := range members {
		if !belongs(m.Relationship) {
			continue
		}
		f.byID[m.ID] = len(f.nodes)
		f.nodes = append(f.nodes, stirpsNode{id: m.ID, heir: i})
	}

	listed := len(f.nodes)
	for n := range listed {
		m := members[f.nodes[n].heir]
		switch {
		case m.RepresentsID != "":
			parent, ok := f.byID[m.RepresentsID]
			if !ok {
				if lo.ContainsBy(members, func(o domain.FamilyMember) bool { return o.ID == m.RepresentsID }) {
					f.loose = append(f.loose, n)
					continue
				}
				parent = len(f.nodes)
				f.byID[m.RepresentsID] = parent
				f.nodes = append(f.nodes, stirpsNode{id: m.RepresentsID, heir: -1})
				f.roots = append(f.roots, parent)
			}
			f.nodes[parent].children = append(f.nodes[parent].children, n)
		case m.Relationship == head:
			f.roots = append(f.roots, n)
		default:
			f.loose = append(f.loose, n)
		}
	}

	// Without any founder, unattached representatives inherit in their own right.
	if len(f.roots) == 0 {
		f.roots, f.loose = f.loose, nil
	}
	return f
}

func (f *Forest) takesDirectly(n int) bool {
	node := f.nodes[n]
	return node.heir >= 0 && !f.members[node.heir].Renounces()
}

func (f *Forest) alive(n, depth int) bool {
	if depth > maxChainDepth {
		return false
	}
	if f.takesDirectly(n) {
		return true
	}
	return lo.SomeBy(f.nodes[n].children, func(c int) bool { return f.alive(c, depth+1) })
}

func (f *Forest) aliveRoots() []int {
	return lo.Filter(f.roots, func(r int, _ int) bool { return f.alive(r, 0) })
}

// Stirps returns the number of stirps that still inherit.
func (f *Forest) Stirps() int {
	return len(f.aliveRoots())
}

// Empty reports whether no stirps inherits.
func (f *Forest) Empty() bool {
	return f.Stirps() == 0
}

// Loose returns the representatives that were excluded because founders exist and they represent nobody.
func (f *Forest) Loose() []domain.FamilyMember {
	return lo.Map(f.loose, func(n int, _ int) domain.FamilyMember { return f.members[f.nodes[n].heir] })
}

// Distribute splits total equally between the living stirps, then equally inside each stirps.
func (f *Forest) Distribute(a *allocation, total domain.Fraction) {
	roots := f.aliveRoots()
	if len(roots) == 0 {
		return
	}
	part := total.Split(len(roots))
	for _, r := range roots {
		f.descend(a, r, part, 0)
	}
}

func (f *Forest) descend(a *allocation, n int, share domain.Fraction, depth int) {
	if f.takesDirectly(n) {
		a.add(f.nodes[n].heir, share)
		if depth > 0 {
			a.represented[f.nodes[n].heir] = true
		}
		return
	}
	kids := lo.Filter(f.nodes[n].children, func(c int, _ int) bool { return f.alive(c, depth+1) })
	if len(kids) == 0 {
		return
	}
	part := share.Split(len(kids))
	for _, c := range kids {
		f.descend(a, c, part, depth+1)
	}
}

// Descendants builds the forest of the deceased's descendants.
func Descendants(members []domain.FamilyMember) *Forest {
	return NewForest(members, domain.RelChild, domain.RelGrandchild, domain.RelGreatGrandchild)
}

// Siblings builds the forest of privileged collaterals: siblings represented by nephews and nieces.
func Siblings(members []domain.FamilyMember) *Forest {
	return NewForest(members, domain.RelSibling, domain.RelNephewNiece)
}
