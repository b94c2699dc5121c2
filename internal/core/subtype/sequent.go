// Copyright 2024 The Verona Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package subtype

import (
	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/internal/core/lang"
)

// sequent holds the pending and atomic queues of one `Γ ⊢ Δ` goal. pending
// holds formulae still being broken down by structural
// rules; atomic holds the ones left once no further rule applies, which
// get compared pairwise once both queues are drained.
type sequent struct {
	lhsPending, rhsPending []Bound
	lhsAtomic, rhsAtomic   []Bound
}

// reduce decides whether the single goal `l ⊢ r` holds.
func reduce(l, r Bound) bool {
	s := sequent{lhsPending: []Bound{l}, rhsPending: []Bound{r}}
	return s.reduce()
}

func (s sequent) clone() sequent {
	return sequent{
		lhsPending: append([]Bound(nil), s.lhsPending...),
		rhsPending: append([]Bound(nil), s.rhsPending...),
		lhsAtomic:  append([]Bound(nil), s.lhsAtomic...),
		rhsAtomic:  append([]Bound(nil), s.rhsAtomic...),
	}
}

func pop(stack *[]Bound) Bound {
	n := len(*stack)
	b := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return b
}

func (s sequent) reduce() bool {
	for len(s.rhsPending) > 0 {
		r := pop(&s.rhsPending)

		switch r.Node.Kind() {
		case lang.TypeUnion:
			// Γ ⊢ Δ, A, B
			// -------------
			// Γ ⊢ Δ, (A | B)
			for _, t := range r.Node.Children() {
				s.rhsPending = append(s.rhsPending, r.rebind(t))
			}

		case lang.TypeIsect:
			// A RHS intersection is a sequent split: the goal holds only if
			// every conjunct holds independently.
			for _, t := range r.Node.Children() {
				branch := s.clone()
				branch.rhsPending = append(branch.rhsPending, r.rebind(t))
				if !branch.reduce() {
					return false
				}
			}
			return true

		case lang.TypeAlias:
			// Try both the alias name and its unfolding.
			s.rhsPending = append(s.rhsPending, r.rebind(aliasTarget(r.Node)))
			s.rhsAtomic = append(s.rhsAtomic, r)

		case lang.TypeView:
			// If New couldn't reduce this TypeView any further, one side is
			// an unresolved TypeParam or TypeVar; leave it out of both
			// queues rather than guessing at a resolution.

		default:
			s.rhsAtomic = append(s.rhsAtomic, r)
		}
	}

	for len(s.lhsPending) > 0 {
		l := pop(&s.lhsPending)

		switch l.Node.Kind() {
		case lang.TypeIsect:
			// Γ, A, B ⊢ Δ
			// -------------
			// Γ, (A & B) ⊢ Δ
			for _, t := range l.Node.Children() {
				s.lhsPending = append(s.lhsPending, l.rebind(t))
			}

		case lang.TypeUnion:
			// A LHS union is a sequent split: the goal holds only if every
			// disjunct holds independently.
			for _, t := range l.Node.Children() {
				branch := s.clone()
				branch.lhsPending = append(branch.lhsPending, l.rebind(t))
				if !branch.reduce() {
					return false
				}
			}
			return true

		case lang.TypeAlias:
			s.lhsPending = append(s.lhsPending, l.rebind(aliasTarget(l.Node)))
			s.lhsAtomic = append(s.lhsAtomic, l)

		case lang.TypeParam:
			// Try both the typeparam itself (for an exact match against an
			// identical typeparam on the other side) and its upper bound.
			if bound := typeParamBound(l.Node); bound != nil {
				s.lhsPending = append(s.lhsPending, l.rebind(bound))
			}
			s.lhsAtomic = append(s.lhsAtomic, l)

		case lang.TypeView:
			// If New couldn't reduce this TypeView any further, one side is
			// an unresolved TypeParam or TypeVar; leave it out of both
			// queues rather than guessing at a resolution.

		default:
			s.lhsAtomic = append(s.lhsAtomic, l)
		}
	}

	// An empty side makes the sequent trivially true.
	if len(s.lhsAtomic) == 0 || len(s.rhsAtomic) == 0 {
		return true
	}

	// Γ, A ⊢ Δ, A: the goal holds if some atomic LHS formula matches some
	// atomic RHS formula.
	for _, l := range s.lhsAtomic {
		for _, r := range s.rhsAtomic {
			if atomicMatch(l, r) {
				return true
			}
		}
	}
	return false
}

func typeParamBound(tp *ast.Node) *ast.Node {
	c := tp.Children()
	if len(c) < 2 {
		return nil
	}
	return c[1]
}
