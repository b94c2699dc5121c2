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

package ast

import (
	"fmt"
	"strings"
)

// Dump renders n as a parenthesised, whitespace-insensitive text form: each
// node is `(kind children...)`, with a Print-capability leaf rendering its
// source slice inline. This is the only persisted artifact the pipeline
// produces, and is the comparison surface for golden tests (internal/golden)
// and for round-trip / idempotence checks.
func Dump(n *Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	b.WriteByte('(')
	b.WriteString(n.kind.String())
	if n.kind.Has(Print) {
		if loc := n.Location(); loc != "" {
			fmt.Fprintf(b, " %q", loc)
		} else if n.literal != nil {
			fmt.Fprintf(b, " %s", n.literal.String())
		}
	}
	for _, c := range n.children {
		b.WriteByte(' ')
		dump(b, c, depth+1)
	}
	b.WriteByte(')')
}

// DumpIndented renders n the same way as Dump but with each child on its own
// indented line, for human inspection (`cmd/veronac --pass=<name>`).
func DumpIndented(n *Node) string {
	var b strings.Builder
	dumpIndented(&b, n, 0)
	return b.String()
}

func dumpIndented(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("<nil>\n")
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteByte('(')
	b.WriteString(n.kind.String())
	if n.kind.Has(Print) {
		if loc := n.Location(); loc != "" {
			fmt.Fprintf(b, " %q", loc)
		} else if n.literal != nil {
			fmt.Fprintf(b, " %s", n.literal.String())
		}
	}
	if len(n.children) == 0 {
		b.WriteString(")\n")
		return
	}
	b.WriteString("\n")
	for _, c := range n.children {
		dumpIndented(b, c, depth+1)
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(")\n")
}
