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

// Package golden drives txtar-format tests: a single archive bundles one or
// more `.verona` source files alongside one golden file per inspected pass
// ("out/<passname>"). Each Test compares the pipeline's actual dump for a
// pass against its golden file, and rewrites the golden file in place when
// VERONA_UPDATE is set in the environment.
package golden

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rogpeppe/go-internal/txtar"
)

// updateEnv is the environment variable that, when non-empty, makes every
// Test rewrite its own txtar file with the actual output instead of failing
// on a mismatch.
const updateEnv = "VERONA_UPDATE"

// Suite walks Root for *.txtar files and runs fn once per file as a
// subtest, named after the file's path relative to Root.
type Suite struct {
	// Root is the directory to search for *.txtar fixtures.
	Root string
}

// Run invokes fn once per txtar fixture under s.Root.
func (s Suite) Run(t *testing.T, fn func(t *testing.T, tc *Test)) {
	var paths []string
	err := filepath.WalkDir(s.Root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".txtar" {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(paths)

	for _, p := range paths {
		p := p
		rel, _ := filepath.Rel(s.Root, p)
		t.Run(rel, func(t *testing.T) {
			a, err := txtar.ParseFile(p)
			if err != nil {
				t.Fatal(err)
			}
			tc := &Test{T: t, path: p, archive: a, update: os.Getenv(updateEnv) != ""}
			fn(t, tc)
			tc.flush()
		})
	}
}

// Test is one txtar fixture: its non-"out/" files are the sources under
// test, and its "out/<name>" files are the goldens that Check compares
// against.
type Test struct {
	*testing.T

	path    string
	archive *txtar.Archive
	update  bool
	dirty   bool
}

// Sources returns every archive file that isn't a golden ("out/"-prefixed),
// keyed by file name; SourceNames gives the same names in archive order.
func (tc *Test) Sources() map[string][]byte {
	out := make(map[string][]byte)
	for _, f := range tc.archive.Files {
		if !isGolden(f.Name) {
			out[f.Name] = f.Data
		}
	}
	return out
}

// SourceNames returns the names from Sources, in archive order.
func (tc *Test) SourceNames() []string {
	var names []string
	for _, f := range tc.archive.Files {
		if !isGolden(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names
}

// Check compares got against the golden file "out/<name>". With
// VERONA_UPDATE set, it instead stores got as that file's new content, and
// the enclosing Suite.Run writes the updated archive back once the test
// function returns.
func (tc *Test) Check(name string, got []byte) {
	tc.Helper()
	goldName := "out/" + name
	for i, f := range tc.archive.Files {
		if f.Name == goldName {
			if bytes.Equal(f.Data, got) {
				return
			}
			if tc.update {
				tc.archive.Files[i].Data = got
				tc.dirty = true
				return
			}
			tc.Errorf("golden mismatch for %s:\n--- want\n%s\n--- got\n%s", goldName, f.Data, got)
			return
		}
	}
	if tc.update {
		tc.archive.Files = append(tc.archive.Files, txtar.File{Name: goldName, Data: got})
		tc.dirty = true
		return
	}
	tc.Errorf("missing golden file %s; rerun with %s=1 to create it", goldName, updateEnv)
}

func (tc *Test) flush() {
	if !tc.dirty {
		return
	}
	if err := os.WriteFile(tc.path, txtar.Format(tc.archive), 0o644); err != nil {
		tc.Fatal(err)
	}
}

func isGolden(name string) bool {
	return len(name) >= 4 && name[:4] == "out/"
}
