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

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/project-verona/verona-go/ast"
	"github.com/project-verona/verona-go/internal/core/lang"
	"github.com/project-verona/verona-go/internal/core/lang/reader"
	"github.com/project-verona/verona-go/internal/core/rewrite"
	"github.com/project-verona/verona-go/token"
)

const sourceExt = ".verona"

// pipelineConfig is the shape of an optional --config file: an explicit
// subsequence of pass names to run instead of the full Pipeline, in the
// order given.
type pipelineConfig struct {
	Passes []string `yaml:"passes"`
}

func newRootCmd() *cobra.Command {
	var (
		passName    string
		diagFormat  string
		configPath  string
		dumpFormat  string
	)

	cmd := &cobra.Command{
		Use:   "veronac <path>",
		Short: "Run the Verona pass pipeline over a source file or module directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], passName, diagFormat, configPath, dumpFormat)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&passName, "pass", "", "stop after this pass and dump its tree (or \"wf:<name>\" to print its schema grammar instead of running anything)")
	flags.StringVar(&diagFormat, "diagnostics", "list", "diagnostics output format: list or json")
	flags.StringVar(&configPath, "config", "", "YAML file overriding which passes run, and in what order")
	flags.StringVar(&dumpFormat, "format", "text", "AST dump format: text (parenthesised) or yaml")

	return cmd
}

func run(cmd *cobra.Command, path, passName, diagFormat, configPath, dumpFormat string) error {
	if strings.HasPrefix(passName, "wf:") {
		return printSchema(cmd, strings.TrimPrefix(passName, "wf:"))
	}

	passes, err := resolvePasses(configPath)
	if err != nil {
		return err
	}
	if passName != "" {
		for i, p := range passes {
			if p.Name == passName {
				passes = passes[:i+1]
				break
			}
		}
	}

	root, err := readSource(path)
	if err != nil {
		return err
	}

	results := rewrite.Pipeline(root, passes)

	var (
		last    rewrite.StepResult
		reached bool
	)
	for _, res := range results {
		last = res
		if res.Pass == passName {
			reached = true
			break
		}
	}
	if passName != "" && !reached {
		return fmt.Errorf("veronac: no such pass %q (known passes: %s)", passName, strings.Join(lang.PassNames(), ", "))
	}

	if err := printDiagnostics(cmd, last, diagFormat); err != nil {
		return err
	}
	if len(last.Errors) > 0 || len(last.WFBugs) > 0 {
		return fmt.Errorf("veronac: pipeline stopped at %q", last.Pass)
	}

	return printDump(cmd, last.Root, dumpFormat)
}

func resolvePasses(configPath string) ([]rewrite.Pass, error) {
	all := lang.Pipeline()
	if configPath == "" {
		return all, nil
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("veronac: reading config: %w", err)
	}
	var cfg pipelineConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("veronac: parsing config: %w", err)
	}
	if len(cfg.Passes) == 0 {
		return all, nil
	}

	byName := make(map[string]rewrite.Pass, len(all))
	for _, p := range all {
		byName[p.Name] = p
	}
	out := make([]rewrite.Pass, 0, len(cfg.Passes))
	for _, name := range cfg.Passes {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("veronac: config names unknown pass %q", name)
		}
		out = append(out, p)
	}
	return out, nil
}

// readSource discovers and reads `.verona` source at path: a single file
// becomes one File; a directory becomes one ModuleDir holding every
// `.verona` file under it in path order, with the files under its "std"
// subdirectory read last. The ModuleDir carries no name (the directory's
// base name is not used), and no standard library is looked for outside
// path.
func readSource(path string) (*ast.Node, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()

	if !info.IsDir() {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		file, errs := reader.ReadFile(fset, path, src)
		if errs.Len() > 0 {
			return nil, errs
		}
		return file, nil
	}

	names, sources, err := discoverModuleFiles(path)
	if err != nil {
		return nil, err
	}
	dir, errs := reader.ReadDir(fset, names, sources)
	if errs.Len() > 0 {
		return nil, errs
	}
	return dir, nil
}

func discoverModuleFiles(dir string) ([]string, map[string][]byte, error) {
	var own, std []string
	sources := map[string][]byte{}

	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != sourceExt {
			return nil
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		sources[p] = src
		rel, _ := filepath.Rel(dir, p)
		if strings.HasPrefix(rel, "std"+string(filepath.Separator)) {
			std = append(std, p)
		} else {
			own = append(own, p)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(own)
	sort.Strings(std)
	return append(own, std...), sources, nil
}

func printSchema(cmd *cobra.Command, name string) error {
	for _, p := range lang.Pipeline() {
		if p.Name == name {
			fmt.Fprintln(cmd.OutOrStdout(), p.Schema.Describe())
			return nil
		}
	}
	return fmt.Errorf("veronac: no such pass %q (known passes: %s)", name, strings.Join(lang.PassNames(), ", "))
}

func printDiagnostics(cmd *cobra.Command, res rewrite.StepResult, format string) error {
	all := append(append([]string(nil), res.Errors...), res.WFBugs...)
	if len(all) == 0 {
		return nil
	}
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.ErrOrStderr())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Pass   string   `json:"pass"`
			Errors []string `json:"errors,omitempty"`
			WFBugs []string `json:"wf_bugs,omitempty"`
		}{Pass: res.Pass, Errors: res.Errors, WFBugs: res.WFBugs})
	default:
		for _, msg := range all {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}
		return nil
	}
}

func printDump(cmd *cobra.Command, root *ast.Node, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(yamlDump(root))
	default:
		fmt.Fprintln(cmd.OutOrStdout(), ast.Dump(root))
		return nil
	}
}

// yamlDump mirrors ast.Dump's shape as a tree of plain maps, for the
// `--format=yaml` structured dump: the same debug affordance the WF grammar
// printer offers, carried over to the tree dump too, for tooling that
// doesn't want to write a parser for the parenthesised text form.
func yamlDump(n *ast.Node) map[string]any {
	out := map[string]any{"kind": n.Kind().String()}
	if loc := n.Location(); loc != "" {
		out["text"] = loc
	}
	children := n.Children()
	if len(children) == 0 {
		return out
	}
	kids := make([]map[string]any, len(children))
	for i, c := range children {
		kids[i] = yamlDump(c)
	}
	out["children"] = kids
	return out
}
