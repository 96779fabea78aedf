// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"path"
	"strconv"
	"strings"

	"github.com/open2b/markup/ast"
	"github.com/open2b/markup/ir"

	"golang.org/x/tools/imports"
)

// File is a Go source file with the templates to generate.
type File struct {
	Package   string          // package name.
	Source    string          // name of the source, written in the header, if not empty.
	Templates []*ast.Template // templates to generate.
}

// Emit lowers the templates of file and returns the formatted Go source of
// the file. For each template it declares a struct type, with the fields of
// the template, and the methods Render and String.
//
// The expressions of the templates can refer to packages without importing
// them, missing imports are added as goimports does.
//
// Emit returns an error if the Markdown conversion fails or if the source
// of a template is not valid Go, for example because of a syntax error in an
// expression.
func Emit(file *File, opts *Options) ([]byte, error) {

	blocks := make([]ir.Block, len(file.Templates))
	shows := 0
	for i, tmpl := range file.Templates {
		block, err := Lower(tmpl.Nodes, opts)
		if err != nil {
			return nil, fmt.Errorf("markup: %s: %w", tmpl.Name, err)
		}
		blocks[i] = block
		shows += block.Stats().Shows
	}

	rtPath := opts.runtimePath()
	declared := declaredNames(file.Templates, blocks)
	em := &emitter{
		io:      importName("io", "markupio", declared),
		strings: importName("strings", "markupstrings", declared),
		rt:      importName(rtPath, "markupruntime", declared),
	}

	var src bytes.Buffer
	if file.Source == "" {
		src.WriteString("// Code generated by markup. DO NOT EDIT.\n\n")
	} else {
		fmt.Fprintf(&src, "// Code generated by markup from %s. DO NOT EDIT.\n\n", file.Source)
	}
	fmt.Fprintf(&src, "package %s\n\n", file.Package)
	src.WriteString("import (\n")
	writeImport(&src, em.io, "io")
	writeImport(&src, em.strings, "strings")
	if shows > 0 {
		src.WriteByte('\n')
		writeImport(&src, em.rt, rtPath)
	}
	src.WriteString(")\n")

	for i, tmpl := range file.Templates {
		em.b.Reset()
		em.template(tmpl, blocks[i])
		err := checkDecl(em.b.Bytes())
		if err != nil {
			return nil, fmt.Errorf("markup: %s: %w", tmpl.Name, err)
		}
		src.WriteByte('\n')
		src.Write(em.b.Bytes())
	}

	out, err := imports.Process("", src.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("markup: %w", err)
	}

	return out, nil
}

// checkDecl checks that decl contains valid Go declarations.
func checkDecl(decl []byte) error {
	src := make([]byte, 0, len(decl)+10)
	src = append(src, "package p\n"...)
	src = append(src, decl...)
	_, err := parser.ParseFile(token.NewFileSet(), "", src, parser.SkipObjectResolution)
	return err
}

// writeImport writes the import spec of the package with path pkgPath,
// referred with the given name.
func writeImport(b *bytes.Buffer, name, pkgPath string) {
	if name == path.Base(pkgPath) {
		fmt.Fprintf(b, "\t%q\n", pkgPath)
		return
	}
	fmt.Fprintf(b, "\t%s %q\n", name, pkgPath)
}

// importName returns the name the generated code refers to the package with
// path pkgPath. It is the last element of the path, or alias if the last
// element is not a valid package name or is declared by a template.
func importName(pkgPath, alias string, declared map[string]bool) string {
	name := path.Base(pkgPath)
	if isPackageName(name) && !declared[name] {
		return name
	}
	for declared[alias] {
		alias = "_" + alias
	}
	return alias
}

// isPackageName reports whether name, the last element of an import path,
// can be used as the package name. A major version suffix, as "v2", cannot.
func isPackageName(name string) bool {
	if !token.IsIdentifier(name) || name == "_" {
		return false
	}
	return !(len(name) > 1 && name[0] == 'v' && strings.Trim(name[1:], "0123456789") == "")
}

// declaredNames returns the names declared in the methods of the templates:
// type parameters, fields, and the variables of the for loops in blocks.
func declaredNames(templates []*ast.Template, blocks []ir.Block) map[string]bool {
	names := map[string]bool{}
	for _, tmpl := range templates {
		for _, p := range tmpl.TypeParams {
			names[p.Name] = true
		}
		for _, field := range tmpl.Fields {
			names[field.Name] = true
		}
	}
	for _, block := range blocks {
		loopNames(block, names)
	}
	return names
}

// loopNames adds to names the variables of the for loops in block.
func loopNames(block ir.Block, names map[string]bool) {
	for _, op := range block {
		switch op := op.(type) {
		case *ir.If:
			for _, br := range op.Branches {
				loopNames(br.Body, names)
			}
			loopNames(op.Else, names)
		case *ir.For:
			if op.Pattern != "" {
				for _, name := range strings.Split(op.Pattern, ",") {
					names[strings.TrimSpace(name)] = true
				}
			}
			loopNames(op.Body, names)
		}
	}
}

// emitter emits the Go declarations of templates.
type emitter struct {
	b       bytes.Buffer
	io      string // name of the io package.
	strings string // name of the strings package.
	rt      string // name of the runtime package.
}

// template emits the declarations of tmpl with the operations of block.
func (em *emitter) template(tmpl *ast.Template, block ir.Block) {

	var params, args string
	if len(tmpl.TypeParams) > 0 {
		ps := make([]string, len(tmpl.TypeParams))
		as := make([]string, len(tmpl.TypeParams))
		for i, p := range tmpl.TypeParams {
			ps[i] = p.Name + " " + p.Constraint
			as[i] = p.Name
		}
		params = "[" + strings.Join(ps, ", ") + "]"
		args = "[" + strings.Join(as, ", ") + "]"
	}

	// Type declaration.
	if len(tmpl.Fields) == 0 {
		fmt.Fprintf(&em.b, "type %s%s struct{}\n\n", tmpl.Name, params)
	} else {
		fmt.Fprintf(&em.b, "type %s%s struct {\n", tmpl.Name, params)
		for _, field := range tmpl.Fields {
			fmt.Fprintf(&em.b, "\t%s %s\n", field.Name, field.Type)
		}
		em.b.WriteString("}\n\n")
	}

	// Render method.
	fmt.Fprintf(&em.b, "// Render renders %s to __w.\n", tmpl.Name)
	fmt.Fprintf(&em.b, "func (__t %s%s) Render(__w %s.Writer) error {\n", tmpl.Name, args, em.io)
	if len(tmpl.Fields) > 0 {
		names := make([]string, len(tmpl.Fields))
		values := make([]string, len(tmpl.Fields))
		blanks := make([]string, len(tmpl.Fields))
		for i, field := range tmpl.Fields {
			names[i] = field.Name
			values[i] = "__t." + field.Name
			blanks[i] = "_"
		}
		fmt.Fprintf(&em.b, "\t%s := %s\n", strings.Join(names, ", "), strings.Join(values, ", "))
		fmt.Fprintf(&em.b, "\t%s = %s\n", strings.Join(blanks, ", "), strings.Join(names, ", "))
	}
	em.block(block, 1)
	em.b.WriteString("\treturn nil\n}\n\n")

	// String method.
	fmt.Fprintf(&em.b, "// String returns %s rendered.\n", tmpl.Name)
	fmt.Fprintf(&em.b, "func (__t %s%s) String() string {\n", tmpl.Name, args)
	fmt.Fprintf(&em.b, "\tvar __b %s.Builder\n\t_ = __t.Render(&__b)\n\treturn __b.String()\n}\n", em.strings)
}

// block emits the statements of the operations of block.
func (em *emitter) block(block ir.Block, depth int) {
	indent := strings.Repeat("\t", depth)
	for _, op := range block {
		switch op := op.(type) {
		case *ir.Write:
			fmt.Fprintf(&em.b, "%sif _, __err := %s.WriteString(__w, %s); __err != nil {\n", indent, em.io, strconv.Quote(op.Text))
			fmt.Fprintf(&em.b, "%s\treturn __err\n%s}\n", indent, indent)
		case *ir.Show:
			fmt.Fprintf(&em.b, "%sif __err := %s.Render(__w, %s); __err != nil {\n", indent, em.rt, op.Expr)
			fmt.Fprintf(&em.b, "%s\treturn __err\n%s}\n", indent, indent)
		case *ir.If:
			for i, br := range op.Branches {
				if i == 0 {
					fmt.Fprintf(&em.b, "%sif %s {\n", indent, br.Cond)
				} else {
					fmt.Fprintf(&em.b, "%s} else if %s {\n", indent, br.Cond)
				}
				em.block(br.Body, depth+1)
			}
			if op.Else != nil {
				fmt.Fprintf(&em.b, "%s} else {\n", indent)
				em.block(op.Else, depth+1)
			}
			fmt.Fprintf(&em.b, "%s}\n", indent)
		case *ir.For:
			switch {
			case op.Pattern == "":
				fmt.Fprintf(&em.b, "%sfor range %s {\n", indent, op.Iterable)
			case isBlankPattern(op.Pattern):
				fmt.Fprintf(&em.b, "%sfor %s = range %s {\n", indent, op.Pattern, op.Iterable)
			default:
				fmt.Fprintf(&em.b, "%sfor %s := range %s {\n", indent, op.Pattern, op.Iterable)
			}
			em.block(op.Body, depth+1)
			fmt.Fprintf(&em.b, "%s}\n", indent)
		default:
			panic(fmt.Sprintf("compiler: unexpected operation %T", op))
		}
	}
}

// isBlankPattern reports whether pattern has only blank identifiers. A
// range clause with only blank identifiers must use "=" instead of ":=".
func isBlankPattern(pattern string) bool {
	for _, name := range strings.Split(pattern, ",") {
		if strings.TrimSpace(name) != "_" {
			return false
		}
	}
	return true
}
