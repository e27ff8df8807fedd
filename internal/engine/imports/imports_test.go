package imports

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		stmt string
		want Record
	}{
		{
			"named bindings",
			"import { join, resolve } from 'path'",
			Record{Source: "path", Bindings: []Binding{
				{Text: "join", Local: "join"},
				{Text: "resolve", Local: "resolve"},
			}},
		},
		{
			"default import",
			"import express from 'express';",
			Record{Source: "express", Default: "express"},
		},
		{
			"namespace import",
			"import * as fs from 'fs'",
			Record{Source: "fs", Namespace: "fs"},
		},
		{
			"default plus named",
			"import React, { useState } from 'react'",
			Record{Source: "react", Default: "React", Bindings: []Binding{
				{Text: "useState", Local: "useState"},
			}},
		},
		{
			"renamed binding",
			"import { join as pathJoin } from 'path'",
			Record{Source: "path", Bindings: []Binding{
				{Text: "join as pathJoin", Local: "pathJoin"},
			}},
		},
		{
			"statement-level type import",
			"import type { Config } from './config'",
			Record{Source: "./config", TypeOnly: true, Bindings: []Binding{
				{Text: "Config", Local: "Config"},
			}},
		},
		{
			"per-binding type import",
			"import { type Options, run } from './runner'",
			Record{Source: "./runner", Bindings: []Binding{
				{Text: "Options", Local: "Options", TypeOnly: true},
				{Text: "run", Local: "run"},
			}},
		},
		{
			"side-effect import",
			"import './polyfill'",
			Record{Source: "./polyfill", SideEffect: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.stmt)
			if !ok {
				t.Fatalf("Parse(%q) not recognized", tt.stmt)
			}
			got.Raw = ""
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.stmt, got, tt.want)
			}
		})
	}
}

func TestParseRejectsNonImport(t *testing.T) {
	if _, ok := Parse("export const x = 1"); ok {
		t.Error("Parse accepted a non-import statement")
	}
}

func TestOptimizeDropsUnusedBindings(t *testing.T) {
	records := parseAll(t,
		"import { Foo, Bar } from './types'",
		"import { Baz } from './unused'",
	)
	got := render(Optimize(records, "declare const x: Foo;", nil))
	want := []string{"import { Foo } from './types';"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Optimize = %v, want %v", got, want)
	}
}

func TestOptimizeWholeWordMatching(t *testing.T) {
	records := parseAll(t, "import { Foo } from './types'")
	// FooBar contains Foo as a substring only; the import must go.
	got := Optimize(records, "declare const x: FooBar;", nil)
	if len(got) != 0 {
		t.Errorf("substring match retained import: %v", render(got))
	}
}

func TestOptimizeKeepsSideEffectImports(t *testing.T) {
	records := parseAll(t, "import './polyfill'")
	got := render(Optimize(records, "", nil))
	want := []string{"import './polyfill';"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Optimize = %v, want %v", got, want)
	}
}

func TestOptimizeDefaultAndNamespace(t *testing.T) {
	records := parseAll(t,
		"import express from 'express'",
		"import * as path from 'path'",
	)
	got := render(Optimize(records, "declare const app: express.Application;", nil))
	want := []string{"import express from 'express';"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Optimize = %v, want %v", got, want)
	}
}

func TestOptimizePartialRetention(t *testing.T) {
	records := parseAll(t, "import React, { useState, useEffect } from 'react'")
	got := render(Optimize(records, "declare function f(): ReturnType<typeof useState>;", nil))
	want := []string{"import { useState } from 'react';"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Optimize = %v, want %v", got, want)
	}
}

func TestOptimizePreferredOrdering(t *testing.T) {
	records := parseAll(t,
		"import { z } from 'zlib'",
		"import { readFile } from 'node:fs'",
		"import { b } from 'buffer'",
	)
	got := render(Optimize(records, "declare const a: [z, readFile, b];", []string{"node:fs"}))
	want := []string{
		"import { readFile } from 'node:fs';",
		"import { b } from 'buffer';",
		"import { z } from 'zlib';",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Optimize = %v, want %v", got, want)
	}
}

func TestRenderPreservesTypeClassification(t *testing.T) {
	tests := []struct {
		stmt string
		want string
	}{
		{"import type { A, B } from './t'", "import type { A, B } from './t';"},
		{"import { type A, b } from './m'", "import { type A, b } from './m';"},
		{"import d, { n } from 'mod'", "import d, { n } from 'mod';"},
		{"import * as ns from 'mod'", "import * as ns from 'mod';"},
	}
	for _, tt := range tests {
		rec, ok := Parse(tt.stmt)
		if !ok {
			t.Fatalf("Parse(%q) failed", tt.stmt)
		}
		// Retain everything: usage text mentions every local name.
		usage := "A B a b d n ns"
		got := render(Optimize([]Record{rec}, usage, nil))
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("render of %q = %v, want %q", tt.stmt, got, tt.want)
		}
	}
}

func parseAll(t *testing.T, stmts ...string) []Record {
	t.Helper()
	records := make([]Record, 0, len(stmts))
	for _, s := range stmts {
		rec, ok := Parse(s)
		if !ok {
			t.Fatalf("Parse(%q) failed", s)
		}
		records = append(records, rec)
	}
	return records
}

func render(retained []Retained) []string {
	out := make([]string, 0, len(retained))
	for _, r := range retained {
		out = append(out, r.Render())
	}
	return out
}
