package scanner

import (
	"strings"
	"testing"
)

func TestScanVariables(t *testing.T) {
	input := strings.Join([]string{
		"export const greeting = 'hello'",
		"let counter = 0;",
		"export const config: AppConfig = loadConfig()",
		"declare const VERSION: string",
		"var legacy;",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 5 {
		t.Fatalf("got %d declarations, want 5", len(decls))
	}

	tests := []struct {
		name       string
		binding    string
		annotation string
		value      string
		exported   bool
	}{
		{"greeting", "const", "", "'hello'", true},
		{"counter", "let", "", "0", false},
		{"config", "const", "AppConfig", "loadConfig()", true},
		{"VERSION", "const", "string", "", false},
		{"legacy", "var", "", "", false},
	}
	for i, tt := range tests {
		d := decls[i]
		if d.Kind != KindVariable {
			t.Errorf("decl %d: Kind = %v, want variable", i, d.Kind)
		}
		if d.Name != tt.name || d.Binding != tt.binding ||
			d.TypeAnnotation != tt.annotation || d.Value != tt.value ||
			d.Exported != tt.exported {
			t.Errorf("decl %d = {Name:%q Binding:%q Annot:%q Value:%q Exported:%v}, want %+v",
				i, d.Name, d.Binding, d.TypeAnnotation, d.Value, d.Exported, tt)
		}
	}
}

func TestScanDestructuringSkipped(t *testing.T) {
	decls, err := Scan("const { a, b } = pair;\nconst kept = 1;\n")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 1 || decls[0].Name != "kept" {
		t.Errorf("expected only the simple binding, got %+v", decls)
	}
}

func TestScanFunctionOverloads(t *testing.T) {
	input := strings.Join([]string{
		"export function pick(key: string): string;",
		"export function pick(key: number): number;",
		"export function pick(key: any): any {",
		"  return key;",
		"}",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 1 {
		t.Fatalf("got %d declarations, want 1 merged function", len(decls))
	}
	d := decls[0]
	if d.Kind != KindFunction || d.Name != "pick" {
		t.Fatalf("unexpected declaration %+v", d)
	}
	if len(d.Signatures) != 3 {
		t.Fatalf("got %d signatures, want 3", len(d.Signatures))
	}
	wantReturns := []string{"string", "number", "any"}
	for i, sig := range d.Signatures {
		if sig.ReturnType != wantReturns[i] {
			t.Errorf("signature %d return = %q, want %q", i, sig.ReturnType, wantReturns[i])
		}
	}
}

func TestScanObjectLiteralReturnType(t *testing.T) {
	input := strings.Join([]string{
		"export function box(): { a: number }",
		"export function box(): number { return 1 }",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 1 {
		t.Fatalf("got %d declarations, want 1 merged function", len(decls))
	}
	d := decls[0]
	if len(d.Signatures) != 2 {
		t.Fatalf("got %d signatures, want 2", len(d.Signatures))
	}
	if got := d.Signatures[0].ReturnType; got != "{ a: number }" {
		t.Errorf("signature 0 return = %q, want object literal type", got)
	}
	if got := d.Signatures[1].ReturnType; got != "number" {
		t.Errorf("signature 1 return = %q, want %q", got, "number")
	}
}

func TestScanSeparateFunctionsNotMerged(t *testing.T) {
	input := strings.Join([]string{
		"export function first(): void {}",
		"export function second(): void {}",
	}, "\n")
	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 2 {
		t.Errorf("got %d declarations, want 2", len(decls))
	}
}

func TestScanFunctionShapes(t *testing.T) {
	input := strings.Join([]string{
		"async function load(url: string): Promise<Data> {",
		"  return fetch(url);",
		"}",
		"export function map<T, U>(xs: T[], f: (x: T) => U): U[] {",
		"  return xs.map(f);",
		"}",
		"export default function greet(name = 'world') {}",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 3 {
		t.Fatalf("got %d declarations, want 3", len(decls))
	}

	if !decls[0].Signatures[0].Async || decls[0].Signatures[0].ReturnType != "Promise<Data>" {
		t.Errorf("async function parsed as %+v", decls[0].Signatures[0])
	}
	if decls[1].Signatures[0].Generics != "<T, U>" {
		t.Errorf("generics = %q, want <T, U>", decls[1].Signatures[0].Generics)
	}
	if decls[1].Signatures[0].Params != "xs: T[], f: (x: T) => U" {
		t.Errorf("params = %q", decls[1].Signatures[0].Params)
	}
	if !decls[2].Default || decls[2].Signatures[0].Params != "name" {
		t.Errorf("default function parsed as %+v", decls[2])
	}
}

func TestScanInterface(t *testing.T) {
	input := strings.Join([]string{
		"export interface User extends Base {",
		"  name: string;",
		"  greet(): string;",
		"}",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 1 {
		t.Fatalf("got %d declarations, want 1", len(decls))
	}
	d := decls[0]
	if d.Kind != KindInterface || d.Name != "User" || d.Extends != "Base" {
		t.Errorf("interface parsed as %+v", d)
	}
	if !strings.Contains(d.Body, "name: string;") {
		t.Errorf("body not captured: %q", d.Body)
	}
}

func TestScanClass(t *testing.T) {
	input := strings.Join([]string{
		"export abstract class Shape<T> extends Base implements Drawable, Serializable {",
		"  area(): number {",
		"    return 0;",
		"  }",
		"}",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	d := decls[0]
	if d.Kind != KindClass || d.Name != "Shape" || !d.Abstract {
		t.Errorf("class parsed as %+v", d)
	}
	if d.Generics != "<T>" || d.Extends != "Base" || d.Implements != "Drawable, Serializable" {
		t.Errorf("heritage: generics %q extends %q implements %q", d.Generics, d.Extends, d.Implements)
	}
}

func TestScanTypeAliasAndEnum(t *testing.T) {
	input := strings.Join([]string{
		"export type ID = string | number;",
		"type Pair<K, V> = [K, V];",
		"export enum Color {",
		"  Red,",
		"  Green,",
		"}",
		"export const enum Level {",
		"  Low = 1,",
		"}",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 4 {
		t.Fatalf("got %d declarations, want 4", len(decls))
	}
	if decls[0].Kind != KindTypeAlias || decls[0].AliasType != "string | number" {
		t.Errorf("alias parsed as %+v", decls[0])
	}
	if decls[1].Generics != "<K, V>" || decls[1].AliasType != "[K, V]" {
		t.Errorf("generic alias parsed as %+v", decls[1])
	}
	if decls[2].Kind != KindEnum || decls[2].ConstEnum {
		t.Errorf("enum parsed as %+v", decls[2])
	}
	if !decls[3].ConstEnum {
		t.Errorf("const enum not flagged: %+v", decls[3])
	}
}

func TestScanModules(t *testing.T) {
	input := strings.Join([]string{
		"export namespace Utils {",
		"  export function helper(): void;",
		"}",
		"declare module 'my-lib' {",
		"  export function patch(): void;",
		"}",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("got %d declarations, want 2", len(decls))
	}
	if !decls[0].Namespace || decls[0].Name != "Utils" || decls[0].Ambient {
		t.Errorf("namespace parsed as %+v", decls[0])
	}
	if decls[1].Namespace || decls[1].Name != "'my-lib'" || !decls[1].Ambient {
		t.Errorf("ambient module parsed as %+v", decls[1])
	}
}

func TestScanDocComments(t *testing.T) {
	input := strings.Join([]string{
		"/**",
		" * Greets the caller.",
		" */",
		"export const greeting = 'hi'",
		"",
		"/** Attaches across one blank line. */",
		"",
		"export const second = 2",
		"// plain comment breaks attachment",
		"export const third = 3",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 3 {
		t.Fatalf("got %d declarations, want 3", len(decls))
	}
	if !strings.Contains(decls[0].LeadingComment, "Greets the caller.") {
		t.Errorf("doc comment not attached: %q", decls[0].LeadingComment)
	}
	if !strings.Contains(decls[1].LeadingComment, "Attaches across") {
		t.Errorf("doc across blank line not attached: %q", decls[1].LeadingComment)
	}
	if decls[2].LeadingComment != "" {
		t.Errorf("plain comment must break attachment, got %q", decls[2].LeadingComment)
	}
}

func TestScanNestedDeclarationsIgnored(t *testing.T) {
	input := strings.Join([]string{
		"export function outer(): void {",
		"  const inner = 1;",
		"  function nested() {}",
		"}",
		"const top = 2;",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("got %d declarations, want 2 (outer + top)", len(decls))
	}
	if decls[0].Name != "outer" || decls[1].Name != "top" {
		t.Errorf("unexpected names %q, %q", decls[0].Name, decls[1].Name)
	}
}

func TestScanUnrecognizedStatementsSkipped(t *testing.T) {
	input := strings.Join([]string{
		"console.log('side effect');",
		"if (cond) {",
		"  doThing();",
		"}",
		"export const kept = true",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 1 || decls[0].Name != "kept" {
		t.Errorf("expected only kept, got %+v", decls)
	}
}

func TestScanImportsAndExports(t *testing.T) {
	input := strings.Join([]string{
		"import { readFile } from 'fs'",
		"import type { Config } from './config'",
		"export { helper } from './util'",
		"export type { Options }",
		"export * from './all'",
		"export default app;",
	}, "\n")

	decls, err := Scan(input)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 6 {
		t.Fatalf("got %d declarations, want 6", len(decls))
	}
	if decls[0].Kind != KindImport || decls[0].TypeOnly {
		t.Errorf("import parsed as %+v", decls[0])
	}
	if !decls[1].TypeOnly {
		t.Errorf("type import not flagged: %+v", decls[1])
	}
	if decls[2].Kind != KindExport || decls[2].TypeOnly {
		t.Errorf("re-export parsed as %+v", decls[2])
	}
	if !decls[3].TypeOnly {
		t.Errorf("type re-export not flagged: %+v", decls[3])
	}
	if !decls[5].Default || decls[5].Value != "app" {
		t.Errorf("default export parsed as %+v", decls[5])
	}
}

func TestScanErrorUnterminatedString(t *testing.T) {
	input := "const ok = 1;\nconst bad = 'oops"
	_, err := Scan(input)
	se, ok := err.(*ScanError)
	if !ok {
		t.Fatalf("Scan() error = %T (%v), want *ScanError", err, err)
	}
	if se.Position != 26 {
		t.Errorf("Position = %d, want 26", se.Position)
	}
	if !strings.Contains(se.Reason, "string") {
		t.Errorf("Reason = %q", se.Reason)
	}
}

func TestScanErrorUnterminatedBlockComment(t *testing.T) {
	_, err := Scan("/* never closed\nconst x = 1\n")
	if _, ok := err.(*ScanError); !ok {
		t.Fatalf("Scan() error = %T (%v), want *ScanError", err, err)
	}
}

func TestScanEmptyInput(t *testing.T) {
	decls, err := Scan("")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(decls) != 0 {
		t.Errorf("got %d declarations, want 0", len(decls))
	}
}
