// excelconv converts the client's JSON table exports into the YAML files the
// catalogue loads.
//
// Each input file <table>.json holds {"<table>": [rows]} with camelCase keys.
// Keys are rewritten to snake_case and the result is checked against the
// catalogue schema before it is written to <outdir>/<table>.yaml.
//
// Usage:
//
//	go run ./cmd/excelconv [-jsondir path] [-outdir path] [table ...]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/sonettogo/server/internal/data"
	"gopkg.in/yaml.v3"
)

func main() {
	jsonDir := flag.String("jsondir", "excel2json", "directory holding <table>.json exports")
	outDir := flag.String("outdir", filepath.Join("data", "yaml"), "output directory")
	flag.Parse()

	tables := flag.Args()
	if len(tables) == 0 {
		tables = data.TableNames
	}
	for _, name := range tables {
		if !slices.Contains(data.TableNames, name) {
			fmt.Fprintf(os.Stderr, "unknown table %q (known: %s)\n", name, strings.Join(data.TableNames, ", "))
			os.Exit(2)
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	failed := false
	for _, name := range tables {
		rows, err := convert(name, *jsonDir, *outDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			failed = true
			continue
		}
		fmt.Printf("%-20s %6d rows\n", name, rows)
	}
	if failed {
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Conversion
// ---------------------------------------------------------------------------

func convert(name, jsonDir, outDir string) (int, error) {
	raw, err := os.ReadFile(filepath.Join(jsonDir, name+".json"))
	if err != nil {
		return 0, err
	}
	out, rows, err := toYAML(name, raw)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(outDir, name+".yaml"), out, 0o644); err != nil {
		return 0, err
	}
	return rows, nil
}

// toYAML rewrites one export and returns the YAML document with its row count.
func toYAML(name string, raw []byte) ([]byte, int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string][]map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("parse json: %w", err)
	}
	src, ok := doc[name]
	if !ok {
		return nil, 0, fmt.Errorf("missing top-level key %q", name)
	}

	rows := make([]map[string]any, 0, len(src))
	for _, r := range src {
		row := make(map[string]any, len(r))
		for k, v := range r {
			row[snakeCase(k)] = normalize(v)
		}
		rows = append(rows, row)
	}

	out, err := yaml.Marshal(map[string]any{name: rows})
	if err != nil {
		return nil, 0, err
	}

	// Catch type mismatches here rather than at server boot.
	var check data.Tables
	if err := yaml.Unmarshal(out, &check); err != nil {
		return nil, 0, fmt.Errorf("schema check: %w", err)
	}
	return out, len(rows), nil
}

// normalize turns json.Number into int64 or float64 so numbers are emitted
// unquoted.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalize(t[k])
		}
		return t
	}
	return v
}

// snakeCase maps skinId to skin_id and criDmg to cri_dmg. Keys that are
// already lower case pass through.
func snakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
