// refractc converts a fixture-notation MSON file into a draft-04 JSON
// Schema document.
//
// Usage:
//
//	refractc -in person.fixture [-out schema.json] [-source-map]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/apib/refract/convert"
	"github.com/apib/refract/mson/fixture"
)

func main() {
	inFile := flag.String("in", "", "Path to a fixture-notation MSON file (required)")
	outFile := flag.String("out", "", "Output JSON Schema file (default: stdout)")
	emitSourceMap := flag.Bool("source-map", false, "Keep the sourceMap attribute on every element")
	structName := flag.String("struct", "", "Name of the struct to convert (default: the only one in the file)")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "error: -in flag is required")
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*inFile)
	if err != nil {
		logger.Error("read input", "error", err)
		os.Exit(1)
	}

	structs, err := fixture.Parse(string(data))
	if err != nil {
		logger.Error("parse fixture", "error", err)
		os.Exit(1)
	}

	p := convert.NewPipeline(convert.Options{EmitSourceMap: *emitSourceMap})
	elements := make(map[string]bool, len(structs))
	for _, ds := range structs {
		if _, err := p.Register(ds); err != nil {
			logger.Error("register data structure", "name", ds.Name.Literal, "error", err)
			os.Exit(1)
		}
		elements[ds.Name.Literal] = true
	}

	target := *structName
	if target == "" {
		if len(structs) != 1 {
			fmt.Fprintln(os.Stderr, "error: -struct is required when the input declares more than one struct")
			os.Exit(1)
		}
		target = structs[0].Name.Literal
	}
	if !elements[target] {
		fmt.Fprintf(os.Stderr, "error: no struct named %q in %s\n", target, *inFile)
		os.Exit(1)
	}

	el, ok := p.Registry().Find(target)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: %q has no meta.id to convert (did it declare a name?)\n", target)
		os.Exit(1)
	}

	schema, _, err := p.Convert(el)
	if err != nil {
		logger.Error("convert", "error", err)
		os.Exit(1)
	}

	for _, w := range p.Warnings() {
		logger.Warn("conversion warning", "kind", w.Kind, "text", w.Text)
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		logger.Error("marshal schema", "error", err)
		os.Exit(1)
	}

	var w *os.File
	if *outFile != "" {
		w, err = os.Create(*outFile)
		if err != nil {
			logger.Error("create output", "error", err)
			os.Exit(1)
		}
		defer func() { _ = w.Close() }()
	} else {
		w = os.Stdout
	}
	fmt.Fprintln(w, string(out))
}
