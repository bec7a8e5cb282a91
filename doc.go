/*
Package justschema derives JSON Schema documents from data-model definitions and validates data against them.

Models are described once, either as Go structs, as YAML/JSON definition files or as explicit descriptors, and the engine turns every field type into a schema node: primitives, typed containers, optional and union types, and references to other models. References are flattened into a single definitions table per model, including transitive and cyclic ones, so each rendered document is self-contained.

# Key Features

  - Deterministic Rendering: Properties, required fields and definitions keep declaration order; rendering twice yields identical bytes.
  - Full Error Reports: Validation never stops at the first violation. Every error is reported with its dot-joined path.
  - Batch Validation: A slice of instances is checked element by element and all errors are concatenated in input order.
  - Pluggable Checking: Constraint checks run on kin-openapi by default and can be replaced through validator.Checker.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/justschema"
		"github.com/aretw0/justschema/pkg/validator"
	)

	type Movie struct {
		Title string `json:"title" schema:"required,minLength=4,maxLength=24"`
		Year  int    `json:"year" schema:"minimum=1888"`
	}

	func main() {
		ctx := context.Background()
		eng := justschema.New()

		if err := eng.DefineStruct(ctx, Movie{}); err != nil {
			log.Fatal(err)
		}

		doc, _ := eng.ShowSchema(Movie{})
		out, _ := doc.JSON()
		fmt.Println(string(out))

		err := eng.Validate(ctx, Movie{Title: "T", Year: 1700})
		for _, e := range validator.ValidationErrors(err) {
			fmt.Printf("%s: %s\n", e.Path, e.Message)
		}
	}

Definition files, a Loam repository of Markdown notes, an HTTP API and an MCP server are available through the packages under pkg/adapters and the justschema command.
*/
package justschema
