// Package schema implements the schema node model: an in-memory tree of
// JSON-Schema (draft-07) fragments, their construction-time constraint
// checks, and their rendering to ordered documents.
//
// Nodes are built with constructors that take functional options:
//
//	age := schema.Must(schema.Integer(
//	    schema.Minimum(3),
//	    schema.Maximum(30),
//	    schema.MultipleOf(3),
//	))
//
//	doc := schema.Render(age)
//	out, _ := json.Marshal(doc)
//	// {"type":"integer","minimum":3,"maximum":30,"multipleOf":3}
//
// Object nodes hold ordered properties, a required list and a definitions
// table used to resolve "#/definitions/<Name>" references. A registered
// object is sealed and must be treated as read-only.
//
// Primitive names used by definition files and type expressions ("int",
// "str", "email", ...) are mapped to nodes by ForPrimitive.
//
// This package only describes schemas. Checking instances against a rendered
// document is the job of a validator.Checker.
package schema
