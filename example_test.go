package justschema_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/justschema"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/validator"
)

// ExampleEngine_ShowSchema defines a model from descriptors and prints its schema.
func ExampleEngine_ShowSchema() {
	eng := justschema.New()

	_, err := eng.Define(context.Background(),
		model.Model("Role", "A part in a movie",
			model.Field("name", model.Prim("string")),
			model.Field("race", model.Prim("string"), model.WithDefault("human")),
		),
	)
	if err != nil {
		log.Fatal(err)
	}

	doc, err := eng.ShowSchema("Role")
	if err != nil {
		log.Fatal(err)
	}
	out, _ := doc.JSON()
	fmt.Println(string(out))

	// Output:
	// {
	//   "title": "Role",
	//   "type": "object",
	//   "description": "A part in a movie",
	//   "properties": {
	//     "name": {
	//       "type": "string"
	//     },
	//     "race": {
	//       "type": "string"
	//     }
	//   },
	//   "required": [
	//     "name"
	//   ],
	//   "additionalProperties": false
	// }
}

type Pet struct {
	Name string `json:"name" schema:"minLength=2"`
	Age  int    `json:"age" schema:"minimum=0"`
}

// ExampleEngine_Validate shows that every violation is reported, not only the first.
func ExampleEngine_Validate() {
	ctx := context.Background()
	eng := justschema.New()
	if err := eng.DefineStruct(ctx, Pet{}); err != nil {
		log.Fatal(err)
	}

	err := eng.Validate(ctx, Pet{Name: "x", Age: -1})
	for _, e := range validator.ValidationErrors(err) {
		fmt.Println(e.Path)
	}

	// Output:
	// age
	// name
}
