package omarchive_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/omarchive"
)

const examplePack = `
archive:
  name: Example
  standardTypes: true
entities:
  - name: Dataset
    attributes:
      - {name: qualifiedName, type: string, unique: true}
      - {name: rows, type: long}
instances:
  entities:
    - type: Dataset
      qualifiedName: dataset::sales
      properties: {rows: 1200}
`

// ExampleGenerate builds an archive from a content pack and inspects it.
func ExampleGenerate() {
	dir, err := os.MkdirTemp("", "omarchive-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	packPath := filepath.Join(dir, "example.yaml")
	if err := os.WriteFile(packPath, []byte(examplePack), 0644); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	res, err := omarchive.Generate(ctx, packPath)
	if err != nil {
		log.Fatal(err)
	}

	report, err := omarchive.Inspect(ctx, res.Output)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %d type, %d entity\n", report.Name, report.TypeDefs, report.Entities)
	fmt.Println(filepath.Base(res.GUIDMap))
	// Output:
	// Example: 1 type, 1 entity
	// ExampleGUIDMap.json
}
