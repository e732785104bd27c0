package credstore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// repositorySchemaJSON is the expected shape of the credentials file:
// system name -> username -> record, where each record carries a "secret"
// and optionally further string-valued tokens.
const repositorySchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "additionalProperties": {
      "type": "object",
      "required": ["secret"],
      "additionalProperties": { "type": "string" }
    }
  }
}`

var (
	schemaOnce sync.Once
	repoSchema *jsonschema.Schema
	schemaErr  error
)

func repositorySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(repositorySchemaJSON))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("credentials.schema.json", doc); err != nil {
			schemaErr = err
			return
		}
		repoSchema, schemaErr = c.Compile("credentials.schema.json")
	})
	return repoSchema, schemaErr
}

// validateRepository checks a decoded credentials document against the
// repository schema.
func validateRepository(doc any) error {
	sch, err := repositorySchema()
	if err != nil {
		return fmt.Errorf("failed to compile repository schema: %w", err)
	}
	return sch.Validate(doc)
}
