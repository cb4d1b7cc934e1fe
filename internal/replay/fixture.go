// Package replay runs a recorded attempt sequence through the attempt
// window and the decision engine, for demos and regression fixtures.
package replay

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/mathpace/internal/difficulty"
)

//go:embed fixture.schema.json
var fixtureSchemaJSON []byte

const fixtureSchemaURL = "mathpace://replay/fixture.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Fixture is a recorded session.
type Fixture struct {
	Name          string           `json:"name,omitempty"`
	Learner       string           `json:"learner,omitempty"`
	StartLevel    difficulty.Level `json:"start_level"`
	EvaluateEvery int              `json:"evaluate_every,omitempty"`
	Attempts      []FixtureAttempt `json:"attempts"`
}

// FixtureAttempt is one recorded answer. Answer is computed from the
// operands when omitted; Level defaults to the replay's current level.
type FixtureAttempt struct {
	A         int                  `json:"a"`
	B         int                  `json:"b"`
	Op        difficulty.Operation `json:"op"`
	Answer    *int                 `json:"answer,omitempty"`
	Submitted string               `json:"submitted"`
	TimeMs    int64                `json:"time_ms"`
	Level     difficulty.Level     `json:"level,omitempty"`
}

// Load reads and validates a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse validates data against the fixture schema and decodes it.
func Parse(data []byte) (*Fixture, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

func validate(data []byte) error {
	sch, err := fixtureSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("invalid fixture: %w", err)
	}
	return nil
}

func fixtureSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(fixtureSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse fixture schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(fixtureSchemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add fixture schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(fixtureSchemaURL)
	})
	return schema, schemaErr
}
