package workflow

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce  sync.Once
	schemaCtx   *cue.Context
	schemaValue cue.Value
	schemaErr   error
)

// workflowSchema compiles the embedded CUE schema once and returns the
// #Workflow definition.
func workflowSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile workflow schema: %w", err)
			return
		}
		def := v.LookupPath(cue.ParsePath("#Workflow"))
		if !def.Exists() {
			schemaErr = fmt.Errorf("workflow schema missing #Workflow definition")
			return
		}
		schemaValue = def
	})
	return schemaValue, schemaErr
}

// ValidateJSON checks raw workflow JSON against the embedded CUE schema.
// This catches shape problems (wrong node type, missing data fields,
// negative delays) before decoding; Validate handles graph-level
// invariants like dangling edges afterwards.
//
// The unified value is validated as final and concrete: unification
// alone would let a body missing a required field (a trigger without
// triggerType, an edge without target) pass, because the schema fills
// the hole with an unresolved constraint instead of failing.
func ValidateJSON(data []byte) error {
	schema, err := workflowSchema()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract("workflow.json", data)
	if err != nil {
		return fmt.Errorf("workflow schema violation: %w", err)
	}
	val := schemaCtx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return fmt.Errorf("workflow schema violation: %w", err)
	}

	if err := schema.Unify(val).Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return fmt.Errorf("workflow schema violation: %w", err)
	}
	return nil
}
