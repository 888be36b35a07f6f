package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

// ValidationError reports one schema violation with its config path.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors aggregates every violation found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Validate checks cfg against the embedded CUE schema plus the
// cross-field rules the schema cannot express.
func Validate(cfg Config) error {
	if err := validateSchema(cfg); err != nil {
		return err
	}

	// default_page_size must be one of the offered options.
	if !slices.Contains(cfg.Table.PageSizeOptions, cfg.Table.DefaultPageSize) {
		return ValidationErrors{{
			Path:    "table.default_page_size",
			Message: fmt.Sprintf("%d is not in page_size_options", cfg.Table.DefaultPageSize),
		}}
	}
	if cfg.Session.TTL <= 0 {
		return ValidationErrors{{Path: "session.ttl", Message: "must be positive"}}
	}
	if cfg.Session.SweepInterval <= 0 {
		return ValidationErrors{{Path: "session.sweep_interval", Message: "must be positive"}}
	}
	return nil
}

// validateSchema unifies the config with #Config and collects every
// violation with its path.
func validateSchema(cfg Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	expr, err := cuejson.Extract("config", raw)
	if err != nil {
		return fmt.Errorf("extract config value: %w", err)
	}
	value := ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return fmt.Errorf("build config value: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	err = unified.Validate(cue.Concrete(true), cue.All())
	if err == nil {
		return nil
	}

	var violations ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		violations = append(violations, ValidationError{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	return violations
}
