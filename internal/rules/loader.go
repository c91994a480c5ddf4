package rules

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/mapforge/automap/internal/automap"
	"github.com/mapforge/automap/internal/tilemap"
)

//go:embed schema.cue
var schemaCUE string

// Error codes, unified across the loader and the CLI.
const (
	ErrCodeRead   = "R001" // file read error
	ErrCodeYAML   = "R002" // YAML decode error
	ErrCodeSchema = "R003" // CUE schema violation
	ErrCodeWindow = "R004" // cell count does not match the declared window
	ErrCodeKind   = "R005" // kind is missing a required field
)

// ConfigError is one validation failure with its location in the
// document.
type ConfigError struct {
	Code    string
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Fingerprint computes the content fingerprint of a raw configuration
// document, as recorded in the run log.
func Fingerprint(data []byte) string {
	return tilemap.Fingerprint(tilemap.DomainConfig, data)
}

// LoadFile reads, validates, and converts a rule configuration.
// All errors found are returned, not just the first.
func LoadFile(path string) (*automap.Config, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&ConfigError{Code: ErrCodeRead, Message: err.Error()}}
	}
	return Parse(data)
}

// Parse validates and converts a YAML rule configuration document.
//
// Validation runs in three stages: strict YAML decoding, CUE schema
// unification, and loader checks for constraints the schema cannot
// express (window arity, per-kind required fields). Later stages only
// run when earlier ones pass, so conversion never sees malformed input.
func Parse(data []byte) (*automap.Config, []error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return nil, []error{&ConfigError{Code: ErrCodeYAML, Message: err.Error()}}
	}

	if errs := validateSchema(data); len(errs) > 0 {
		return nil, errs
	}

	cfg, errs := convert(&fc)
	if len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// validateSchema unifies the decoded document with the embedded #Config
// definition. Closed definitions reject unknown fields; disjunctions
// reject unknown kinds and modes.
func validateSchema(data []byte) []error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []error{&ConfigError{Code: ErrCodeYAML, Message: err.Error()}}
	}
	if doc == nil {
		return []error{&ConfigError{Code: ErrCodeSchema, Message: "empty configuration"}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a bug.
		panic(fmt.Sprintf("rules: embedded schema does not compile: %v", err))
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(doc))
	err := unified.Validate(cue.Concrete(false))
	if err == nil {
		return nil
	}

	var errs []error
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		errs = append(errs, &ConfigError{
			Code:    ErrCodeSchema,
			Path:    strings.Join(cueerrors.Path(e), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	return errs
}

func convert(fc *fileConfig) (*automap.Config, []error) {
	var errs []error
	cfg := &automap.Config{}

	for si, frs := range fc.RuleSets {
		rs := automap.RuleSet{
			ID:      frs.ID,
			Name:    frs.Name,
			Edge:    edgeFromString(frs.EdgeHandling),
			Mode:    modeFromString(frs.ApplyMode),
			Enabled: frs.Enabled == nil || *frs.Enabled,
		}

		for ri, fr := range frs.Rules {
			rule := automap.Rule{
				ID:        fr.ID,
				Name:      fr.Name,
				NoOverlap: fr.NoOverlap,
			}

			for gi, fg := range fr.Inputs {
				path := fmt.Sprintf("rule_sets[%d].rules[%d].inputs[%d]", si, ri, gi)
				group := automap.InputGroup{
					LayerID:    fg.Layer,
					HalfWidth:  fg.HalfWidth,
					HalfHeight: fg.HalfHeight,
				}
				if want := group.CellCount(); len(fg.Cells) != want {
					errs = append(errs, &ConfigError{
						Code:    ErrCodeWindow,
						Path:    path,
						Message: fmt.Sprintf("%d cells for a %dx%d window, want %d", len(fg.Cells), group.Columns(), group.Rows(), want),
					})
					continue
				}
				for ci, fcell := range fg.Cells {
					matcher, err := matcherFromFile(fcell, fmt.Sprintf("%s.cells[%d]", path, ci))
					if err != nil {
						errs = append(errs, err)
						continue
					}
					group.Cells = append(group.Cells, matcher)
				}
				rule.Inputs = append(rule.Inputs, group)
			}

			for oi, fo := range fr.Outputs {
				path := fmt.Sprintf("rule_sets[%d].rules[%d].outputs[%d]", si, ri, oi)
				pattern := automap.OutputPattern{
					LayerID:    fo.Layer,
					HalfWidth:  fo.HalfWidth,
					HalfHeight: fo.HalfHeight,
					Weight:     fo.Weight,
				}
				if want := pattern.CellCount(); len(fo.Cells) != want {
					errs = append(errs, &ConfigError{
						Code:    ErrCodeWindow,
						Path:    path,
						Message: fmt.Sprintf("%d cells for a %dx%d window, want %d", len(fo.Cells), pattern.Columns(), pattern.Rows(), want),
					})
					continue
				}
				for ci, fcell := range fo.Cells {
					out, err := outputFromFile(fcell, fmt.Sprintf("%s.cells[%d]", path, ci))
					if err != nil {
						errs = append(errs, err)
						continue
					}
					pattern.Cells = append(pattern.Cells, out)
				}
				rule.Outputs = append(rule.Outputs, pattern)
			}

			rs.Rules = append(rs.Rules, rule)
		}

		cfg.RuleSets = append(cfg.RuleSets, rs)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

func edgeFromString(s string) automap.EdgeHandling {
	if s == "treat_as_empty" {
		return automap.EdgeTreatAsEmpty
	}
	return automap.EdgeSkip
}

func modeFromString(s string) automap.ApplyMode {
	if s == "until_stable" {
		return automap.ApplyUntilStable
	}
	return automap.ApplyOnce
}

func matcherFromFile(c fileCell, path string) (automap.CellMatcher, error) {
	var kind automap.MatcherKind
	needsIndex := false
	switch c.Kind {
	case "ignore":
		kind = automap.MatchIgnore
	case "empty":
		kind = automap.MatchEmpty
	case "nonempty":
		kind = automap.MatchNonEmpty
	case "tile":
		kind = automap.MatchTile
		needsIndex = true
	case "nottile":
		kind = automap.MatchNotTile
		needsIndex = true
	case "tileflipped":
		kind = automap.MatchTileFlipped
		needsIndex = true
	case "other":
		kind = automap.MatchOther
	default:
		// Unreachable after schema validation; kept so the conversion
		// is safe to call on its own.
		return automap.CellMatcher{}, &ConfigError{Code: ErrCodeKind, Path: path, Message: fmt.Sprintf("unknown matcher kind %q", c.Kind)}
	}
	if needsIndex && c.Index == 0 {
		return automap.CellMatcher{}, &ConfigError{Code: ErrCodeKind, Path: path, Message: fmt.Sprintf("matcher kind %q requires an index", c.Kind)}
	}
	return automap.CellMatcher{Kind: kind, Index: c.Index, FlipX: c.FlipX, FlipY: c.FlipY}, nil
}

func outputFromFile(c fileCell, path string) (automap.CellOutput, error) {
	switch c.Kind {
	case "ignore":
		return automap.CellOutput{Kind: automap.OutIgnore}, nil
	case "empty":
		return automap.CellOutput{Kind: automap.OutEmpty}, nil
	case "tile":
		if c.Index == 0 {
			return automap.CellOutput{}, &ConfigError{Code: ErrCodeKind, Path: path, Message: `output kind "tile" requires an index`}
		}
		return automap.CellOutput{Kind: automap.OutTile, Value: tilemap.Pack(c.Index, c.FlipX, c.FlipY)}, nil
	default:
		return automap.CellOutput{}, &ConfigError{Code: ErrCodeKind, Path: path, Message: fmt.Sprintf("unknown output kind %q", c.Kind)}
	}
}
