package directive

import (
	"go/token"
	"strings"

	"github.com/expunge-go/expunge/internal/analyze"
)

// Parser parses annotations under a fixed feature set.
type Parser struct {
	features Features
}

// NewParser creates a Parser gated by the given features.
func NewParser(features Features) *Parser {
	return &Parser{features: features}
}

// ParseField parses the expunge tag of a struct member. Returns (nil, nil)
// when the member carries no annotation at all.
func (p *Parser) ParseField(f *analyze.FieldInfo) (*Options, error) {
	if !f.HasTag {
		return nil, nil
	}

	if strings.TrimSpace(f.TagValue) == "" {
		return &Options{Bare: true, Pos: f.TagPos}, nil
	}

	return p.parseList(f.TagValue, NodeField, f.TagPos)
}

// ParseContainer parses the //expunge: directives of a container type.
// Returns (nil, nil) when the type carries none.
func (p *Parser) ParseContainer(t *analyze.TypeInfo) (*Options, error) {
	d, err := p.singleDirective(t)
	if d == nil || err != nil {
		return nil, err
	}

	if d.Text == "" {
		return nil, errf("bare_marker_on_container", "", d.Pos,
			"a bare `//expunge:` can only be used to mark fields & variants")
	}

	return p.parseList(d.Text, NodeContainer, d.Pos)
}

// ParseVariant parses the //expunge: directives of a sum variant struct.
// A bare directive is the "apply container defaults to this variant" marker.
func (p *Parser) ParseVariant(t *analyze.TypeInfo) (*Options, error) {
	d, err := p.singleDirective(t)
	if d == nil || err != nil {
		return nil, err
	}

	if d.Text == "" {
		return &Options{Bare: true, Pos: d.Pos}, nil
	}

	return p.parseList(d.Text, NodeVariant, d.Pos)
}

// singleDirective enforces the at-most-one annotation block rule.
func (p *Parser) singleDirective(t *analyze.TypeInfo) (*analyze.Directive, error) {
	switch len(t.Directives) {
	case 0:
		return nil, nil
	case 1:
		return &t.Directives[0], nil
	default:
		return nil, errf("duplicate_annotation", "", t.Directives[1].Pos,
			"expected 1 or 0 `//expunge:` directives, found %d", len(t.Directives))
	}
}

// parseList parses a comma-separated option list attached to one node.
func (p *Parser) parseList(text string, node Node, pos token.Position) (*Options, error) {
	opts := &Options{Pos: pos}

	for _, item := range splitOptions(text) {
		key, value, hasValue := cutOption(item)

		if err := p.applyOption(opts, node, pos, key, value, hasValue); err != nil {
			return nil, err
		}
	}

	return opts, p.validate(opts, pos)
}

// applyOption applies one key (and value) to the option set, enforcing
// placement and mutual-exclusion rules as it goes.
func (p *Parser) applyOption(opts *Options, node Node, pos token.Position, key, value string, hasValue bool) error {
	isContainer := node == NodeContainer

	switch key {
	case KeyAs:
		if !hasValue || value == "" {
			return errf("malformed_annotation", KeyAs, pos, "`%s` requires a value, e.g. %s='<redacted>'", KeyAs, KeyAs)
		}

		if opts.With != "" {
			return errf("conflicting_options", KeyAs, pos, "`%s` cannot be combined with `%s`", KeyAs, KeyWith)
		}

		if opts.Default {
			return errf("conflicting_options", KeyAs, pos, "`%s` cannot be combined with `%s`", KeyAs, KeyDefault)
		}

		opts.As = value

	case KeyWith:
		if !hasValue || value == "" {
			return errf("malformed_annotation", KeyWith, pos, "`%s` requires a function name, e.g. %s=expunge.SHA256Hex", KeyWith, KeyWith)
		}

		if opts.As != "" {
			return errf("conflicting_options", KeyWith, pos, "`%s` cannot be combined with `%s`", KeyWith, KeyAs)
		}

		if opts.Default {
			return errf("conflicting_options", KeyWith, pos, "`%s` cannot be combined with `%s`", KeyWith, KeyDefault)
		}

		opts.With = value

	case KeyDefault:
		if opts.As != "" {
			return errf("conflicting_options", KeyDefault, pos, "`%s` cannot be combined with `%s`", KeyDefault, KeyAs)
		}

		if opts.With != "" {
			return errf("conflicting_options", KeyDefault, pos, "`%s` cannot be combined with `%s`", KeyDefault, KeyWith)
		}

		opts.Default = true

	case KeyIgnore:
		if isContainer {
			return errf("misplaced_option", KeyIgnore, pos, "`%s` is not permitted on containers", KeyIgnore)
		}

		opts.Ignore = true

	case KeyAll:
		if !isContainer {
			return errf("misplaced_option", KeyAll, pos,
				"`%s` is not permitted on fields or variants, use a bare marker instead", KeyAll)
		}

		opts.All = true

	case KeyZeroize:
		if !p.features.Zeroize {
			return errf("feature_disabled", KeyZeroize, pos,
				"the `%s` feature must be enabled (features.zeroize in the generator config)", KeyZeroize)
		}

		opts.Zeroize = true

	case KeySlog:
		if !p.features.Slog {
			return errf("feature_disabled", KeySlog, pos,
				"the `%s` feature must be enabled (features.slog in the generator config)", KeySlog)
		}

		if !isContainer {
			return errf("misplaced_option", KeySlog, pos, "`%s` is not permitted on fields or variants", KeySlog)
		}

		opts.Slog = true

	case KeyAllowDebug:
		if !isContainer {
			return errf("misplaced_option", KeyAllowDebug, pos, "`%s` is not permitted on fields or variants", KeyAllowDebug)
		}

		opts.AllowDebug = true

	default:
		return errf("unrecognized_option", key, pos, "unrecognized option `%s`", key)
	}

	return nil
}

// validate enforces the cross-option rules that are order-independent.
func (p *Parser) validate(opts *Options, pos token.Position) error {
	if opts.Zeroize && opts.With != "" {
		return errf("conflicting_options", KeyZeroize, pos, "`%s` cannot be combined with `%s`", KeyZeroize, KeyWith)
	}

	if opts.Zeroize && opts.As == "" && !opts.Default {
		return errf("zeroize_requires_as", KeyZeroize, pos,
			"`%s` requires that `%s` (or `%s`) be specified since it consumes the value", KeyZeroize, KeyAs, KeyDefault)
	}

	return nil
}

// splitOptions splits a comma-separated list, honoring single-quoted values
// so literal expressions may contain commas: as='Point{1, 2}'.
func splitOptions(s string) []string {
	var (
		out      []string
		start    int
		inQuotes bool
	)

	for i, r := range s {
		switch r {
		case '\'':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}

	out = append(out, s[start:])

	var trimmed []string

	for _, item := range out {
		if item = strings.TrimSpace(item); item != "" {
			trimmed = append(trimmed, item)
		}
	}

	return trimmed
}

// cutOption splits "key=value" and strips single quotes around the value.
func cutOption(item string) (key, value string, hasValue bool) {
	key, value, hasValue = strings.Cut(item, "=")
	key = strings.TrimSpace(key)

	if hasValue {
		value = strings.TrimSpace(value)
		value = strings.TrimPrefix(value, "'")
		value = strings.TrimSuffix(value, "'")
	}

	return key, value, hasValue
}
