package apidoc

import (
	"strconv"
	"strings"

	"github.com/swaggest/jsonschema-go"
)

type rule struct {
	tag   string
	param string
}

// parseValidateTag splits a go-playground validate tag into rules.
func parseValidateTag(tag string) []rule {
	if tag == "" || tag == "-" {
		return nil
	}

	var rules []rule
	for _, part := range strings.Split(tag, ",") {
		name, param, _ := strings.Cut(strings.TrimSpace(part), "=")
		if name == "" || name == "omitempty" {
			continue
		}
		rules = append(rules, rule{tag: name, param: param})
	}
	return rules
}

// requiresValue reports whether the rule makes the property mandatory.
func requiresValue(r rule) bool {
	return r.tag == "required" || r.tag == "notblank"
}

func applyRule(s *jsonschema.Schema, r rule, isString bool) {
	switch r.tag {
	case "required":
		if isString {
			s.WithMinLength(1)
		}
	case "notblank":
		s.WithMinLength(1)
		s.WithPattern(`\S`)
	case "max":
		n, err := strconv.ParseInt(r.param, 10, 64)
		if err != nil {
			return
		}
		if isString {
			s.WithMaxLength(n)
		} else {
			s.WithMaximum(float64(n))
		}
	case "gt":
		if f, err := strconv.ParseFloat(r.param, 64); err == nil {
			s.WithExclusiveMinimum(f)
		}
	case "gte":
		if f, err := strconv.ParseFloat(r.param, 64); err == nil {
			s.WithMinimum(f)
		}
	case "oneof":
		values := strings.Fields(r.param)
		enum := make([]interface{}, 0, len(values))
		for _, v := range values {
			enum = append(enum, v)
		}
		s.WithEnum(enum...)
	}
}

func describeRules(rules []rule, isString bool) []string {
	var out []string
	for _, r := range rules {
		switch r.tag {
		case "required":
			if isString {
				out = append(out, "Must not be blank")
			} else {
				out = append(out, "Must not be null")
			}
		case "notblank":
			out = append(out, "Must not be blank")
		case "max":
			if isString {
				out = append(out, "Size must be at most "+r.param)
			} else {
				out = append(out, "Must be at most "+r.param)
			}
		case "gt":
			out = append(out, "Must be greater than "+r.param)
		case "gte":
			out = append(out, "Must be at least "+r.param)
		case "oneof":
			out = append(out, "Must be one of ["+strings.Join(strings.Fields(r.param), ", ")+"]")
		}
	}
	return out
}

func withConstraints(desc string, constraints []string) string {
	if len(constraints) == 0 {
		return desc
	}

	joined := strings.Join(constraints, ". ") + "."
	if desc == "" {
		return joined
	}
	return strings.TrimSuffix(desc, ".") + ". " + joined
}
