package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/fgeller/rkl/internal/jsonval"
)

// Matches evaluates the receiver against one record's fields
// (key, parsed JSON value, raw value text, timestamp in milliseconds). It
// never errors: unresolvable paths resolve to null, and type-mismatched
// equality comparisons simply evaluate to false.
func (c Cmp) Matches(key string, value any, valueText *string, timestampMs int64) bool {
	switch c.Op {
	case Eq:
		return cmpEq(c.Left, c.Right, key, value, valueText, timestampMs)
	case Neq:
		return !cmpEq(c.Left, c.Right, key, value, valueText, timestampMs)
	case Contains:
		left := pathToString(c.Left, key, value, valueText, timestampMs)
		return cmpContains(left, c.Right)
	default:
		return false
	}
}

func (a And) Matches(key string, value any, valueText *string, timestampMs int64) bool {
	return matchExpr(a.L, key, value, valueText, timestampMs) &&
		matchExpr(a.R, key, value, valueText, timestampMs)
}

func (o Or) Matches(key string, value any, valueText *string, timestampMs int64) bool {
	return matchExpr(o.L, key, value, valueText, timestampMs) ||
		matchExpr(o.R, key, value, valueText, timestampMs)
}

// matchExpr dispatches on the dynamic Expr type. Evaluate is the package
// entry point most callers should use instead of type-switching themselves.
func matchExpr(e Expr, key string, value any, valueText *string, timestampMs int64) bool {
	switch t := e.(type) {
	case Cmp:
		return t.Matches(key, value, valueText, timestampMs)
	case And:
		return t.Matches(key, value, valueText, timestampMs)
	case Or:
		return t.Matches(key, value, valueText, timestampMs)
	default:
		return false
	}
}

// Evaluate applies expr to one record. A nil expr (no WHERE clause) matches
// everything.
func Evaluate(expr Expr, key string, value any, valueText *string, timestampMs int64) bool {
	if expr == nil {
		return true
	}
	return matchExpr(expr, key, value, valueText, timestampMs)
}

func resolvePath(path JsonPath, key string, value any, timestampMs int64) any {
	switch path.Root {
	case RootKey:
		return key
	case RootTimestamp:
		return float64(timestampMs)
	case RootValue:
		if len(path.Segments) == 0 {
			return value
		}
		return jsonval.Descend(value, path.Segments)
	default:
		return nil
	}
}

func cmpEqScalar(left any, right Literal) bool {
	switch right.Kind {
	case LitString:
		s, ok := jsonval.AsString(left)
		return ok && s == right.Str
	case LitNumber:
		f, ok := jsonval.AsFloat64(left)
		return ok && math.Abs(f-right.Num) < epsilon
	case LitBool:
		b, ok := jsonval.AsBool(left)
		return ok && b == right.Bool
	case LitNull:
		return jsonval.IsNull(left)
	default:
		return false
	}
}

// epsilon mirrors f64::EPSILON from the reference implementation: the
// smallest value such that 1.0 + epsilon != 1.0 in double precision.
const epsilon = 2.220446049250313e-16

func cmpEq(left JsonPath, right Literal, key string, value any, valueText *string, timestampMs int64) bool {
	if left.Root == RootValue && len(left.Segments) == 0 && right.Kind == LitString {
		return asFullValueString(value, valueText) == right.Str
	}
	lv := resolvePath(left, key, value, timestampMs)
	return cmpEqScalar(lv, right)
}

func cmpContains(left string, right Literal) bool {
	return strings.Contains(left, literalToString(right))
}

func literalToString(lit Literal) string {
	switch lit.Kind {
	case LitString:
		return lit.Str
	case LitNumber:
		return formatLiteralNumber(lit.Num)
	case LitBool:
		return strconv.FormatBool(lit.Bool)
	case LitNull:
		return "null"
	default:
		return ""
	}
}

func formatLiteralNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func pathToString(left JsonPath, key string, value any, valueText *string, timestampMs int64) string {
	if left.Root == RootValue && len(left.Segments) == 0 {
		return asFullValueString(value, valueText)
	}
	resolved := resolvePath(left, key, value, timestampMs)
	return jsonval.Stringify(resolved)
}

func asFullValueString(value any, valueText *string) string {
	if valueText != nil {
		return *valueText
	}
	return jsonval.Canonical(value)
}
