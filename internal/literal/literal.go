package literal

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FormatHint lists the accepted literal syntaxes for user-facing messages.
const FormatHint = "supported formats: decimal (1.23), scientific (5*10^(-4)), power (5^6)"

// ParseError reports a token that matches none of the accepted literal forms,
// or a form whose captured parts are not valid decimals.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid numeric value %q: %v", e.Token, e.Err)
	}
	return fmt.Sprintf("invalid numeric value %q", e.Token)
}

func (e *ParseError) Unwrap() error { return e.Err }

// maxExponent bounds the decimal exponent of a scientific literal; float64
// spans roughly 1e-324 to 1e308.
const maxExponent = 1000

var (
	errNoForm      = errors.New("no recognized literal form")
	errOutOfRange  = errors.New("value out of float64 range")
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// rule pairs a token shape with the handler that evaluates its captures.
// Rules are evaluated in order and the first matching shape decides the form.
type rule struct {
	name    string
	pattern *regexp.Regexp
	eval    func(groups []string) (float64, error)
}

// Scientific notation overlaps power notation ("x*10^y" also ends in "^y"),
// so it must be tried first.
var rules = []rule{
	{
		name:    "scientific",
		pattern: regexp.MustCompile(`^(.+?)\s*\*\s*10\s*\^\s*(\(\s*[^()]+?\s*\)|[^()]+?)$`),
		eval:    evalScientific,
	},
	{
		name:    "power",
		pattern: regexp.MustCompile(`^(.+?)\s*\^\s*(\(\s*[^()]+?\s*\)|[^()]+?)$`),
		eval:    evalPower,
	},
}

// Parse converts a single literal token into a float64.
//
// Accepted forms, in priority order:
//
//	5*10^(-4)   scientific: decimal times an integer power of ten
//	5^6         power: decimal raised to a decimal exponent
//	1.23        plain decimal
//
// Whitespace around operators and around the token is ignored.
func Parse(token string) (float64, error) {
	s := strings.TrimSpace(token)

	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		v, err := r.eval(m[1:])
		if err != nil {
			return 0, &ParseError{Token: token, Err: fmt.Errorf("%s form: %w", r.name, err)}
		}
		return v, nil
	}

	v, err := parseDecimal(s)
	if err != nil {
		return 0, &ParseError{Token: token, Err: err}
	}
	return v, nil
}

// ParseList parses a comma-separated list of literals, preserving order.
// Empty segments are dropped, so "1,,2," yields [1 2].
func ParseList(text string) ([]float64, error) {
	parts := strings.Split(text, ",")
	values := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := Parse(p)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func evalScientific(groups []string) (float64, error) {
	mantissa, err := parseDecimal(groups[0])
	if err != nil {
		return 0, err
	}
	exp, err := strconv.Atoi(unparen(groups[1]))
	if err != nil {
		return 0, fmt.Errorf("exponent %q is not an integer", groups[1])
	}

	// Beyond this range every mantissa overflows or underflows, so clamping
	// keeps shift+exp from wrapping.
	exp = max(-maxExponent, min(exp, maxExponent))

	// Re-parse as e-notation so 5*10^(-4) rounds exactly like 5e-4.
	digits := strconv.FormatFloat(mantissa, 'e', -1, 64)
	i := strings.IndexByte(digits, 'e')
	shift, err := strconv.Atoi(digits[i+1:])
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(digits[:i]+"e"+strconv.Itoa(shift+exp), 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, errOutOfRange
		}
		return 0, err
	}
	return v, nil
}

func evalPower(groups []string) (float64, error) {
	base, err := parseDecimal(groups[0])
	if err != nil {
		return 0, err
	}
	exp, err := parseDecimal(unparen(groups[1]))
	if err != nil {
		return 0, err
	}

	// Negative base with a fractional exponent yields NaN, which is kept.
	v := math.Pow(base, exp)
	if math.IsInf(v, 0) {
		return 0, errOutOfRange
	}
	return v, nil
}

func unparen(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		if s == "" {
			return 0, errNoForm
		}
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, errOutOfRange
		}
		return 0, err
	}
	return v, nil
}
