package main

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	RE_FORMAT_FIXED = regexp.MustCompile(`%.(\d+)f`)
	RE_FORMAT_ANY   = regexp.MustCompile(`%[a-z\d.]+`)
)

// number_format_plain renders v the way the panel editor displays numbers:
// shortest round-trip digits, exponent notation only for very small or very
// large magnitudes.
func number_format_plain(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if a := math.Abs(v); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}

// number_format_fixed formats v with prec decimals.
func number_format_fixed(v float64, prec int) (string, error) {
	if prec < 0 || prec > MAX_FORMAT_PRECISION {
		return "", fmt.Errorf("precision %d out of range", prec)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1e21 {
		return number_format_plain(v), nil
	}
	return strconv.FormatFloat(v, 'f', prec, 64), nil
}

// number_round rounds halves towards positive infinity.
func number_round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// value_format applies format to a numeric value. Only the first %d or %.Nf
// is substituted; other %-tokens are replaced by the plain number.
func value_format(v float64, format string) (string, error) {
	plain := number_format_plain(v)
	switch {
	case strings.Contains(format, "%d"):
		return strings.Replace(format, "%d", number_format_plain(number_round(v)), 1), nil
	case strings.Contains(format, "%."):
		loc := RE_FORMAT_FIXED.FindStringSubmatchIndex(format)
		if loc == nil {
			return plain, nil
		}
		prec, err := strconv.Atoi(format[loc[2]:loc[3]])
		if err != nil {
			return "", err
		}
		fixed, err := number_format_fixed(v, prec)
		if err != nil {
			return "", err
		}
		return format[:loc[0]] + fixed + format[loc[1]:], nil
	case strings.Contains(format, "%"):
		loc := RE_FORMAT_ANY.FindStringIndex(format)
		if loc == nil {
			return format, nil
		}
		return format[:loc[0]] + plain + format[loc[1]:], nil
	}
	return plain, nil
}

// text_format produces the string a text shape displays for a resolved
// value. Format strings apply to numbers only; a broken format falls back to
// the unformatted value.
func text_format(value any, format, unit string) string {
	var ret string
	switch v := value.(type) {
	case string:
		ret = v
	case nil:
		ret = ""
	default:
		if !number_is(v) {
			ret = fmt.Sprint(v)
			break
		}
		n := number_of(v)
		ret = number_format_plain(n)
		if format != "" {
			formatted, err := value_format(n, format)
			if err != nil {
				log.Printf("text: cannot apply format %q to %v: %v\n", format, n, err)
			} else {
				ret = formatted
			}
		}
	}
	return ret + unit
}
