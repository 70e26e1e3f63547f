package types

import (
	"fmt"
	"regexp"
	"strconv"
)

var decimalPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

// ParseDecimal parses s as a base-10 floating point number. Unlike
// strconv.ParseFloat it rejects hexadecimal mantissas, underscores, Inf and
// NaN.
func ParseDecimal(s string) (float64, error) {
	if !decimalPattern.MatchString(s) {
		return 0, &strconv.NumError{Func: "ParseDecimal", Num: s, Err: fmt.Errorf("not a decimal number")}
	}
	return strconv.ParseFloat(s, 64)
}
