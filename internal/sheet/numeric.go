package sheet

import (
	"strconv"
	"strings"
)

// parseNumeric reads a cell as a float, honoring the locale separators in
// opt or guessing them per value. A trailing % is dropped.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			// "1,234,567" is a thousands group, "0,5" and "0,125" are decimal commas
			intPart := strings.TrimLeft(raw[:cpos], "+-")
			if strings.Count(raw, ",") > 1 || (len(raw)-cpos-1 == 3 && intPart != "" && intPart != "0") {
				dec = '.'
				thou = ','
			} else {
				dec = ','
			}
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
