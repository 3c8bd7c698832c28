package backend

import (
	"context"
	"os/exec"
	"strings"
)

// IsArithmetic reports whether a query is a candidate calculator
// expression: digits and basic operators only, nothing bc could abuse.
func IsArithmetic(expr string) bool {
	e := strings.ToLower(strings.Trim(strings.TrimSpace(expr), "="))
	if e == "" {
		return false
	}
	for _, r := range e {
		if (r < '0' || r > '9') && !strings.ContainsRune("+-*/.^() ", r) {
			return false
		}
	}
	return true
}

// CalcEval evaluates an arithmetic expression with bc -l, returning
// the cleaned result. Non-arithmetic input and bc failures return
// false.
func CalcEval(ctx context.Context, expr string) (string, bool) {
	if !IsArithmetic(expr) {
		return "", false
	}
	e := strings.ToLower(strings.Trim(strings.TrimSpace(expr), "="))

	cmd := exec.CommandContext(ctx, "bc", "-l")
	cmd.Env = append(cmd.Environ(), "BC_LINE_LENGTH=0")
	cmd.Stdin = strings.NewReader("scale=4; " + e + "\n")
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}

	return cleanResult(strings.TrimSpace(string(out))), true
}

// cleanResult strips trailing fraction zeros: "4.2500" -> "4.25",
// "3.0000" -> "3". A result that cleans away entirely is zero.
func cleanResult(res string) string {
	if !strings.Contains(res, ".") {
		return res
	}
	cleaned := strings.TrimRight(strings.TrimRight(res, "0"), ".")
	if cleaned == "" || cleaned == "-" {
		return "0"
	}
	return cleaned
}
