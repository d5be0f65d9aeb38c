package utils

import "time"

// ToRiyadh converts UTC time to Arabia Standard Time
func ToRiyadh(t time.Time) time.Time {
	ast, err := time.LoadLocation("Asia/Riyadh")
	if err != nil {
		return t // Fallback to UTC if AST is not available
	}
	return t.In(ast)
}
