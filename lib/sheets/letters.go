package sheets

// ColumnLetter converts a zero-based column index into its spreadsheet
// letter form: 0 -> "A", 25 -> "Z", 26 -> "AA", 701 -> "ZZ".
func ColumnLetter(index int) string {
	letter := ""
	for index >= 0 {
		letter = string(rune('A'+index%26)) + letter
		index = index/26 - 1
	}
	return letter
}
