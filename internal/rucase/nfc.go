package rucase

import "golang.org/x/text/unicode/norm"

// ComposeNFC returns s in Unicode NFC form.
// Only strings carrying a combining breve or diaeresis (the marks that
// decompose й and ё) are passed through the normalizer.
func ComposeNFC(s string) string {
	hasCombiner := false
	for _, r := range s {
		if r == 0x0306 || r == 0x0308 {
			hasCombiner = true
			break
		}
	}
	if !hasCombiner {
		return s
	}
	return norm.NFC.String(s)
}
