// Package data embeds the golden conversion cases shared by tests and the
// runum selftest command.
package data

import _ "embed"

// ConvertCases is a JSON array of {"name", "input", "output"} objects.
//
//go:embed golden/convert.json
var ConvertCases []byte
