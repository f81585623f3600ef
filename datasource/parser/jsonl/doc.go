// Package jsonl parses JSON Lines data. This parser uses https://github.com/tidwall/gjson to process data, and extracts values from each line using a gjson path.
package jsonl
