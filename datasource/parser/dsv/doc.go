// Package dsv parses delimiter-separated values, such as CSV or TSV data.
package dsv
