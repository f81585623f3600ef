package util

import (
	"fmt"
	"runtime"
	"strings"
)

// GetTrace produces the string representation of a stack trace
func GetTrace() string {
	var name, file string
	var line int
	var pc [16]uintptr
	var res strings.Builder
	n := runtime.Callers(3, pc[:])
	for _, pc := range pc[:n] {
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		file, line = fn.FileLine(pc)
		name = fn.Name()
		if !strings.HasPrefix(name, "runtime.") {
			fmt.Fprintf(&res, "%s\n\t%s:%d\n", name, file, line)
		}
	}
	return res.String()
}

// FormatMultiError formats the errors collected by a multierror as an indented list, one per line
func FormatMultiError(merrs []error) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "%d error(s) occurred:", len(merrs))
	for _, err := range merrs {
		fmt.Fprintf(&msg, "\n\t* %v", err)
	}
	return msg.String()
}
