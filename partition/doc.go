// Package partition divides an input sequence amongst counting tasks.
package partition
