// Package generate produces reproducible sample sequences
package generate

import "math/rand"

// Uniform returns size values drawn uniformly from [0, maxValue), using a fixed seed
func Uniform(seed int64, size int, maxValue int) []int {
	rng := rand.New(rand.NewSource(seed))
	data := make([]int, size)
	for i := range data {
		data[i] = rng.Intn(maxValue)
	}
	return data
}

// Skewed returns size values in [0, maxValue) where hotFraction of them are drawn from
// only the hotValues smallest values, and the remainder uniformly
func Skewed(seed int64, size int, maxValue int, hotValues int, hotFraction float64) []int {
	rng := rand.New(rand.NewSource(seed))
	if hotValues < 1 {
		hotValues = 1
	}
	if hotValues > maxValue {
		hotValues = maxValue
	}
	data := make([]int, size)
	for i := range data {
		if rng.Float64() < hotFraction {
			data[i] = rng.Intn(hotValues)
		} else {
			data[i] = rng.Intn(maxValue)
		}
	}
	return data
}

// Sequential returns the values 0..size-1, in which every value is unique
func Sequential(size int) []int {
	data := make([]int, size)
	for i := range data {
		data[i] = i
	}
	return data
}
