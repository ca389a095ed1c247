package main

import (
	"testing"
)

func TestTextFormat(t *testing.T) {
	table := []struct {
		name   string
		value  any
		format string
		unit   string
		want   string
	}{
		{"fixed", 3.14159, "%.2f", "", "3.14"},
		{"fixed_unit", 3.14159, "%.2f", "ms", "3.14ms"},
		{"fixed_pad", 1.0, "%.3f", "", "1.000"},
		{"fixed_in_text", 21.456, "T=%.1f°C", "", "T=21.5°C"},
		{"fixed_first_only", 1.26, "%.1f / %.1f", "", "1.3 / %.1f"},
		{"int_round_up", 2.5, "%d", "", "3"},
		{"int_round_negative", -2.5, "%d", "", "-2"},
		{"int_in_text", 41.6, "Value: %d units", "", "Value: 42 units"},
		{"int_first_only", 1.0, "%d-%d", "", "1-%d"},
		{"int_typed", int64(7), "%d", "x", "7x"},
		{"broken_fixed", 1.5, "%.f", "", "1.5"},
		{"precision_too_large", 1.5, "%.101f", "", "1.5"},
		{"other_token", 1.5, "[%s]", "", "[1.5]"},
		{"other_token_first_only", 2.0, "%v %v", "", "2 %v"},
		{"lonely_percent", 1.5, "100%", "", "100%"},
		{"no_token", 1.5, "plain", "", "1.5"},
		{"no_format", 0.1 + 0.2, "", "", "0.30000000000000004"},
		{"no_format_unit", 12.0, "", " kg", "12 kg"},
		{"string_ignores_format", "hello", "%d", "!", "hello!"},
		{"numeric_string_ignores_format", "3.14159", "%.2f", "", "3.14159"},
		{"huge_fixed", 1e21, "%.2f", "", "1e+21"},
	}
	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			got := text_format(entry.value, entry.format, entry.unit)
			assertf(t, got == entry.want, "wanted %q, got %q", entry.want, got)
		})
	}
}

func TestNumberFormatPlain(t *testing.T) {
	table := []struct {
		give float64
		want string
	}{
		{0, "0"},
		{30, "30"},
		{-1.5, "-1.5"},
		{123456789, "123456789"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{-2e30, "-2e+30"},
	}
	for _, entry := range table {
		t.Run(entry.want, func(t *testing.T) {
			got := number_format_plain(entry.give)
			assertf(t, got == entry.want, "wanted %q, got %q", entry.want, got)
		})
	}
}
