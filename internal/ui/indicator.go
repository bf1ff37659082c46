// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package ui

// IndicatorMode represents the current input mode.
type IndicatorMode int

const (
	// ModeNormal is the default navigation mode.
	ModeNormal IndicatorMode = iota
	// ModeCommand is for entering commands (: prefix).
	ModeCommand
	// ModeSearch is for the free text search of a grid (/ prefix).
	ModeSearch
)

// Mode indicators.
const (
	IndicatorNormal  = "⚡"
	IndicatorCommand = "⚡"
	IndicatorSearch  = "🔍"
)

func (m IndicatorMode) icon() (string, string) {
	switch m {
	case ModeCommand:
		return IndicatorCommand, ":"
	case ModeSearch:
		return IndicatorSearch, "/"
	default:
		return IndicatorNormal, ">"
	}
}
