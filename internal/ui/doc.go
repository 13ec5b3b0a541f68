// Package ui styles terminal output for the CLI.
//
// [Styles] is the shared [Palette]. Colors degrade to plain text when the output is not a terminal.
package ui
