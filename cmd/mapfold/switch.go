package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// switchMode is the value of a tri-state flag such as --ui or --color.
type switchMode uint8

const (
	switchAuto switchMode = iota // follows the terminal
	switchOn
	switchOff
)

// parseSwitch reads an auto|on|off value of flag.
func parseSwitch(flag, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on":
		return switchOn, nil
	case "off":
		return switchOff, nil
	}
	return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled resolves the mode; auto means f is a terminal.
func (m switchMode) enabled(f *os.File) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	return isTerminal(f)
}

// colorEnabled resolves --color against the terminal state of f.
func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	mode, err := parseSwitch("color", value)
	if err != nil {
		return false, err
	}
	return mode.enabled(f), nil
}
