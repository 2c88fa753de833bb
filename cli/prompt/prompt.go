// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/utils"
)

var (
	ErrInputEmpty          = errors.New("input is empty")
	ErrInputTooLarge       = errors.New("input is too large")
	ErrInvalidChoice       = errors.New("invalid choice")
	ErrIndexOutOfRange     = errors.New("index out-of-range")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

func Address(label string, hrp string) (codec.Address, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := codec.ParseAddressBech32(hrp, strings.TrimSpace(input))
			return err
		},
	}
	recipient, err := promptText.Run()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ParseAddressBech32(hrp, strings.TrimSpace(recipient))
}

func String(label string, minLen int, maxLen int) (string, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if len(input) < minLen {
				return ErrInputEmpty
			}
			if len(input) > maxLen {
				return ErrInputTooLarge
			}
			return nil
		},
	}
	text, err := promptText.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ParseAmount reads a price in base units that must not exceed [balance].
func ParseAmount(input string, balance uint64) (uint64, error) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return 0, ErrInputEmpty
	}
	amount, err := strconv.ParseUint(input, 10, 64)
	if err != nil {
		return 0, err
	}
	if amount > balance {
		return 0, ErrInsufficientBalance
	}
	return amount, nil
}

func Amount(
	label string,
	balance uint64,
	f func(input uint64) error,
) (uint64, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			amount, err := ParseAmount(input, balance)
			if err != nil {
				return err
			}
			if f != nil {
				return f(amount)
			}
			return nil
		},
	}
	rawAmount, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return ParseAmount(rawAmount, balance)
}

// ParseIndex reads a kitty index.
func ParseIndex(input string) (uint32, error) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return 0, ErrInputEmpty
	}
	index, err := strconv.ParseUint(input, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(index), nil
}

func Index(label string) (uint32, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ParseIndex(input)
			return err
		},
	}
	rawIndex, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return ParseIndex(rawIndex)
}

// ParseInt reads a positive integer no larger than [maxValue].
func ParseInt(input string, maxValue int) (int, error) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return 0, ErrInputEmpty
	}
	amount, err := strconv.Atoi(input)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%d must be > 0", amount)
	}
	if amount > maxValue {
		return 0, fmt.Errorf("%d must be <= %d", amount, maxValue)
	}
	return amount, nil
}

func Int(
	label string,
	maxValue int,
) (int, error) {
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ParseInt(input, maxValue)
			return err
		},
	}
	rawAmount, err := promptText.Run()
	if err != nil {
		return 0, err
	}
	return ParseInt(rawAmount, maxValue)
}

// ParseChoice reads an index into a list of [maxChoice] entries.
func ParseChoice(input string, maxChoice int) (int, error) {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return -1, ErrInputEmpty
	}
	index, err := strconv.Atoi(input)
	if err != nil {
		return -1, err
	}
	if index >= maxChoice || index < 0 {
		return -1, ErrIndexOutOfRange
	}
	return index, nil
}

func Choice(label string, maxChoice int) (int, error) {
	if maxChoice == 1 {
		utils.Outf("{{yellow}}%s:{{/}} 0 [auto-selected]\n", label)
		return 0, nil
	}
	promptText := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ParseChoice(input, maxChoice)
			return err
		},
	}
	rawIndex, err := promptText.Run()
	if err != nil {
		return -1, err
	}
	return ParseChoice(rawIndex, maxChoice)
}

// ParseBool accepts y or n in any case.
func ParseBool(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	case "":
		return false, ErrInputEmpty
	default:
		return false, ErrInvalidChoice
	}
}

func Bool(label string) (bool, error) {
	promptText := promptui.Prompt{
		Label: label + " (y/n)",
		Validate: func(input string) error {
			_, err := ParseBool(input)
			return err
		},
	}
	rawContinue, err := promptText.Run()
	if err != nil {
		return false, err
	}
	return ParseBool(rawContinue)
}

func Continue() (bool, error) {
	cont, err := Bool("continue")
	if err != nil {
		return false, err
	}
	if !cont {
		utils.Outf("{{red}}exiting...{{/}}\n")
	}
	return cont, nil
}
