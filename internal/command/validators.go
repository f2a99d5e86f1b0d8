// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"
)

// FlagValidatorType is a single flag-value check. Validators compose
// through FlagValidators.
type FlagValidatorType func(any) error

// FlagValidators runs each validator in order and stops at the first
// failure.
func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, validate := range validators {
		if err := validate(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator runs before every query command. Cross-flag rules
// would land here; the shared flags currently validate individually.
func GlobalFlagsValidator(_ context.Context, _ *cli.Command) error {
	return nil
}

// OneOfValidator builds a validator that accepts only the listed values. It
// backs the --output flag and the positional kind/service checks in the
// query and auth actions.
func OneOfValidator(valid ...string) FlagValidatorType {
	return func(value any) error {
		if s, ok := value.(string); ok && slices.Contains(valid, s) {
			return nil
		}
		return fmt.Errorf("must be one of %v", valid)
	}
}

// OutputValidator guards the --output flag.
func OutputValidator(value any) error {
	return OneOfValidator("text", "json", "raw", "yaml")(value)
}
