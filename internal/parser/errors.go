package parser

import (
	"fmt"
	"strings"
)

// MapError takes a raw instruction line and a participle error, and returns a human-friendly usage message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty instruction")
	}

	keyword := strings.Fields(input)[0]

	switch keyword {
	case "place":
		return fmt.Errorf("the instruction place must be: place <kind> <name> at <x>, <y> [with <0-100>%% discount]: %w", err)
	case "upgrade":
		return fmt.Errorf("the instruction upgrade must be: upgrade <name> path <0-2> [with <0-100>%% discount]: %w", err)
	case "retarget":
		return fmt.Errorf("the instruction retarget must be: retarget <name> [to <x>, <y>]: %w", err)
	case "special":
		return fmt.Errorf("the instruction special must be: special <name>: %w", err)
	case "sell":
		return fmt.Errorf("the instruction sell must be: sell <name>: %w", err)
	case "remove":
		return fmt.Errorf("the instruction remove must be: remove obstacle at <x>, <y> for <price|???>: %w", err)
	case "round":
		return fmt.Errorf("the instruction round must be: round <positive number>: %w", err)
	case "speed":
		return fmt.Errorf("the instruction speed must be: speed <token>: %w", err)
	}

	return fmt.Errorf("unknown instruction %q", keyword)
}
