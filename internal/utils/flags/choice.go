package flags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefixConstant  = "<"
	choicePlaceholderSuffixConstant  = ">"
	choiceSeparatorConstant          = "|"
	choiceUsageEmptyTemplateConstant = "`%s`"
	choiceUsageFullTemplateConstant  = "`%s` %s"
	choiceTypeNameConstant           = "string"
	choiceRejectedTemplateConstant   = "%w %q: must be one of %s"
	choiceRejectedMessageConstant    = "unsupported value"
)

// ErrUnsupportedChoice indicates a flag received a value outside its allowed set.
var ErrUnsupportedChoice = errors.New(choiceRejectedMessageConstant)

// ChoiceValue is a pflag.Value that only accepts one of a fixed set of strings, case-insensitively.
type ChoiceValue struct {
	target  *string
	choices []string
}

// AddChoiceFlag registers a string flag restricted to choices. An empty defaultChoice leaves the flag unset by default.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, description string) {
	if flagSet == nil || target == nil || len(name) == 0 {
		return
	}
	*target = defaultChoice
	flagSet.Var(&ChoiceValue{target: target, choices: normalizeChoices(choices)}, name, FormatChoiceUsage(defaultChoice, choices, description))
}

// String returns the current value.
func (value *ChoiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

// Set stores candidate when it matches one of the allowed choices.
func (value *ChoiceValue) Set(candidate string) error {
	normalizedCandidate := strings.ToLower(strings.TrimSpace(candidate))
	for _, choice := range value.choices {
		if normalizedCandidate == choice {
			*value.target = choice
			return nil
		}
	}
	return fmt.Errorf(choiceRejectedTemplateConstant, ErrUnsupportedChoice, candidate, strings.Join(value.choices, choiceSeparatorConstant))
}

// Type names the flag value type for usage output.
func (value *ChoiceValue) Type() string {
	return choiceTypeNameConstant
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplateConstant, placeholder, description)
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlightedChoices := make([]string, 0, len(choices))
	for _, choice := range normalizeChoices(choices) {
		if choice == normalizedDefault {
			choice = strings.ToUpper(choice)
		}
		highlightedChoices = append(highlightedChoices, choice)
	}
	return choicePlaceholderPrefixConstant + strings.Join(highlightedChoices, choiceSeparatorConstant) + choicePlaceholderSuffixConstant
}

func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		normalized = append(normalized, normalizedChoice)
	}
	return normalized
}
