package snake

import (
	"strconv"

	"github.com/manifoldco/promptui"
)

// Confirm asks a yes/no question. An empty answer takes def.
func Confirm(t IO, question string, def bool) (bool, error) {
	validInput := "true/[false]"
	if def {
		validInput = "[true]/false"
	}

	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := ParseBool(input)
		return err
	}

	templates := &promptui.PromptTemplates{
		Prompt:  question + " {{ . }} : ",
		Valid:   question + " {{ . | green }} : ",
		Invalid: question + " {{ . | red }} : ",
		Success: question + " {{ . | bold }} : ",
	}

	prompt := promptui.Prompt{
		Label:     validInput,
		Templates: templates,
		Validate:  validate,
		Stdin:     t.stdin(),
		Stdout:    t.stdout(),
	}

	result, err := prompt.Run()
	if err != nil {
		return false, err
	}
	if result == "" {
		return def, nil
	}
	return ParseBool(result)
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
