package options

import "github.com/mitchellh/go-wordwrap"

// Wrap80 folds long help text at the conventional terminal width.
func Wrap80(text string) string {
	return wordwrap.WrapString(text, 80)
}
