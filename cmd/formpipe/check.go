package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpipe/pkg/dom"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/validation"
)

var errInvalidForm = errors.New("form has invalid fields")

func newCheckCmd(a *app) *cobra.Command {
	var values map[string]string

	cmd := &cobra.Command{
		Use:   "check <form-id|page.html>",
		Short: "Validate field values",
		Long: `Runs every field of a configured form, or of each validated form on an HTML
page, through the validator and prints the verdicts. Exits non-zero when a
field is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forms, err := a.checkTargets(args[0])
			if err != nil {
				return err
			}

			validator := validation.New(validation.WithMessages(a.cfg.Messages()))
			valid := true
			for _, form := range forms {
				if err := seedValues(form, values); err != nil {
					return err
				}
				if !printVerdicts(cmd.OutOrStdout(), validator, form) {
					valid = false
				}
			}
			if !valid {
				return errInvalidForm
			}
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&values, "set", nil, "field values to check (name=value)")
	return cmd
}

func (a *app) checkTargets(target string) ([]*model.Form, error) {
	ext := strings.ToLower(filepath.Ext(target))
	if ext != ".html" && ext != ".htm" {
		form, err := a.form(target)
		if err != nil {
			return nil, err
		}
		return []*model.Form{form}, nil
	}

	file, err := os.Open(target)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	doc, err := dom.Parse(file, dom.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	forms := doc.Forms()
	if len(forms) == 0 {
		return nil, fmt.Errorf("%s has no forms to validate", target)
	}
	return forms, nil
}

func printVerdicts(w io.Writer, validator *validation.Validator, form *model.Form) bool {
	name := form.ID
	if name == "" {
		name = "(unnamed form)"
	}
	fmt.Fprintf(w, "%s\n", name)

	valid := true
	for _, field := range model.SubmittableFields(form) {
		ok, message := validator.Validate(field)
		if ok {
			fmt.Fprintf(w, "  ok    %s\n", field.Name)
			continue
		}
		valid = false
		fmt.Fprintf(w, "  FAIL  %s: %s\n", field.Name, message)
	}
	if !valid {
		fmt.Fprintf(w, "%s\n", validator.Messages().FormErrors)
	}
	return valid
}
