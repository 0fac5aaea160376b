package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/orchestrator"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/renderers/vanilla"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		rendererName string
		output       string
		page         bool
		title        string
		values       map[string]string
		hidden       map[string]string
		csrfToken    string
		formErrors   []string
	)

	cmd := &cobra.Command{
		Use:   "render [form-id...]",
		Short: "Render configured forms",
		Long: `Renders the named forms (every configured form when none are named) with
the selected renderer. --page wraps vanilla markup in a complete document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			forms := a.cfg.Forms
			if len(args) > 0 {
				forms = make([]*model.Form, 0, len(args))
				for _, id := range args {
					form, err := a.form(id)
					if err != nil {
						return err
					}
					forms = append(forms, form)
				}
			}
			if len(forms) == 0 {
				return fmt.Errorf("no forms configured")
			}

			var extra []render.HiddenField
			if csrfToken != "" {
				extra = append(extra, render.CSRFToken(render.CSRFFieldName, csrfToken))
			}
			options := render.RenderOptions{
				Values:     values,
				FormErrors: formErrors,
				Hidden:     render.MergeHiddenFields(hidden, extra...),
			}
			var out []byte
			if page {
				renderer, err := vanilla.New(vanilla.WithStylesheet("assets/" + vanilla.StylesheetName))
				if err != nil {
					return err
				}
				out, err = renderer.RenderPage(cmd.Context(), vanilla.Page{
					Title:   title,
					Lang:    a.cfg.Locale,
					Forms:   forms,
					Options: options,
				})
				if err != nil {
					return err
				}
			} else {
				orch, err := a.orchestrator()
				if err != nil {
					return err
				}
				for _, form := range forms {
					rendered, err := orch.Generate(cmd.Context(), orchestrator.Request{
						Form:          form,
						Renderer:      rendererName,
						RenderOptions: options,
					})
					if err != nil {
						return err
					}
					out = append(out, rendered...)
				}
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&rendererName, "renderer", "r", "vanilla", "renderer to use (vanilla or tui)")
	flags.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	flags.BoolVar(&page, "page", false, "render a complete HTML page")
	flags.StringVar(&title, "title", "", "page title used with --page")
	flags.StringToStringVar(&values, "set", nil, "prefill field values (name=value)")
	flags.StringToStringVar(&hidden, "hidden", nil, "hidden inputs to add (name=value)")
	flags.StringVar(&csrfToken, "csrf-token", "", "CSRF token emitted as the _csrf hidden input")
	flags.StringArrayVar(&formErrors, "form-error", nil, "form level error shown above the fields (repeatable)")
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
