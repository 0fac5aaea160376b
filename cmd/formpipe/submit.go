package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/notify"
	"github.com/goliatone/go-formpipe/pkg/orchestrator"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/renderers/tui"
	"github.com/goliatone/go-formpipe/pkg/session"
	"github.com/goliatone/go-formpipe/pkg/submission"
)

var errNotDelivered = errors.New("submission was not delivered")

type submitReport struct {
	Result        submission.Result     `json:"result"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

func newSubmitCmd(a *app) *cobra.Command {
	var (
		baseURL     string
		interactive bool
		format      string
		headers     map[string]string
		values      map[string]string
	)

	cmd := &cobra.Command{
		Use:   "submit <form-id>",
		Short: "Submit a configured form to its endpoint",
		Long: `Runs a configured form through the submission pipeline: validation, the
honeypot check, the remote call and the resulting notifications. With
--interactive every field is prompted for in the terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := a.form(args[0])
			if err != nil {
				return err
			}

			var endpointOptions []submission.EndpointOption
			for name, value := range headers {
				endpointOptions = append(endpointOptions, submission.WithHeader(name, value))
			}
			orch, err := a.orchestrator(
				orchestrator.WithBaseURL(baseURL),
				orchestrator.WithEndpointOptions(endpointOptions...),
			)
			if err != nil {
				return err
			}
			s, err := orch.NewSession(session.WithNavigator(submission.LogNavigator{Logger: a.logger}))
			if err != nil {
				return err
			}
			defer s.Close()

			if interactive {
				renderer, err := tui.New(
					tui.WithSession(s),
					tui.WithOutputFormat(tui.OutputFormat(format)),
					tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
					tui.WithLogger(a.logger),
				)
				if err != nil {
					return err
				}
				report, err := renderer.Run(cmd.Context(), form, render.RenderOptions{Values: values})
				if err != nil {
					return err
				}
				if err := printReport(cmd, format, report); err != nil {
					return err
				}
				if report.Result == nil || !report.Result.Succeeded() {
					return errNotDelivered
				}
				return nil
			}

			if err := seedValues(form, values); err != nil {
				return err
			}
			id, err := s.Bind(form)
			if err != nil {
				return err
			}
			result, err := s.Submit(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.logger.Debug("submitted", zap.String("form", id), zap.String("disposition", string(result.Disposition)))

			report := submitReport{Result: result, Notifications: s.Presenter().Snapshot()}
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if !result.Succeeded() {
				return errNotDelivered
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&baseURL, "base-url", "", "page URL the endpoint path is resolved against (overrides base_url)")
	flags.BoolVarP(&interactive, "interactive", "i", false, "prompt for every field")
	flags.StringVar(&format, "format", string(tui.OutputFormatPrettyText), "interactive report format (pretty or json)")
	flags.StringToStringVar(&headers, "header", nil, "extra request headers (name=value)")
	flags.StringToStringVar(&values, "set", nil, "field values (name=value)")
	return cmd
}

func printReport(cmd *cobra.Command, format string, report tui.Report) error {
	if strings.EqualFold(format, string(tui.OutputFormatJSON)) {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	if report.Result != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", report.FormID, report.Result.Disposition)
	}
	return nil
}
