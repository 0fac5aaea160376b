package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formpipe/pkg/dom"
	"github.com/goliatone/go-formpipe/pkg/model"
	"github.com/goliatone/go-formpipe/pkg/notify"
)

var errBadNotice = errors.New("notice must be severity:message with severity info, success or danger")

func newInjectCmd(a *app) *cobra.Command {
	var (
		output    string
		formClass string
		notices   []string
	)

	cmd := &cobra.Command{
		Use:   "inject <page.html>",
		Short: "Prepare an existing page for validation",
		Long: `Assigns ids to validated forms that lack one and injects the hidden
honeypot input. --notify places a notification container with the given
messages at the end of the body, replacing one already there. Running it
again on its own output changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			doc, err := dom.Parse(file, dom.WithFormClass(formClass), dom.WithLogger(a.logger))
			if err != nil {
				return err
			}
			injected := doc.Prepare()
			if len(notices) > 0 {
				markup, err := noticeMarkup(a, notices)
				if err != nil {
					return err
				}
				if err := doc.SetNotifications(notify.ContainerID, markup); err != nil {
					return err
				}
			}

			var buf bytes.Buffer
			if err := doc.Render(&buf); err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, buf.Bytes()); err != nil {
				return err
			}

			a.logger.Info("page prepared",
				zap.String("page", args[0]),
				zap.Int("forms", len(doc.Forms())),
				zap.Int("honeypots", injected),
			)
			fmt.Fprintf(cmd.ErrOrStderr(), "%d form(s), %d honeypot(s) injected\n", len(doc.Forms()), injected)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&formClass, "form-class", model.ClassNeedsValidation, "class selecting the forms to prepare")
	flags.StringArrayVar(&notices, "notify", nil, "notification to place on the page as severity:message (repeatable)")
	return cmd
}

// noticeMarkup renders notices through a presenter, the same markup the
// session shows at runtime.
func noticeMarkup(a *app, notices []string) (string, error) {
	presenter := notify.NewPresenter(notify.WithLogger(a.logger))
	defer presenter.Close()

	for _, notice := range notices {
		severity, message, ok := strings.Cut(notice, ":")
		severity = strings.ToLower(strings.TrimSpace(severity))
		message = strings.TrimSpace(message)
		if !ok || message == "" {
			return "", fmt.Errorf("%w: %q", errBadNotice, notice)
		}
		switch model.Severity(severity) {
		case model.SeverityInfo, model.SeveritySuccess, model.SeverityDanger:
		default:
			return "", fmt.Errorf("%w: %q", errBadNotice, notice)
		}
		presenter.Push(message, model.Severity(severity))
	}
	return presenter.HTML()
}
