package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xfcbe/fake-news-detection/internal/app"
	"github.com/xfcbe/fake-news-detection/internal/bootstrap"
	"github.com/xfcbe/fake-news-detection/internal/model"
)

func (c *cli) analyzeCmd() *cobra.Command {
	var link, asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze <content|->",
		Short: "Score the credibility of text or a link",
		Long:  "Score the credibility of text or a link. Pass - to read the content from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := args[0]
			if content == "-" {
				raw, err := io.ReadAll(c.in)
				if err != nil {
					return fmt.Errorf("read stdin failed: %w", err)
				}
				content = string(raw)
			}

			return c.withSession(cmd, func(a *bootstrap.App) error {
				ws := a.NewWorkspace()
				mode := model.InputText
				if link {
					mode = model.InputLink
				}
				ws.SetInputMode(mode)
				ws.SetInput(content)

				outcome := ws.HandleCheck(cmd.Context())
				switch outcome.Kind {
				case app.OutcomeSuccess:
					if asJSON {
						return writeJSON(c.out, outcome.Record)
					}
					printRecord(c.out, *outcome.Record)
					return nil
				case app.OutcomeValidationError:
					return outcome.Err
				default:
					return fmt.Errorf("analyze failed: %w", outcome.Err)
				}
			})
		},
	}
	cmd.Flags().BoolVarP(&link, "link", "l", false, "treat the content as a URL")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	return cmd
}
