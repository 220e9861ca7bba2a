package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/spacebio/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func askCMD(opts *rootOptions) *cobra.Command {
	var pretty bool
	ask := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and print the response as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return fmt.Errorf("question is empty")
			}
			a, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					opts.logger.Warn("close resources", zap.Error(err))
				}
			}()

			resp, err := a.pipeline.Handle(cmd.Context(), question)
			if err != nil {
				return err
			}
			return writeJSON(cmd, resp, pretty)
		},
	}
	ask.Flags().BoolVar(&pretty, "pretty", true, "indent the JSON output")
	return ask
}

func writeJSON(cmd *cobra.Command, resp pipeline.Response, pretty bool) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
