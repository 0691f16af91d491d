// File: cmd/classify.go
package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/kinesis/internal/humanoid"
)

type classifyResult struct {
	Text           string             `json:"text"`
	Tags           []string           `json:"tags"`
	Modifiers      humanoid.Modifiers `json:"modifiers"`
	PasteableSpans []humanoid.Span    `json:"pasteable_spans"`
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Show the context tags and typing modifiers for text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			tags := humanoid.Classify(text)
			spans := humanoid.PasteableSpans(text)
			if spans == nil {
				spans = []humanoid.Span{}
			}
			return writeJSON(cmd.OutOrStdout(), classifyResult{
				Text:           text,
				Tags:           tags.Names(),
				Modifiers:      tags.Modifiers(),
				PasteableSpans: spans,
			})
		},
	}
}
