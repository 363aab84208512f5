package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sigpad/pkg/config"
	"github.com/matzehuels/sigpad/pkg/delivery"
	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/queue"
)

// flagFields is a FieldSource built from --field flags and an optional
// JSON fields file. Flag values are appended after file values.
type flagFields struct {
	file  string
	pairs []string
}

// Fields implements delivery.FieldSource.
func (f flagFields) Fields(context.Context) (queue.Entry, error) {
	entry := queue.Entry{}
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse fields file %s", f.file)
		}
	}
	for _, pair := range f.pairs {
		k, v, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		entry.Add(k, v)
	}
	return entry, nil
}

// splitPair parses "key=value" flag values.
func splitPair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "expected key=value, got %q", s)
	}
	if err := errors.ValidateFieldName(k); err != nil {
		return "", "", err
	}
	return k, v, nil
}

// loadSignatures turns field=events.jsonl pairs into signatures.
func loadSignatures(pairs []string, required bool, cfg config.Config) ([]delivery.Signature, error) {
	var sigs []delivery.Signature
	for _, pair := range pairs {
		field, path, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		pad, _, err := loadPad(path)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, delivery.Signature{
			Field:    field,
			Required: required,
			Document: pad.Snapshot(),
			Size:     cfg.Pad.Size(),
		})
	}
	return sigs, nil
}

// submitCommand creates the submit command.
func (c *CLI) submitCommand() *cobra.Command {
	var (
		fields      flagFields
		required    []string
		optional    []string
		offline     bool
		showPayload bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit form fields and signatures to the endpoint",
		Long: `Submit builds a multipart submission from form fields and recorded signatures
and posts it to the configured endpoint.

Failed or offline submissions are saved to the local queue and can be sent
later with "sigpad retry". No signature is dropped.`,
		Example: `  sigpad submit --field name=Ada --field programs=swim --field programs=art \
      --sig participantSignature=participant.jsonl
  sigpad submit --fields form.json --sig participantSignature=p.jsonl --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			sigs, err := loadSignatures(required, true, cfg)
			if err != nil {
				return err
			}
			opt, err := loadSignatures(optional, false, cfg)
			if err != nil {
				return err
			}
			sub, err := delivery.NewSubmission(ctx, fields, append(sigs, opt...)...)
			if err != nil {
				return err
			}

			q, err := c.openQueue(ctx, cfg)
			if err != nil {
				return err
			}
			defer q.Close()

			pipeline, err := c.newPipeline(cfg, q, offline)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			spinner := newSpinnerWithContext(ctx, "Submitting...")
			restore := watchDelivery(spinner, "Submitting")
			spinner.Start()
			res, err := pipeline.Submit(ctx, sub)
			spinner.Stop()
			restore()
			if err != nil {
				return err
			}

			switch res.Outcome {
			case delivery.OutcomeDelivered:
				printSuccess("%s", res.Message())
				prog.done(fmt.Sprintf("Delivered after %d attempt(s)", res.Attempts))
			default:
				printWarning("%s", res.Message())
				if res.Err != nil {
					printDetail("Last error: %s", errors.UserMessage(res.Err))
				}
			}
			printKeyValue("ID", res.ID)
			printKeyValue("Outcome", res.Outcome.String())

			if showPayload {
				printDetail("Fields: %s", strings.Join(sub.Fields.Keys(), ", "))
			}
			n, err := q.Size(ctx)
			if err != nil {
				return err
			}
			printPending(n)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&fields.pairs, "field", "f", nil, "form field as key=value (repeat for multi-valued fields)")
	cmd.Flags().StringVar(&fields.file, "fields", "", "JSON object of form fields")
	cmd.Flags().StringArrayVar(&required, "sig", nil, "required signature as field=events.jsonl")
	cmd.Flags().StringArrayVar(&optional, "optional-sig", nil, "optional signature as field=events.jsonl")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the network and save to the queue")
	cmd.Flags().BoolVar(&showPayload, "show-fields", false, "list submitted field names")
	_ = cmd.RegisterFlagCompletionFunc("sig", completeSignaturePair)
	_ = cmd.RegisterFlagCompletionFunc("optional-sig", completeSignaturePair)
	_ = cmd.MarkFlagFilename("fields", "json")

	return cmd
}

var _ delivery.FieldSource = flagFields{}
