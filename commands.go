package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newGenerateCmd(opts *options) *cobra.Command {
	var (
		output string
		send   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the poster edition to PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Output = output
			}
			if send && !cfg.CanSendEmail() {
				return errors.New("--send needs smtp.host, email.from and email.to in the config")
			}

			ed, err := newEdition(cmd.Context(), cfg, time.Now())
			if err != nil {
				return err
			}
			opts.log.Debugw("edition loaded", "id", ed.ID, "posters", ed.Posters)

			data, err := createPosterPDF(ed, cfg, opts.log)
			if err != nil {
				return err
			}

			filename := cfg.OutputFile()
			if err := writePDF(filename, data); err != nil {
				return err
			}
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d posters, %s)\n", green("Created"), filename, len(ed.Captions), ed.ID)

			if !send {
				return nil
			}
			subject := fmt.Sprintf("Tecniquim 0x00 %s", formatDate(ed.Date))
			if err := sendEmail(cfg, subject, Attachment{Filename: filepath.Base(filename), Data: data}); err != nil {
				return errors.Wrap(err, "failed to send edition")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s to %s\n", green("Sent"), filepath.Base(filename), cfg.Email.To)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: Tecniquim0-<run>.pdf)")
	cmd.Flags().BoolVar(&send, "send", false, "email the edition after rendering")
	return cmd
}

func newPreviewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Print the wrapped captions with their measured widths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}

			captions, err := loadHoroscopes(cfg.Horoscopes)
			if err != nil {
				return err
			}
			if len(captions) > cfg.Run {
				captions = captions[:cfg.Run]
			} else if len(captions) < cfg.Run {
				opts.log.Warnf("only %d horoscopes for a run of %d", len(captions), cfg.Run)
			}
			posters, err := findPosters(cfg.Posters.Dir, cfg.Posters.Pattern)
			if err != nil {
				return err
			}

			pdf := newPosterDocument(cfg)
			tf, err := newTypeface(pdf, cfg.Font)
			if err != nil {
				return err
			}
			pdf.AddPage()
			tf.apply(pdf)
			measure := newMeasurer(pdf, tf)

			now := time.Now()
			ed := &Edition{ID: editionID(cfg.Run, now), Date: now, Captions: captions, Posters: posters}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, buildPreviewHeader(ed))

			for i, caption := range captions {
				lines, err := Lines(caption, cfg.Caption.Width, measure)
				if err != nil {
					return errors.Wrapf(err, "failed to wrap caption %d", i+1)
				}
				widths := make([]float64, len(lines))
				for j, line := range lines {
					if widths[j], err = measure.Measure(line); err != nil {
						return err
					}
				}
				poster := "-"
				if i < len(posters) {
					poster = posters[i]
				}
				fmt.Fprint(out, buildCaptionBlock(i, poster, lines, widths, cfg.Caption.Width))
			}
			return nil
		},
	}
}

const overlayUsage = `Usage:
<base file a> <overlay file b> [<output file>]
Note: If the overlay file is shorter, its pages will be used repeatedly`

func newOverlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "overlay <base> <overlay> [<output>]",
		Short: "Overlay two PDF files page by page",
		Long: `Draws page i of the overlay file on top of page i of the base file.
If the overlay file is shorter, its pages will be used repeatedly.
The output file defaults to ` + defaultOverlayOutput + `.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 || len(args) > 3 {
				return errors.New(overlayUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := defaultOverlayOutput
			if len(args) == 3 {
				output = args[2]
			}

			n, err := overlayPDF(args[0], args[1], output, opts.log)
			if err != nil {
				return errors.Wrap(err, "needs 2 PDF files as input arguments")
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d pages)\n", green("Created"), output, n)
			return nil
		},
	}
}
