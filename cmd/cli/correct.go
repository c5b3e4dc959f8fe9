package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lcdstats/adapters/stats/correction"
	"lcdstats/internal/errors"

	"github.com/spf13/cobra"
)

func newCorrectCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "correct [file|-]",
		Short: "Correct a list of p-values as one family",
		Long: `Read p-values, one per line, from a file or stdin and print the corrected
values in input order. Blank lines and lines starting with # are ignored.

Example: printf '0.01\n0.04\n0.03\n' | lcdstats correct --method sidak-holm`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.IOError(fmt.Sprintf("failed to open %s", args[0]), err)
				}
				defer f.Close()
				in = f
			}
			return runCorrect(in, cmd.OutOrStdout(), correction.Method(method))
		},
	}

	cmd.Flags().StringVar(&method, "method", string(correction.MethodSidakHolm), "Correction method: sidak-holm|sidak|bh|none")
	return cmd
}

func runCorrect(in io.Reader, out io.Writer, method correction.Method) error {
	corrector, err := correction.New(method)
	if err != nil {
		return err
	}

	pvals, err := readPValues(in)
	if err != nil {
		return err
	}
	adjusted, err := corrector.Correct(pvals)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, p := range adjusted {
		fmt.Fprintln(w, strconv.FormatFloat(p, 'g', -1, 64))
	}
	if err := w.Flush(); err != nil {
		return errors.IOError("failed to write corrected p-values", err)
	}
	return nil
}

func readPValues(in io.Reader) ([]float64, error) {
	var pvals []float64
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("line %d: %q is not a number", line, text))
		}
		pvals = append(pvals, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.IOError("failed to read p-values", err)
	}
	return pvals, nil
}
