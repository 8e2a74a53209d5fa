package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	apierr "github.com/vortex-fintech/geophone/errors"
	"github.com/vortex-fintech/geophone/phone"
	"github.com/vortex-fintech/geophone/rangesource"
)

var errUnformattable = errors.New("number cannot be formatted")

func newIdentifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "identify NUMBER...",
		Short: "Print the provider of each number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, n := range args {
				provider, err := r.Identify(n)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s\t%s\n", n, apierr.FromPhone(err).Reason)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", n, provider)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d numbers could not be identified", failed, len(args))
			}
			return nil
		},
	}
}

func newIsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "is PROVIDER NUMBER",
		Short: "Print true when NUMBER belongs to PROVIDER",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := r.Is(args[1], args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newFormatCmd(a *app) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "format NUMBER",
		Short: "Render NUMBER in a given style",
		Long: "Render NUMBER as " + styleList() + ".\n" +
			"Unknown styles fall back to international.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			out, ok := r.FormatAs(args[0], style)
			if !ok {
				return errUnformattable
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", string(phone.International), "output style: "+styleList())
	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse NUMBER",
		Short: "Split NUMBER into prefix and main parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			p, err := r.Parse(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup NUMBER",
		Short: "Print provider, parts and every rendering of NUMBER as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			res, err := r.Lookup(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newProvidersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Print the active range table as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.table(cmd.Context())
			if err != nil {
				return err
			}
			return rangesource.Encode(cmd.OutOrStdout(), t)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func styleList() string {
	names := make([]string, 0, len(phone.Styles()))
	for _, s := range phone.Styles() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
