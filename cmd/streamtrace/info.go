package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/streamtrace/internal/config"
	"github.com/san-kum/streamtrace/internal/experiment"
	"github.com/san-kum/streamtrace/internal/integrators"
)

func listMethods(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tSTEP CONTROL")
	for _, name := range integrators.Names() {
		m, err := integrators.Lookup(name)
		if err != nil {
			return err
		}
		control := "fixed substeps"
		if m.Adaptive {
			control = "adaptive"
		}
		fmt.Fprintf(w, "%s\t%s\n", m.Name, control)
	}
	return w.Flush()
}

func listFields(cmd *cobra.Command, args []string) error {
	r := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tDOMAIN\tDESCRIPTION")
	for _, name := range r.ListFields() {
		spec, err := r.Spec(name)
		if err != nil {
			return err
		}
		d := spec.Domain
		fmt.Fprintf(w, "%s\t[%g,%g]x[%g,%g]\t%s\n", name, d.LLx, d.URx, d.LLy, d.URy, spec.Description)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for field: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}
