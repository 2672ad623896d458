package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"co2dash/pkg/dashboard"
	"co2dash/pkg/views"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the detected columns and the selectable years",
	RunE: func(cmd *cobra.Command, _ []string) error {
		session, _, err := openSession()
		if err != nil {
			return err
		}
		defer session.Close()

		ds, err := session.Dataset(cmd.Context())
		if err != nil {
			return err
		}
		years := views.Years(ds)
		fmt.Printf("columns:    %s\n", strings.Join(ds.Columns(), ", "))
		fmt.Printf("covariates: %s\n", strings.Join(dashboard.Covariates(ds), ", "))
		fmt.Printf("records:    %d\n", ds.Len())
		fmt.Printf("years:      %d", len(years))
		if len(years) > 0 {
			fmt.Printf(" (%d-%d)", years[len(years)-1], years[0])
		}
		fmt.Println()
		return nil
	},
}
