package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-apimerge"
	"github.com/goliatone/go-apimerge/pkg/model"
	pkgopenapi "github.com/goliatone/go-apimerge/pkg/openapi"
)

func (app *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <source>",
		Short: "Load, parse and validate a single OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := pkgopenapi.ParseSource(args[0])
			if err != nil {
				return err
			}
			raw, err := app.loader().Load(cmd.Context(), src)
			if err != nil {
				return err
			}
			doc, err := apimerge.NewParser(pkgopenapi.WithValidation(true)).Parse(cmd.Context(), raw)
			if err != nil {
				return err
			}
			if err := model.Validate(cmd.Context(), doc); err != nil {
				return err
			}

			components := 0
			for _, kind := range model.ComponentKinds {
				components += len(doc.ComponentNames(kind))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid OpenAPI %s document (%d paths, %d operation ids, %d components)\n",
				src.Location(), doc.OpenAPI, len(doc.Paths), len(doc.OperationIDs()), components)
			return nil
		},
	}
}
