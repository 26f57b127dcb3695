/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/meshview/viewer"
)

// ExportCmd represents the export command
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the mesh and fields of an input file as a legacy VTK file",
	Long: `
Builds the unstructured grid for the mesh of an input file and writes it, with
one SCALARS section per field, as a legacy ASCII VTK file without rendering.

meshview export -I input.yaml -o grid.vtk`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			logger    = loggerFromContext(cmd.Context())
			input, _  = cmd.Flags().GetString("inputFile")
			output, _ = cmd.Flags().GetString("output")
		)
		if output == "" {
			return fmt.Errorf("must supply an output file (-o, --output)")
		}
		params, err := processInput(input)
		if err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			params.Print()
		}
		m, err := buildMesh(params.Mesh)
		if err != nil {
			return err
		}
		vars, err := buildVariables(m, params.Fields)
		if err != nil {
			return err
		}
		g, err := viewer.NewGrid(m, viewer.WithLogger(logger))
		if err != nil {
			return err
		}
		fields := make([]*viewer.NamedScalarField, len(vars))
		for i, v := range vars {
			if fields[i], err = viewer.AttachScalarField(g, v); err != nil {
				return err
			}
		}

		file, err := os.Create(output)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		if err = g.WriteVTK(file, params.Title, fields...); err != nil {
			return err
		}
		logger.Info("exported grid", "path", output,
			"points", g.NumPoints(), "cells", g.NumCells(), "fields", len(fields))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ExportCmd)
	ExportCmd.Flags().StringP("inputFile", "I", "", "YAML file describing the mesh and fields")
	ExportCmd.Flags().StringP("output", "o", "", "VTK file to write")
}
