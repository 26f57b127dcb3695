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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/meshview/viewer"
)

// PlotCmd represents the plot command
var PlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render the fields of an input file and optionally save a PNG snapshot",
	Long: `
Reads a mesh and its cell fields as described by a YAML input file, renders each
field as a surface map with a color legend and saves the final frame.

meshview plot -I input.yaml -o snapshot.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			logger   = loggerFromContext(cmd.Context())
			input, _ = cmd.Flags().GetString("inputFile")
			output   string
			title    string
		)
		params, err := processInput(input)
		if err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			params.Print()
		}
		output = params.Snapshot
		if cmd.Flags().Changed("output") {
			output, _ = cmd.Flags().GetString("output")
		}
		title = params.Title
		if cmd.Flags().Changed("title") {
			title, _ = cmd.Flags().GetString("title")
		}

		m, err := buildMesh(params.Mesh)
		if err != nil {
			return err
		}
		vars, err := buildVariables(m, params.Fields)
		if err != nil {
			return err
		}
		limits, err := viewer.NewLimitSpec(params.Limits)
		if err != nil {
			return err
		}
		sess, err := newSession(viper.GetString("backend"),
			viper.GetInt("width"), viper.GetInt("height"), logger)
		if err != nil {
			return err
		}
		v, err := viewer.New(sess, vars,
			viewer.WithLimits(limits),
			viewer.WithTitle(title),
			viewer.WithLogger(logger),
			viewer.WithTempDir(viper.GetString("tempDir")),
		)
		if err != nil {
			return err
		}
		p := newProgress(logger)
		saved, err := v.Plot(output)
		if err != nil {
			return err
		}
		if saved != "" {
			cmd.Println(saved)
		}
		p.done("Plotted " + plural(len(vars), "field"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(PlotCmd)
	PlotCmd.Flags().StringP("inputFile", "I", "", "YAML file describing the mesh, fields, limits and title")
	PlotCmd.Flags().StringP("output", "o", "", "PNG snapshot path, .png is added when there is no extension")
	PlotCmd.Flags().StringP("title", "t", "", "plot title, overrides the input file")
}
