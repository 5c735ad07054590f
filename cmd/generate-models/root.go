package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	openapi_models "github.com/vast-data/go-openapi-models"
	"github.com/vast-data/go-openapi-models/core"
)

type options struct {
	configFile  string
	endpoint    string
	token       string
	namingStyle string
	logLevel    string
	logFile     string
	strict      bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "generate-models",
		Short: "Generate data-access models from an OpenAPI document",
		Long: color.CyanString(`generate-models - OpenAPI driven models

Reads an OpenAPI document (file or URL, JSON or YAML), classifies its routes into
resources and standalone functions, and prints or calls what was generated.

Configuration is read from --config, OPENAPI_MODELS_* environment variables and a
.env file in the working directory. Flags take precedence.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "configuration file (yaml, json or toml)")
	flags.StringVar(&opts.endpoint, "endpoint", "", "API endpoint every resource path is appended to")
	flags.StringVar(&opts.token, "token", "", "bearer token")
	flags.StringVar(&opts.namingStyle, "naming-style", "", "standalone function naming style (pretty or raw)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this file, rotated")
	flags.BoolVar(&opts.strict, "strict", false, "validate the document structure before parsing")

	rootCmd.AddCommand(newSummaryCommand(opts))
	rootCmd.AddCommand(newDescribeCommand(opts))
	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newCallCommand(opts))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// buildConfig loads the configuration file and environment, then applies the flags.
func (opts *options) buildConfig() (*core.Config, error) {
	config, err := core.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.endpoint != "" {
		config.ApiEndpoint = opts.endpoint
	}
	if opts.token != "" {
		config.Token = opts.token
	}
	if opts.namingStyle != "" {
		config.FunctionNamingStyle = opts.namingStyle
	}
	if opts.strict {
		config.StrictSpec = true
	}
	level := opts.logLevel
	if level == "" {
		level = config.LogLevel
	}
	if config.Logger, err = newLogger(level, opts.logFile); err != nil {
		return nil, &core.ConfigError{Field: "LogLevel", Reason: err.Error()}
	}
	config.PrintOnInit = false
	return config, nil
}

// generate loads source (a path or an http(s) URL) and generates its models.
func (opts *options) generate(ctx context.Context, source string) (*openapi_models.Result, error) {
	config, err := opts.buildConfig()
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return openapi_models.InitializeWithURL(ctx, source, config)
	}
	return openapi_models.InitializeWithFile(ctx, source, config)
}

func newSummaryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary DOCUMENT",
		Short: "Print the generated models and functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color.New(color.FgCyan, color.Bold).Fprintf(out, "Generated %d models and %d functions from %s\n",
				len(result.Models), len(result.Functions), args[0])
			fmt.Fprint(out, result.Summary())
			return nil
		},
	}
}

func newDescribeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "describe DOCUMENT MODEL",
		Short: "Print the function table of one generated model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			model, err := result.Model(args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), model.Describe())
			return nil
		},
	}
}

func newCallCommand(opts *options) *cobra.Command {
	var body, action string
	cmd := &cobra.Command{
		Use:   "call DOCUMENT FUNCTION [key=value ...]",
		Short: "Call a generated standalone function",
		Long: `Call a generated standalone function.

Path parameters are passed as key=value pairs. --body is sent as the JSON request body
and --action overrides the HTTP verb of the route.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			callArgs, err := parseKeyValues(args[2:])
			if err != nil {
				return err
			}
			if body != "" {
				var decoded any
				if err := json.Unmarshal([]byte(body), &decoded); err != nil {
					return fmt.Errorf("--body is not valid JSON: %w", err)
				}
				callArgs[core.ArgRequestBody] = decoded
			}
			if action != "" {
				callArgs[core.ArgAction] = action
			}

			result, err := opts.generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			response, err := result.Call(cmd.Context(), args[1], callArgs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if response == nil {
				color.New(color.FgYellow).Fprintln(out, "no request was sent: unsupported verb")
				return nil
			}
			statusColor := color.New(color.FgGreen, color.Bold)
			if !response.IsSuccess() {
				statusColor = color.New(color.FgRed, color.Bold)
			}
			statusColor.Fprintf(out, "%s %s -> %d\n", response.Method, response.URL, response.StatusCode)
			if record, err := response.Record(); err == nil && !record.Empty() {
				render(out, record, outputJSON)
			} else {
				fmt.Fprintln(out, string(response.Body))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "JSON request body")
	cmd.Flags().StringVar(&action, "action", "", "override the HTTP verb")
	return cmd
}

func newListCommand(opts *options) *cobra.Command {
	var limit int
	var output string
	cmd := &cobra.Command{
		Use:   "list DOCUMENT MODEL [key=value ...]",
		Short: "List the remote items of a generated model",
		Long: `List the remote items of a generated model.

key=value pairs become equality filters. Pages are fetched until --limit items
are collected; a limit of 0 fetches every page.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputTable && output != outputJSON {
				return fmt.Errorf("--output must be %q or %q, got %q", outputTable, outputJSON, output)
			}
			whereArgs, err := parseKeyValues(args[2:])
			if err != nil {
				return err
			}
			if limit > 0 {
				whereArgs[core.ArgLimit] = limit
			}

			result, err := opts.generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			model, err := result.Model(args[1])
			if err != nil {
				return err
			}
			cursor, err := model.Where(cmd.Context(), whereArgs)
			if err != nil {
				return err
			}
			if err = cursor.EvaluateFully(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			records := cursor.Records()
			if records.Empty() {
				color.New(color.FgYellow).Fprintf(out, "no %s items\n", model.Name())
				return nil
			}
			render(out, records, output)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of items to fetch")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table or json)")
	return cmd
}

const (
	outputTable = "table"
	outputJSON  = "json"
)

func render(out io.Writer, value core.Renderable, output string) {
	if output == outputJSON {
		fmt.Fprintln(out, value.PrettyJson("  "))
		return
	}
	fmt.Fprintln(out, value.PrettyTable())
}

func parseKeyValues(pairs []string) (core.Params, error) {
	params := core.Params{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not in key=value form", pair)
		}
		params[key] = value
	}
	return params, nil
}

// newVersionCommand creates the version command
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()
			titleColor.Fprint(out, "generate-models version: ")
			fmt.Fprintln(out, Version)
			titleColor.Fprint(out, "library version: ")
			fmt.Fprintln(out, openapi_models.ClientVersion())
			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, runtime.Version())
		},
	}
}
