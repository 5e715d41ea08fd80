package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doctly/internal/convert"
	"github.com/pdiddy/doctly/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert documents to Markdown",
	Long: `Convert uploads each file to Doctly, polls until processing completes,
and writes the Markdown to <out-dir>/<name>.md. Files whose output already
exists are skipped unless --overwrite is given. Failures do not stop the
batch; the command exits non-zero if any file failed.

With --stdout a single file is converted and its Markdown printed instead.`,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.String("out-dir", "markdown", "directory for converted Markdown files")
	f.Duration("poll-interval", types.DefaultPollInterval, "delay between status checks")
	f.Duration("timeout", types.DefaultTimeout, "maximum time to wait for processing")
	f.Bool("overwrite", false, "re-convert files whose output already exists")
	f.Bool("frontmatter", true, "prepend YAML frontmatter naming the source file")
	f.Bool("stdout", false, "print the Markdown of a single file instead of writing it")

	mustBind("out_dir", f.Lookup("out-dir"))
	mustBind("poll_interval", f.Lookup("poll-interval"))
	mustBind("conversion_timeout", f.Lookup("timeout"))
	mustBind("overwrite", f.Lookup("overwrite"))
	mustBind("frontmatter", f.Lookup("frontmatter"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more files to convert")
	}

	toStdout, _ := cmd.Flags().GetBool("stdout")
	if toStdout && len(args) != 1 {
		return fmt.Errorf("--stdout converts exactly one file, got %d", len(args))
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	if toStdout {
		md, err := client.ToMarkdown(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	var cfg types.ConversionConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	if err := types.Validate(cfg); err != nil {
		return fmt.Errorf("invalid conversion config: %w", err)
	}

	result := convert.ConvertBatch(cmd.Context(), &convert.Doctly{Client: client}, args, cfg, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
