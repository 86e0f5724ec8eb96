package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	EWFLogger "github.com/aarsakian/EWF_Reader/logger"
	VMDKLogger "github.com/aarsakian/VMDK_Reader/logger"

	"github.com/aarsakian/ImageSanitizer/config"
	SanLogger "github.com/aarsakian/ImageSanitizer/logger"
	"github.com/aarsakian/ImageSanitizer/reporter"
	"github.com/aarsakian/ImageSanitizer/sanitizer"
)

var (
	Version = "dev"
)

type globalFlags struct {
	configPath string
	logactive  bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "imagesanitizer",
		Short: "Prepare encrypted disk images for sharing as test fixtures",
		Long: `ImageSanitizer classifies the byte ranges of a disk image into structural
metadata (encryption headers, NTFS boot record and file table windows) and
user data, then zero-fills exactly the user data so the image can be shared
as a test fixture without leaking content.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logfilename := ""
			if flags.logactive {
				logfilename = "logs" + time.Now().Format("2006-01-02T15_04_05") + ".txt"
				VMDKLogger.InitializeLogger(flags.logactive, logfilename)
				EWFLogger.InitializeLogger(flags.logactive, logfilename)
			}
			SanLogger.InitializeLogger(flags.logactive, logfilename)
		},
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().BoolVar(&flags.logactive, "log", false, "enable logging")

	cmd.AddCommand(newPlanCommand(flags))
	cmd.AddCommand(newScrubCommand(flags))

	return cmd
}

func imageFlags(cmd *cobra.Command, opts *sanitizer.Options) {
	cmd.Flags().StringVar(&opts.ImagePath, "image", "", "path to the disk image or container")
	cmd.Flags().StringVar(&opts.Mode, "mode", "raw", "image format: raw, ewf, vmdk, physicalDrive")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "use a captured metadata report instead of invoking the encryption tool")
	cmd.Flags().StringVar(&opts.Password, "password", "", "container password handed to the encryption tool")
	cmd.MarkFlagRequired("image")
}

func newPlanCommand(flags *globalFlags) *cobra.Command {
	var opts sanitizer.Options

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute and print the zero plan without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}

			opts.DryRun = true
			plan, err := sanitizer.Sanitizer{Cfg: cfg}.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			rp := reporter.Reporter{ShowRegions: true, ShowTables: true, ShowPlan: true}
			rp.Show(plan)
			return nil
		},
	}
	imageFlags(cmd, &opts)

	return cmd
}

func newScrubCommand(flags *globalFlags) *cobra.Command {
	var opts sanitizer.Options
	var showPlan bool

	cmd := &cobra.Command{
		Use:   "scrub",
		Short: "Zero-fill every byte range not holding structural metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}

			plan, err := sanitizer.Sanitizer{Cfg: cfg}.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			rp := reporter.Reporter{ShowRegions: showPlan, ShowTables: showPlan, ShowPlan: showPlan}
			rp.Show(plan)
			fmt.Printf("image %s sanitized\n", opts.ImagePath)
			return nil
		},
	}
	imageFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.FixtureLocation, "fixture", "", "package the sanitized image into this directory")
	cmd.Flags().BoolVar(&showPlan, "showplan", false, "print the computed plan")

	return cmd
}
