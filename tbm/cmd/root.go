package cmd

import (
	"fmt"
	"os"

	"github.com/paulmatencio/tbm/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile                 string
	verbose, autoCompletion bool
	loglevel                int
	logFiles                []*os.File

	ifile, odir, DB string

	missingInputFile    = "Missing input archive - please provide the tape image with -i or --ifile"
	missingOutputFolder = "Missing output directory - please provide the output directory path"
	missingBucket       = "Missing bucket - please provide the bucket name"
	missingDB           = "Missing status database - please provide the badger directory with --DB or db.directory"

	RootCmd = &cobra.Command{
		Use:              "tbm",
		Short:            "Terabit Memory tape archive tools",
		Long:             `Tools to inspect and recover the files of NCAR Terabit Memory tape archives`,
		TraverseChildren: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	for _, f := range logFiles {
		f.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {

	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().IntVarP(&loglevel, "loglevel", "l", 0, "Output level of logs (1: error, 2: Warning, 3: Info , 4 Trace, 5 Debug)")
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "tbm config file; default $HOME/.tbm/config.yaml")
	RootCmd.PersistentFlags().BoolVarP(&autoCompletion, "autoCompletion", "C", false, "generate bash auto completion")

	// bind application flags to viper key for future viper.Get()
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("loglevel", RootCmd.PersistentFlags().Lookup("loglevel"))
	viper.BindPFlag("autoCompletion", RootCmd.PersistentFlags().Lookup("autoCompletion"))

	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	logFiles = utils.InitConfig(cfgFile, viper.GetViper(), RootCmd, loglevel)
}
