package utils

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/paulmatencio/tbm/gLog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultLineLength = 100
	DefaultAsync      = 4
)

func GenAutoCompletionScript(rootcmd *cobra.Command, pathname string) {

	autoCompScript := filepath.Join(pathname, rootcmd.Name()+"_bash_completion")
	if err := rootcmd.GenBashCompletionFile(autoCompScript); err != nil {
		gLog.Error.Printf("Error %v generating bash completion script %s", err, autoCompScript)
		return
	}
	gLog.Info.Printf("Generate bash completion script %s", autoCompScript)
}

// SetLogLevel returns loglevel, or the configured level when loglevel is 0.
// verbose forces the trace level.
func SetLogLevel(v *viper.Viper, loglevel int) int {

	if loglevel == 0 {
		loglevel = v.GetInt("logging.log_level")
	}
	if v.GetBool("verbose") {
		loglevel = 4
	}
	return loglevel
}

func GetLogOutput(v *viper.Viper) string {
	if out := v.GetString("logging.output"); out != "" {
		return out
	}
	return "terminal"
}

func GetMaxFiles(v *viper.Viper) int {
	return v.GetInt("tbm.max_files")
}

// GetStartWord returns the configured word offset of the first data block frame, 0 if unset.
func GetStartWord(v *viper.Viper) uint64 {
	return uint64(v.GetInt64("tbm.start_word"))
}

func GetLineLength(v *viper.Viper) int {
	if n := v.GetInt("tbm.line_length"); n > 0 {
		return n
	}
	return DefaultLineLength
}

func GetDBDirectory(v *viper.Viper) string {
	return v.GetString("db.directory")
}

// GetS3Endpoints splits the comma separated list of s3.url.
func GetS3Endpoints(v *viper.Viper) []string {
	var urls []string
	for _, u := range strings.Split(v.GetString("s3.url"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func GetRetryNumber(v *viper.Viper) int {
	return v.GetInt("transport.retry.number")
}

func GetWaitTime(v *viper.Viper) time.Duration {
	return v.GetDuration("transport.retry.waitime")
}

// InitConfig reads the config file and initializes the loggers of rootcmd.
// The returned files are the log files opened by gLog.
func InitConfig(config string, v *viper.Viper, rootcmd *cobra.Command, loglevel int) []*os.File {

	var configPath string
	if config != "" {
		// Use config file from the application flag.
		v.SetConfigFile(config)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Fatalln(err)
		}
		configPath = filepath.Join("/etc", rootcmd.Name())
		v.AddConfigPath(configPath)

		configPath = filepath.Join(home, "."+rootcmd.Name())
		v.AddConfigPath(configPath)

		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	} else if config != "" {
		log.Printf("Error %v reading config file %s", err, v.ConfigFileUsed())
	}

	logOutput := GetLogOutput(v)
	loglevel = SetLogLevel(v, loglevel)
	files := gLog.InitLog(rootcmd.Name(), loglevel, logOutput)
	gLog.Trace.Printf("Logging level: %d   Output: %s", loglevel, logOutput)

	if v.GetBool("autoCompletion") {
		GenAutoCompletionScript(rootcmd, configPath)
	}
	return files
}
