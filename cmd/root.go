package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	"github.com/beanboi7/chyp8/internal/config"

	_ "github.com/tliron/commonlog/simple"
)

var (
	cfgFile string
	log     = commonlog.GetLogger("chyp8.cmd")
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chyp8 [command]",
	Short: "Chip-8 emulator using Go",
	Long:  "A Chip-8 emulator written from scratch that mimics the functionalities of a Chip-8, an interpretted language originally written for the COSMIC-VIP/ Telmac 8 bit systems.",
	Args:  cobra.NoArgs,
	Run:   Root,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(viper.GetInt("verbose"), nil)
		if used := viper.ConfigFileUsed(); used != "" {
			log.Infof("using config file %s", used)
		}
	},
}

func Root(cmd *cobra.Command, args []string) {
	fmt.Println("Enter command as `chyp8 start /path/ROM`")
	cmd.Usage()
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chyp8.yaml)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "log more, repeat for debug output")
	cobra.CheckErr(viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chyp8" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(config.FileName)
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			cobra.CheckErr(err)
		}
	}
}
