package app

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bitcoin-sv/p2p-wire/cmd/p2pwire/app/decode"
	"github.com/bitcoin-sv/p2p-wire/cmd/p2pwire/app/encode"
	"github.com/bitcoin-sv/p2p-wire/cmd/p2pwire/app/inspect"
	"github.com/bitcoin-sv/p2p-wire/config"
)

var RootCmd = &cobra.Command{
	Use:           "p2pwire",
	Short:         "Encode, decode and inspect bitcoin p2p wire messages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var dumpConfigCmd = &cobra.Command{
	Use:   "dumpconfig [file]",
	Short: "Dump the effective configuration to a yaml file and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		file := "dumped_config.yaml"
		if len(args) > 0 {
			file = args[0]
		}

		_, err := config.Load(viper.GetString("configDir"))
		if err != nil {
			return err
		}

		return config.DumpConfig(file)
	},
}

func init() {
	var err error

	RootCmd.PersistentFlags().String("config", "", "Directory containing a config.yaml")
	err = viper.BindPFlag("configDir", RootCmd.PersistentFlags().Lookup("config"))
	if err != nil {
		log.Fatal(err)
	}

	RootCmd.PersistentFlags().String("network", "", "Network: mainnet, testnet, regtest, dogecoin-mainnet, dogecoin-testnet")
	err = viper.BindPFlag("network", RootCmd.PersistentFlags().Lookup("network"))
	if err != nil {
		log.Fatal(err)
	}

	RootCmd.PersistentFlags().String("logLevel", "", "TRACE, DEBUG, INFO, WARN or ERROR")
	err = viper.BindPFlag("logLevel", RootCmd.PersistentFlags().Lookup("logLevel"))
	if err != nil {
		log.Fatal(err)
	}

	RootCmd.PersistentFlags().String("logFormat", "", "json, text or tint")
	err = viper.BindPFlag("logFormat", RootCmd.PersistentFlags().Lookup("logFormat"))
	if err != nil {
		log.Fatal(err)
	}

	RootCmd.AddCommand(decode.Cmd)
	RootCmd.AddCommand(encode.Cmd)
	RootCmd.AddCommand(inspect.Cmd)
	RootCmd.AddCommand(dumpConfigCmd)
}

func Execute() error {
	return RootCmd.Execute()
}
