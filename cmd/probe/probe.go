package probe

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github/arcwallet/wallet-core/internal/config"
	"github/arcwallet/wallet-core/internal/wallet/chains"
)

// New returns the probe subcommand.
// It runs a liveness check against every supported chain's RPC endpoint
// and prints the observed block number and latency.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Probe RPC connectivity for all supported chains",
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := config.DefaultConfigFromEnv()
			chainService := chains.NewService(cfg.RPCOverrides)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CHAIN\tID\tCONNECTED\tBLOCK\tLATENCY\tERROR")

			for _, chainID := range chainService.SupportedChainIDs() {
				info, _ := chainService.ChainInfo(chainID)
				result := chainService.TestConnection(cmd.Context(), chainID)

				if result.Connected {
					fmt.Fprintf(w, "%s\t%d\ttrue\t%d\t%dms\t\n",
						info.Name, chainID, result.BlockNumber, result.LatencyMS)
				} else {
					fmt.Fprintf(w, "%s\t%d\tfalse\t\t\t%s\n",
						info.Name, chainID, result.Error)
				}
			}

			_ = w.Flush()
		},
	}
}
