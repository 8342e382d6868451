package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is stamped at build time:
//
//	go build -ldflags "-X github.com/evcraddock/homeview/internal/cli.Version=v1.0.0" ./cmd/hv
var Version = "dev"

type buildInfo struct {
	Version  string `json:"version"`
	Revision string `json:"revision,omitempty"`
	Go       string `json:"go"`
}

func currentBuild() buildInfo {
	b := buildInfo{Version: Version, Go: runtime.Version()}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				b.Revision = s.Value[:12]
			}
		}
	}
	return b
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			if isJSON() {
				return printJSON(b)
			}
			if b.Revision != "" {
				fmt.Printf("hv %s (%s, %s)\n", b.Version, b.Revision, b.Go)
				return nil
			}
			fmt.Printf("hv %s (%s)\n", b.Version, b.Go)
			return nil
		},
	}
}
