package main

import (
	"context"
	"os"

	"hopchain/hopnode/app"
	"hopchain/pkg/session/trace"

	"github.com/cloudwego/kitex/pkg/klog"
	"github.com/spf13/cobra"
)

func newRootCommand(run func(ctx context.Context, cfg *SetupConfig) error) *cobra.Command {
	values := new(flagValues)
	cmd := &cobra.Command{
		Use:           "hopnode",
		Short:         "A hop in a chain of services with injectable latency and failures",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveSetupConfig(values, cmd.Flags().Changed, os.LookupEnv)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	bindFlags(cmd, values)
	return cmd
}

func runNode(ctx context.Context, cfg *SetupConfig) error {
	klog.SetLevel(klog.Level(cfg.LogLevel))
	klog.Infof("find configs: instance:%s node:%+v otel:%+v consul:%+v",
		cfg.InstanceID, *cfg.NodeConf, *cfg.CommonConf.OTelConf, *cfg.CommonConf.ConsulConf)

	//指定依赖，组装Node
	builder := app.NewNodeBuilder().
		WithInstanceID(cfg.InstanceID).
		WithNodeConf(cfg.NodeConf).
		WithHttpServe(cfg.AdvertiseHost, cfg.HttpPort).
		WithOTelConfig(&trace.OTelConfig{
			EnableTrace:    cfg.EnableTrace,
			EnableMetrics:  cfg.EnableMetrics,
			InstrumentConf: cfg.CommonConf.OTelConf,
		})
	if cfg.CommonConf.ConsulConf.Enable {
		builder.WithConsulDiscovery(cfg.CommonConf.ConsulConf)
	}

	node, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	return node.Start(ctx)
}

func main() {
	if err := newRootCommand(runNode).ExecuteContext(context.Background()); err != nil {
		klog.Errorf("hopnode exit with error: %v", err)
		os.Exit(1)
	}
}
