package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	beacon "github.com/Tap30/beacon-go"
	"github.com/Tap30/beacon-go/adapters"
)

type sendFlags struct {
	apiKey     string
	baseURL    string
	journal    string
	data       string
	testServer bool
	https      bool
	validate   bool
}

func newSendCmd(opts *rootOptions) *cobra.Command {
	flags := &sendFlags{}

	cmd := &cobra.Command{
		Use:   "send <message-type> [key=value...]",
		Short: "Send one beacon built from key=value parameters",
		Example: `  beacon send mtu s=555 v=1000 tu=direct
  beacon send apa s=555 u=$(beacon tag) --data '{"source":"invite"}'
  beacon send evt s=1 n=level_up --journal beacons.log`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, opts, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "collector API key")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "collector base URL, overrides --test-server and --https")
	cmd.Flags().StringVar(&flags.journal, "journal", "", "append the beacon URL to this file instead of sending it")
	cmd.Flags().StringVar(&flags.data, "data", "", "free-form data, sent base64 encoded")
	cmd.Flags().BoolVar(&flags.testServer, "test-server", false, "use the collector test server")
	cmd.Flags().BoolVar(&flags.https, "https", false, "use HTTPS")
	cmd.Flags().BoolVar(&flags.validate, "validate", true, "validate parameters before sending")
	return cmd
}

func runSend(cmd *cobra.Command, opts *rootOptions, flags *sendFlags, args []string) error {
	cfg := *opts.cfg
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = flags.apiKey
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = flags.baseURL
	}
	if cmd.Flags().Changed("journal") {
		cfg.Journal = flags.journal
	}
	if cmd.Flags().Changed("test-server") {
		cfg.UseTestServer = flags.testServer
	}
	if cmd.Flags().Changed("https") {
		cfg.UseHTTPS = flags.https
	}
	if cmd.Flags().Changed("validate") {
		cfg.ValidateParams = flags.validate
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	mt, err := beacon.ParseMessageType(args[0])
	if err != nil {
		return err
	}
	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}
	if flags.data != "" {
		params[beacon.ParamData] = beacon.Base64Encode(flags.data)
	}

	var transport beacon.TransportAdapter
	if cfg.Journal != "" {
		transport = adapters.NewFileTransportAdapter(cfg.Journal)
	} else {
		transport = adapters.NewNetHTTPAdapterWithClient(&http.Client{Timeout: cfg.RequestTimeout})
	}

	client, err := beacon.NewClient(beacon.ClientConfig{
		APIKey:           cfg.APIKey,
		UseTestServer:    cfg.UseTestServer,
		UseHTTPS:         cfg.UseHTTPS,
		ValidateParams:   cfg.ValidateParams,
		BaseURL:          cfg.BaseURL,
		TransportAdapter: transport,
		LoggerAdapter:    adapters.NewZerologLoggerAdapter(opts.logger),
	})
	if err != nil {
		return err
	}
	defer client.Dispose()

	b, err := client.Send(mt, params)
	if err != nil {
		return fmt.Errorf("%s message rejected: %w", mt, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
	defer cancel()
	if err := b.Wait(ctx); err != nil {
		opts.logger.Warn().Err(err).Str("message_type", string(mt)).Msg("beacon did not complete")
	}

	fmt.Fprintln(cmd.OutOrStdout(), b.URL)
	return nil
}

// parseParams turns key=value arguments into message parameters.
// Values stay strings; the validator accepts numeric strings.
func parseParams(args []string) (beacon.Params, error) {
	params := make(beacon.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("parameter %q must be key=value", arg)
		}
		params[key] = value
	}
	return params, nil
}
