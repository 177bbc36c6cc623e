package xsrfclient

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"xsrfclient/auth"
	"xsrfclient/cookiejar"
	"xsrfclient/flow"
)

var rootCmd = &cobra.Command{
	Use:          "xsrfclient",
	Short:        "xsrfclient performs an XSRF token handshake against a resource",
	Long:         `GET the resource, then POST back to it with the XSRF-TOKEN cookie echoed in the X-XSRF-TOKEN header.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		log, err := NewLogger(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		if err := Run(ctx, cfg, log); err != nil {
			return err
		}
		if cfg.Once {
			return nil
		}
		log.Info("requests done, idling until interrupted")
		<-ctx.Done()
		return nil
	},
}

func init() {
	initViper()
	if err := bindFlags(rootCmd.PersistentFlags()); err != nil {
		logrus.Fatalf("%+v", err)
	}
}

// NewRestyClient returns a client that stores cookies in jar and answers
// 401 challenges with creds.
func NewRestyClient(jar *cookiejar.HostJar, creds auth.Credentials, log logrus.FieldLogger) *resty.Client {
	client := resty.New()
	client.SetCookieJar(jar)
	client.SetTransport(&auth.Transport{Authenticate: auth.Basic(creds, log), Jar: jar})
	client.SetLogger(log)
	return client
}

// Run executes the handshake once with cfg.
func Run(ctx context.Context, cfg Config, log logrus.FieldLogger) error {
	jar := cookiejar.New()
	creds := auth.Credentials{Username: cfg.Username, Password: cfg.Password}
	f := &flow.Flow{
		Client: NewRestyClient(jar, creds, log),
		Jar:    jar,
		URL:    cfg.URL,
		Log:    log,
	}
	return f.Run(ctx)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sig:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sig)
		cancel()
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
