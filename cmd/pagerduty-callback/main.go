package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pagerduty "github.com/Graylog2/graylog2-alarmcallback-pagerduty"
	consulapi "github.com/hashicorp/consul/api"
	"github.com/ianschenck/envflag"
	"github.com/sirupsen/logrus"
)

func main() {
	configFile := envflag.String("PAGERDUTY_CONFIG_FILE", "", "Path to a YAML file holding the callback configuration.")
	consulKV := envflag.String("CONSUL_KV_ADDR", "", "Address of consul to read the callback configuration from. Ignored if PAGERDUTY_CONFIG_FILE is set.")
	consulPrefix := envflag.String("PAGERDUTY_CONSUL_PREFIX", "pagerduty", "KV prefix holding one key per configuration option.")
	listen := envflag.String("PAGERDUTY_LISTEN_ADDR", ":8080", "Address to accept alert events on.")
	eventsURL := envflag.String("PAGERDUTY_EVENTS_URL", pagerduty.EventsAPI, "PagerDuty Events API endpoint.")
	dryRun := envflag.Bool("PAGERDUTY_DRY_RUN", false, "Log triggers instead of sending them.")
	bootstrap := envflag.Bool("PAGERDUTY_BOOTSTRAP", false, "Accept and discard every alert. Useful to verify configuration without paging anyone.")
	logLevel := envflag.String("LOG_LEVEL", "info", "Log level: debug, info, warn or error.")

	envflag.Parse()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(*logLevel); err == nil {
		logrus.SetLevel(lvl)
	} else {
		logrus.WithField("level", *logLevel).Warn("unknown log level, using info")
	}
	log := logrus.WithField("system", "main")

	var transport pagerduty.Transport
	switch {
	case *bootstrap:
		transport = pagerduty.NoopTransport{}
	case *dryRun:
		transport = &pagerduty.PrintTransport{}
	default:
		transport = pagerduty.NewHTTPTransport(nil)
	}

	callbacks := &pagerduty.Holder{}
	reloader := pagerduty.NewReloader(callbacks, func() *pagerduty.Callback {
		return pagerduty.NewCallback(transport, pagerduty.WithEndpoint(*eventsURL))
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *configFile != "":
		raw, err := pagerduty.LoadFile(*configFile)
		if err != nil {
			log.WithField("err", err).Fatal("failed to load configuration")
		}
		if err := reloader.Apply(raw); err != nil {
			log.WithField("err", err).Fatal("invalid configuration")
		}
		go func() {
			if err := pagerduty.NewFileWatcher(*configFile, reloader).Run(ctx); err != nil {
				log.WithField("err", err).Error("file watcher stopped")
			}
		}()
	case *consulKV != "":
		config := *consulapi.DefaultConfig()
		config.Address = *consulKV
		cc, err := consulapi.NewClient(&config)
		if err != nil {
			log.WithField("err", err).Fatal("failed to build consul client")
		}
		raw, err := pagerduty.NewConsulSource(cc, *consulPrefix).Load()
		if err != nil {
			log.WithField("err", err).Fatal("failed to load configuration")
		}
		if err := reloader.Apply(raw); err != nil {
			log.WithField("err", err).Fatal("invalid configuration")
		}
		w, err := pagerduty.NewConsulWatcher(*consulKV, *consulPrefix, reloader)
		if err != nil {
			log.WithField("err", err).Fatal("failed to build consul watcher")
		}
		go func() {
			if err := w.Run(); err != nil {
				log.WithField("err", err).Error("consul watcher stopped")
			}
		}()
		defer w.Stop()
	default:
		log.Fatal("one of PAGERDUTY_CONFIG_FILE or CONSUL_KV_ADDR is required")
	}

	drain := make(chan *pagerduty.AlertEvent, 64)
	p := pagerduty.NewProcessor(drain, callbacks)
	go p.Run(ctx)

	srv := &http.Server{
		Addr:              *listen,
		Handler:           pagerduty.NewServer(callbacks, drain).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", *listen).Info("accepting alerts")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithField("err", err).Error("server stopped")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithField("err", err).Error("forced shutdown")
		os.Exit(1)
	}
}
