// pw-bot joins a PixelWalker world and answers a few chat commands.
//
// Configuration via environment variables:
//
//	PW_EMAIL, PW_PASSWORD  account used to obtain join keys
//	PW_TOKEN               API token, used instead of email/password
//	PW_ROOM                world id to join
//	PW_METRICS_ADDR        address for /metrics (empty disables it)
//	PW_LOG_LEVEL           logrus level, default info
//
// Chat commands: .ping, .say <text>, .disconnect [-f]
//
// Usage:
//
//	PW_EMAIL=bot@example.com PW_PASSWORD=secret PW_ROOM=abc123 go run ./cmd/pw-bot
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	pixelwalker "github.com/pixelwalker/go-sdk"
	"github.com/pixelwalker/go-sdk/api"
	"github.com/pixelwalker/go-sdk/packet"
)

type botConfig struct {
	Email       string `envconfig:"EMAIL"`
	Password    string `envconfig:"PASSWORD"`
	Token       string `envconfig:"TOKEN"`
	Room        string `envconfig:"ROOM" required:"true"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var bc botConfig
	if err := envconfig.Process("PW", &bc); err != nil {
		log.WithError(err).Fatal("load config")
	}
	if lvl, err := logrus.ParseLevel(bc.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	apiCfg, err := api.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("load api config")
	}
	creds, err := newAPIClient(bc, apiCfg, log)
	if err != nil {
		log.WithError(err).Fatal("api client")
	}

	metrics := pixelwalker.NewMetrics()
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		log.WithError(err).Fatal("register metrics")
	}
	if bc.MetricsAddr != "" {
		go serveMetrics(bc.MetricsAddr, reg, log)
	}

	client, err := pixelwalker.NewClient(pixelwalker.Config{
		HandlePackets: []pixelwalker.AutoHandle{pixelwalker.AutoPing, pixelwalker.AutoInit},
		Logger:        log,
	}, creds, pixelwalker.LogErrors(log), pixelwalker.WithMetrics(metrics))
	if err != nil {
		log.WithError(err).Fatal("NewClient")
	}
	defer client.Close()

	newBot(client, log).register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := login(ctx, client, creds); err != nil {
		log.WithError(err).Fatal("authenticate")
	}
	if err := client.JoinWorld(ctx, bc.Room, nil); err != nil {
		log.WithError(err).Fatal("join world")
	}

	log.WithField("room", bc.Room).Info("bot running")
	<-ctx.Done()
	log.Info("shutting down")
}

func newAPIClient(bc botConfig, cfg api.Config, log logrus.FieldLogger) (*api.Client, error) {
	opts := []api.Option{api.WithConfig(cfg), api.WithLogger(log)}
	if bc.Token != "" {
		return api.NewWithToken(bc.Token, opts...)
	}
	if bc.Email == "" || bc.Password == "" {
		return nil, errors.New("set PW_TOKEN or PW_EMAIL and PW_PASSWORD")
	}
	return api.NewWithAccount(bc.Email, bc.Password, opts...)
}

// login authenticates account details. Token clients are logged in already.
func login(ctx context.Context, client *pixelwalker.Client, creds *api.Client) error {
	if creds.LoggedIn() {
		return nil
	}
	return client.Init(ctx)
}

func serveMetrics(addr string, reg *prometheus.Registry, log logrus.FieldLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("metrics server")
	}
}

// session is the part of *pixelwalker.Client the bot drives.
type session interface {
	AddCallback(kind packet.Kind, handlers ...*pixelwalker.Handler) *pixelwalker.Client
	Send(kind packet.Kind, value any, opts ...pixelwalker.SendOption) error
	Disconnect(reconnect bool) bool
}

type bot struct {
	client session
	log    logrus.FieldLogger
	selfID atomic.Int32
}

func newBot(client session, log logrus.FieldLogger) *bot {
	b := &bot{client: client, log: log}
	b.selfID.Store(-1)
	return b
}

func (b *bot) register() {
	b.client.AddCallback(packet.KindPlayerInit, pixelwalker.Handle(b.onInit))
	b.client.AddCallback(packet.KindPlayerChat,
		pixelwalker.Handle(b.ignoreSelf),
		pixelwalker.Handle(b.onChat),
	)
}

func (b *bot) onInit(p *packet.PlayerInitPacket) error {
	if p.PlayerProperties != nil {
		b.selfID.Store(p.PlayerProperties.PlayerID)
		b.log.WithField("username", p.PlayerProperties.Username).Info("joined world")
	}
	return nil
}

// ignoreSelf stops the chat chain for the bot's own messages.
func (b *bot) ignoreSelf(p *packet.PlayerChatPacket) error {
	if p.PlayerID == b.selfID.Load() {
		return pixelwalker.Stop
	}
	return nil
}

func (b *bot) onChat(p *packet.PlayerChatPacket) error {
	cmd, ok := parseCommand(p.Message)
	if !ok {
		return nil
	}
	b.log.WithFields(logrus.Fields{"player": p.PlayerID, "command": cmd.name}).Debug("command")

	switch cmd.name {
	case "ping":
		return b.say("pong")
	case "say":
		if cmd.arg == "" {
			return nil
		}
		return b.say(cmd.arg)
	case "disconnect":
		b.client.Disconnect(cmd.arg != "-f")
	}
	return nil
}

func (b *bot) say(msg string) error {
	return b.client.Send(packet.KindPlayerChat, &packet.PlayerChatPacket{Message: msg})
}
