package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"code.cloudfoundry.org/cfhttp/v2"
	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	"code.cloudfoundry.org/workpool"
	natsio "github.com/nats-io/nats.go"
	"github.com/tedsuo/ifrit"
	"github.com/tedsuo/ifrit/grouper"
	"github.com/tedsuo/ifrit/http_server"
	"github.com/tedsuo/ifrit/sigmon"
	"github.com/tedsuo/rata"

	"github.com/guildhall/auction/auctioneer"
	"github.com/guildhall/auction/auctionrunner"
	"github.com/guildhall/auction/communication/http/auction_http_handlers"
	"github.com/guildhall/auction/communication/http/dkp_http_client"
	"github.com/guildhall/auction/communication/http/routes"
	auctionnats "github.com/guildhall/auction/communication/nats"
	"github.com/guildhall/auction/config"
)

var configPath = flag.String("config", "config.yml", "path to the configuration file")

const deliveryWorkers = 8

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := lager.NewLogger("auctioneer")
	logger.RegisterSink(lager.NewWriterSink(os.Stdout, cfg.LagerLevel()))

	natsConn, err := natsio.Connect(cfg.NATS.URL)
	if err != nil {
		logger.Fatal("failed-to-connect-to-nats", err)
	}
	defer natsConn.Close()

	workPool, err := workpool.NewWorkPool(deliveryWorkers)
	if err != nil {
		logger.Fatal("failed-to-construct-work-pool", err)
	}

	sink := auctionnats.NewMessageSink(natsConn, logger)
	provider := dkp_http_client.New(cfhttp.NewClient(), cfg.DKP.URL, logger)

	engine := auctioneer.New(
		logger,
		clock.NewClock(),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg.Auction.Channels,
		cfg.Limits(),
	)
	runner := auctionrunner.New(logger, engine, provider, sink, clock.NewClock(), cfg.TickInterval(), workPool)

	handler, err := rata.NewRouter(routes.Routes, auction_http_handlers.New(runner, logger))
	if err != nil {
		logger.Fatal("failed-to-construct-router", err)
	}

	members := grouper.Members{
		{Name: "auction-runner", Runner: runner},
		{Name: "api", Runner: http_server.New(cfg.Server.ListenAddr, handler)},
	}
	monitor := ifrit.Invoke(sigmon.New(grouper.NewOrdered(os.Interrupt, members)))

	logger.Info("started", lager.Data{
		"listen-addr": cfg.Server.ListenAddr,
		"channels":    cfg.Auction.Channels,
	})

	if err := <-monitor.Wait(); err != nil {
		logger.Fatal("exited-with-failure", err)
	}

	logger.Info("exited")
}
