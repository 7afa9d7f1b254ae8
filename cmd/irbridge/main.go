package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"github.com/sparques/irkit/bridge"
	"github.com/sparques/irkit/config"
	"github.com/sparques/irkit/host/serial"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := config.Default()
	if err := conf.Validate(); err != nil {
		glog.Exitf("config: %v", err)
	}
	ids, _ := conf.ProtocolIDs()

	port, err := serial.Open(&serial.Config{Device: conf.Device, Baud: conf.Baud})
	if err != nil {
		glog.Exit(err)
	}
	defer port.Close()

	q, err := bridge.NewQueueFromURL(conf.BrokerURL, conf.ClientID)
	if err != nil {
		glog.Exit(err)
	}
	b := bridge.New(port, q, ids...)
	q.Sub(bridge.TopicTx, b.HandleSendRequest)
	if err := q.Connect(); err != nil {
		glog.Exitf("connect %s: %v", conf.BrokerURL, err)
	}
	defer q.Close()
	glog.Infof("bridging %s to %s, decoding %v", conf.Device, conf.BrokerURL, b.Protocols())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := b.Receive(ctx); err != nil && !errors.Is(err, context.Canceled) {
		glog.Errorf("receive: %v", err)
	}
}
