package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/DavidGamba/go-getoptions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nhle/insyd/internal/mockserver"
	"github.com/nhle/insyd/internal/model"
)

func main() {
	var addr, seedUser string
	var debug bool

	opt := getoptions.New()
	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&addr, "addr", ":5000",
		opt.Description("address to listen on"))
	opt.StringVar(&seedUser, "seed", "user123",
		opt.Description("user whose feed is pre-populated with sample notifications (empty to skip)"))
	opt.BoolVar(&debug, "debug", false,
		opt.Description("log every request"))

	_, err := opt.Parse(os.Args[1:])
	if opt.Called("help") {
		fmt.Fprint(os.Stderr, opt.Help())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		fmt.Fprint(os.Stderr, opt.Help(getoptions.HelpSynopsis))
		os.Exit(2)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := mockserver.New(log)
	if seedUser != "" {
		srv.Seed(seedUser, sampleFeed(time.Now())...)
	}

	log.WithField("addr", addr).Info("mock backend listening")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.WithError(err).Fatal("mock backend stopped")
	}
}

func sampleFeed(now time.Time) []model.Notification {
	stamp := func(ago time.Duration) string {
		return now.Add(-ago).UTC().Format(model.EventTimestampLayout)
	}
	return []model.Notification{
		{ID: "65f1a0c2e4b0a1b2c3d4e5f1", Type: model.CategoryLike, Content: "alice liked your post", Timestamp: stamp(2 * time.Minute)},
		{ID: "65f1a0c2e4b0a1b2c3d4e5f2", Type: model.CategoryComment, Content: "bob commented: nice shot!", Timestamp: stamp(10 * time.Minute)},
		{ID: "65f1a0c2e4b0a1b2c3d4e5f3", Type: model.CategoryFollow, Content: "carol started following you", Timestamp: stamp(time.Hour)},
		{ID: "65f1a0c2e4b0a1b2c3d4e5f4", Type: model.CategoryPost, Content: "dave published a new post", Timestamp: stamp(3 * time.Hour)},
		{ID: "65f1a0c2e4b0a1b2c3d4e5f5", Type: model.CategoryMessage, Content: "erin sent you a message", Timestamp: stamp(24 * time.Hour)},
	}
}
