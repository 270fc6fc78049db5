package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"metrics-sink/internal/app"
	"metrics-sink/internal/recorders"
	"metrics-sink/internal/shared/configs"

	"github.com/spf13/pflag"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
	"curl/8.7.1",
	"python-requests/2.32.3",
}

func main() {
	configPath := pflag.String("config", "./configs/configs.yml", "path to the YAML configuration file")
	rate := pflag.Int("rate", 500, "events per second across all clients")
	duration := pflag.Duration("duration", 10*time.Second, "how long to generate load")
	clients := pflag.Int("clients", 4, "number of concurrent producers")
	priceRatio := pflag.Float64("price-ratio", 0.2, "fraction of events emitted as price updates")
	pflag.Parse()

	if *rate <= 0 || *clients <= 0 {
		fmt.Fprintln(os.Stderr, "--rate and --clients must be positive")
		os.Exit(2)
	}

	cfg, err := configs.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	application.StartPipeline(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	perClient := time.Second * time.Duration(*clients) / time.Duration(*rate)
	if perClient <= 0 {
		perClient = time.Microsecond
	}
	var wg sync.WaitGroup
	for c := 0; c < *clients; c++ {
		wg.Add(1)
		go func(clientID string) {
			defer wg.Done()
			produce(ctx, application.Recorder(), clientID, perClient, *priceRatio)
		}(fmt.Sprintf("loadgen-%02d", c))
	}
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Pipeline.ShutdownTimeoutDuration()+5*time.Second)
	defer shutdownCancel()
	shutdownErr := application.Shutdown(shutdownCtx)

	stats := application.Recorder().Stats()
	fmt.Printf("enqueued=%d dropped=%d queue_depth=%d state=%s\n",
		stats.Enqueued, stats.Dropped, stats.QueueDepth, stats.State)
	if shutdownErr != nil {
		fmt.Fprintf(os.Stderr, "Shutdown incomplete: %v\n", shutdownErr)
		os.Exit(1)
	}
}

func produce(ctx context.Context, recorder recorders.MetricsRecorder, clientID string, every time.Duration, priceRatio float64) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			items := 1 + rand.IntN(200)
			elapsed := float64(items) * (0.5 + rand.Float64())
			if rand.Float64() < priceRatio {
				recorder.AddPriceUpdate(clientID, now, elapsed, items, int64(items*256), rand.IntN(50) != 0)
				continue
			}
			status := "200"
			if rand.IntN(20) == 0 {
				status = "500"
			}
			recorder.AddIntegrationRequest(clientID, now, items, int64(items*512), elapsed,
				status == "200", status, userAgents[rand.IntN(len(userAgents))])
		}
	}
}
